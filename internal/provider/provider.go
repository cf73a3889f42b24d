// Package provider exposes a uniform contract over heterogeneous LLM
// backends: list the selectable models, generate an answer from a prompt.
// Backends differ only in endpoint shape and authentication; callers pick
// one by Kind and pass explicit credentials, never ambient state.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// ModelInfo describes one selectable model of a backend.
type ModelInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// Provider is the capability every backend implements.
//
// ListModels never returns an error: on any network or parsing failure it
// falls back to a static known-good list, so the caller always has a
// selectable option. The backend's flagship model is moved to the front.
//
// GenerateAnswer likewise never fails outward: call failures come back as a
// readable fallback string carrying the error detail, so the conversation
// surface always has content to display.
type Provider interface {
	ListModels(ctx context.Context) []ModelInfo
	GenerateAnswer(ctx context.Context, prompt string) string
}

// Kind selects a concrete backend.
type Kind string

const (
	KindOpenAI Kind = "openai"
	KindGemini Kind = "gemini"
)

// Credentials configure one backend instance. Model may be empty, in which
// case the backend's default model is used.
type Credentials struct {
	APIKey  string
	BaseURL string
	Model   string
}

var (
	// ErrMissingAPIKey is a precondition failure raised before any
	// network call is attempted.
	ErrMissingAPIKey = errors.New("provider API key is not configured")
	ErrUnknownKind   = errors.New("unknown provider kind")
)

// New constructs the backend for kind. Configuration problems surface here,
// before any request is made.
func New(kind Kind, creds Credentials) (Provider, error) {
	if creds.APIKey == "" {
		return nil, fmt.Errorf("%w (provider %q)", ErrMissingAPIKey, kind)
	}
	switch kind {
	case KindOpenAI:
		return NewOpenAI(creds), nil
	case KindGemini:
		return NewGemini(creds), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// moveToFront returns models with the flagship id first, preserving the
// relative order of the rest. A flagship absent from the list is left alone.
func moveToFront(models []ModelInfo, flagship string) []ModelInfo {
	for i, m := range models {
		if m.ID != flagship {
			continue
		}
		reordered := make([]ModelInfo, 0, len(models))
		reordered = append(reordered, models[i])
		reordered = append(reordered, models[:i]...)
		reordered = append(reordered, models[i+1:]...)
		return reordered
	}
	return models
}
