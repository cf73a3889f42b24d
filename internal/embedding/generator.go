// Package embedding maps chunk text to fixed-length vectors. Two backends are
// available: a local ONNX sentence model and a remote OpenAI-compatible
// embeddings API. When neither is configured, retrieval degrades to lexical
// scoring instead (never to random vectors).
package embedding

import (
	"context"
	"errors"
)

// Result pairs a vector with the token sequence it was computed from.
// Tokens are informational only.
type Result struct {
	Vector []float32 `json:"vector"`
	Tokens []string  `json:"tokens"`
}

// Generator produces one Result per input text, preserving order.
// Within a single loaded model instance, identical input text yields the
// identical vector.
type Generator interface {
	Embed(ctx context.Context, texts []string) ([]Result, error)
	Dimensions() int
}

// ErrNotConfigured is returned by the nil backend; callers switch to lexical
// retrieval when they see it.
var ErrNotConfigured = errors.New("no embedding backend configured")

// Disabled is the Generator used when embedding is turned off.
type Disabled struct{}

func (Disabled) Embed(context.Context, []string) ([]Result, error) {
	return nil, ErrNotConfigured
}

func (Disabled) Dimensions() int { return 0 }
