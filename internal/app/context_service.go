package app

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"docuquery/internal/model"
)

// DefaultContextID is the context used when a query supplies none.
const DefaultContextID = "default"

// defaultContext is always present, even with no contexts file configured.
var defaultContext = model.ProjectContext{
	ID:           DefaultContextID,
	Name:         "General",
	Description:  "General-purpose document question answering",
	PromptPrefix: "You are an expert document analysis assistant.",
	ExampleQuestions: []string{
		"What are the key points of this document?",
		"Summarize the main findings.",
	},
}

// ContextService serves the configured project contexts. Contexts are loaded
// once at startup from a TOML file and read-only afterwards.
type ContextService struct {
	contexts []model.ProjectContext
	byID     map[string]model.ProjectContext
}

type contextsFile struct {
	Contexts []model.ProjectContext `toml:"contexts"`
}

// NewContextService loads contexts from path. An empty path serves only the
// built-in default context; a configured context with the default's id
// replaces it.
func NewContextService(path string) (*ContextService, error) {
	var loaded []model.ProjectContext
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read contexts file failed: %w", err)
		}
		var file contextsFile
		if err := toml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parse contexts file failed: %w", err)
		}
		loaded = file.Contexts
	}

	s := &ContextService{byID: make(map[string]model.ProjectContext)}
	hasDefault := false
	for _, c := range loaded {
		if c.ID == "" {
			return nil, fmt.Errorf("context %q has no id", c.Name)
		}
		if c.ID == DefaultContextID {
			hasDefault = true
		}
		s.contexts = append(s.contexts, c)
		s.byID[c.ID] = c
	}
	if !hasDefault {
		s.contexts = append([]model.ProjectContext{defaultContext}, s.contexts...)
		s.byID[DefaultContextID] = defaultContext
	}
	return s, nil
}

// List returns all contexts in load order, default first.
func (s *ContextService) List() []model.ProjectContext {
	out := make([]model.ProjectContext, len(s.contexts))
	copy(out, s.contexts)
	return out
}

// Get returns the context with the given id, or the default context when id
// is empty or unknown.
func (s *ContextService) Get(id string) model.ProjectContext {
	if c, ok := s.byID[id]; ok {
		return c
	}
	return s.byID[DefaultContextID]
}

// Has reports whether id names a configured context.
func (s *ContextService) Has(id string) bool {
	_, ok := s.byID[id]
	return ok
}
