package model

// ProjectContext is a named configuration profile that narrows retrieval to
// documents tagged with its ID and frames the LLM prompt for a domain.
// Contexts are loaded once at startup and read-only afterwards.
type ProjectContext struct {
	ID               string   `toml:"id" json:"id"`
	Name             string   `toml:"name" json:"name"`
	Description      string   `toml:"description" json:"description"`
	PromptPrefix     string   `toml:"prompt_prefix" json:"prompt_prefix"`
	ExampleQuestions []string `toml:"example_questions" json:"example_questions"`
	// Keywords get a score bonus in lexical retrieval for this context.
	Keywords []string `toml:"keywords" json:"keywords,omitempty"`
}
