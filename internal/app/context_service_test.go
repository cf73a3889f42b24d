package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contextsTOML = `
[[contexts]]
id = "legal"
name = "Legal"
description = "Contracts and legal documents"
prompt_prefix = "You are a legal document analyst."
example_questions = ["What is the termination clause?"]
keywords = ["clause", "liability", "indemnity"]

[[contexts]]
id = "finance"
name = "Finance"
prompt_prefix = "You are a financial analyst."
`

func writeContexts(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contexts.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestContextServiceLoadsFile(t *testing.T) {
	cs, err := NewContextService(writeContexts(t, contextsTOML))
	require.NoError(t, err)

	list := cs.List()
	require.Len(t, list, 3, "default context plus two configured")
	assert.Equal(t, DefaultContextID, list[0].ID)
	assert.Equal(t, "legal", list[1].ID)
	assert.Equal(t, "finance", list[2].ID)

	legal := cs.Get("legal")
	assert.Equal(t, "You are a legal document analyst.", legal.PromptPrefix)
	assert.Equal(t, []string{"clause", "liability", "indemnity"}, legal.Keywords)
}

func TestContextServiceDefaultOnly(t *testing.T) {
	cs, err := NewContextService("")
	require.NoError(t, err)

	list := cs.List()
	require.Len(t, list, 1)
	assert.Equal(t, DefaultContextID, list[0].ID)
	assert.NotEmpty(t, list[0].PromptPrefix)
}

func TestContextServiceUnknownIDFallsBackToDefault(t *testing.T) {
	cs, err := NewContextService("")
	require.NoError(t, err)

	got := cs.Get("nope")
	assert.Equal(t, DefaultContextID, got.ID)
	assert.False(t, cs.Has("nope"))
	assert.True(t, cs.Has(DefaultContextID))
}

func TestContextServiceRejectsMissingID(t *testing.T) {
	_, err := NewContextService(writeContexts(t, "[[contexts]]\nname = \"Anonymous\"\n"))
	assert.Error(t, err)
}

func TestContextServiceOverridesDefault(t *testing.T) {
	cs, err := NewContextService(writeContexts(t, `
[[contexts]]
id = "default"
name = "Custom Default"
prompt_prefix = "Custom framing."
`))
	require.NoError(t, err)

	got := cs.Get("")
	assert.Equal(t, "Custom Default", got.Name)

	list := cs.List()
	require.Len(t, list, 1)
}

func TestContextServiceMissingFile(t *testing.T) {
	_, err := NewContextService("/nonexistent/contexts.toml")
	assert.Error(t, err)
}
