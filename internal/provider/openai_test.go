package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAITestServer(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAI(Credentials{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
}

func TestOpenAIListModelsFallsBackOnFailure(t *testing.T) {
	p := openAITestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"nope"}}`, http.StatusUnauthorized)
	})

	models := p.ListModels(context.Background())
	require.NotEmpty(t, models)
	assert.Equal(t, openAIFlagshipModel, models[0].ID)
	for _, m := range models {
		assert.Equal(t, string(KindOpenAI), m.Provider)
	}
}

func TestOpenAIListModelsFlagshipFirst(t *testing.T) {
	p := openAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "gpt-3.5-turbo", "object": "model"},
				{"id": "whisper-1", "object": "model"},
				{"id": "gpt-4o", "object": "model"},
			},
		})
	})

	models := p.ListModels(context.Background())
	require.Len(t, models, 2, "non-chat models are filtered out")
	assert.Equal(t, "gpt-4o", models[0].ID)
	assert.Equal(t, "gpt-3.5-turbo", models[1].ID)
}

func TestOpenAIGenerateAnswer(t *testing.T) {
	p := openAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req struct {
			Model       string  `json:"model"`
			Temperature float64 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, openAIDefaultModel, req.Model)
		assert.InDelta(t, answerTemperature, req.Temperature, 0.001)
		assert.Equal(t, answerMaxTokens, req.MaxTokens)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "  The answer.  "}},
			},
		})
	})

	answer := p.GenerateAnswer(context.Background(), "question")
	assert.Equal(t, "The answer.", answer)
}

func TestOpenAIGenerateAnswerFallsBackOnFailure(t *testing.T) {
	p := openAITestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	})

	answer := p.GenerateAnswer(context.Background(), "question")
	assert.Contains(t, answer, "couldn't generate an answer")
}

func TestGeminiDefaultsWithoutNetwork(t *testing.T) {
	p := NewGemini(Credentials{APIKey: "k"})
	assert.Equal(t, geminiDefaultModel, p.model)

	models := moveToFront(geminiDefaultModels, geminiFlagshipModel)
	require.NotEmpty(t, models)
	assert.Equal(t, geminiFlagshipModel, models[0].ID)
}
