package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteGeneratorEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/embeddings", r.URL.Path)

		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req.Model)

		type datum struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}
		resp := struct {
			Data []datum `json:"data"`
		}{}
		// Deliver out of order to exercise the index sort.
		for i := len(req.Input) - 1; i >= 0; i-- {
			resp.Data = append(resp.Data, datum{
				Index:     i,
				Embedding: []float32{float32(i), float32(len(req.Input[i]))},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	g := NewRemoteGenerator(srv.URL+"/v1", "test-key", "text-embedding-3-small", 2)
	results, err := g.Embed(context.Background(), []string{"first text", "second"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, []float32{0, 10}, results[0].Vector)
	assert.Equal(t, []float32{1, 6}, results[1].Vector)
	assert.Equal(t, []string{"first", "text"}, results[0].Tokens)
}

func TestRemoteGeneratorEmptyInput(t *testing.T) {
	g := NewRemoteGenerator("", "key", "text-embedding-3-small", 0)
	results, err := g.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Equal(t, 1536, g.Dimensions())
}

func TestRemoteGeneratorServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewRemoteGenerator(srv.URL+"/v1", "key", "text-embedding-3-small", 2)
	_, err := g.Embed(context.Background(), []string{"x"})
	assert.Error(t, err)
}
