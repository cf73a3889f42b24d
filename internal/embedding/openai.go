package embedding

import (
	"context"
	"fmt"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// RemoteGenerator calls an OpenAI-compatible embeddings endpoint. Tokens in
// the result are a plain field split of the input, kept only for display.
type RemoteGenerator struct {
	client *openai.Client
	model  string
	dims   int
}

func NewRemoteGenerator(baseURL, apiKey, model string, dims int) *RemoteGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if dims <= 0 {
		dims = 1536
	}
	return &RemoteGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		dims:   dims,
	}
}

func (g *RemoteGenerator) Dimensions() int { return g.dims }

func (g *RemoteGenerator) Embed(ctx context.Context, texts []string) ([]Result, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := g.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(g.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d texts", len(resp.Data), len(texts))
	}

	// The API is index-ordered in practice; sort defensively so the 1:1
	// correspondence with texts holds regardless.
	data := resp.Data
	sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	results := make([]Result, len(texts))
	for i := range data {
		results[i] = Result{
			Vector: data[i].Embedding,
			Tokens: strings.Fields(strings.ToLower(texts[i])),
		}
	}
	return results, nil
}
