package provider

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	openAIDefaultModel  = "gpt-4o-mini"
	openAIFlagshipModel = "gpt-4o"

	answerTemperature = 0.3
	answerMaxTokens   = 1000
)

// openAIDefaultModels is the static fallback served when the model-listing
// endpoint is unreachable.
var openAIDefaultModels = []ModelInfo{
	{ID: "gpt-4o", Name: "GPT-4o", Provider: string(KindOpenAI)},
	{ID: "gpt-4o-mini", Name: "GPT-4o mini", Provider: string(KindOpenAI)},
	{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", Provider: string(KindOpenAI)},
	{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Provider: string(KindOpenAI)},
}

// OpenAI talks to the OpenAI chat API, or any compatible endpoint when
// BaseURL is overridden.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(creds Credentials) *OpenAI {
	cfg := openai.DefaultConfig(creds.APIKey)
	if creds.BaseURL != "" {
		cfg.BaseURL = creds.BaseURL
	}
	model := creds.Model
	if model == "" {
		model = openAIDefaultModel
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model}
}

func (p *OpenAI) ListModels(ctx context.Context) []ModelInfo {
	resp, err := p.client.ListModels(ctx)
	if err != nil {
		log.Printf("openai list models failed, serving defaults: %v", err)
		return moveToFront(openAIDefaultModels, openAIFlagshipModel)
	}

	var models []ModelInfo
	for _, m := range resp.Models {
		if !strings.HasPrefix(m.ID, "gpt-") {
			continue
		}
		models = append(models, ModelInfo{ID: m.ID, Name: m.ID, Provider: string(KindOpenAI)})
	}
	if len(models) == 0 {
		return moveToFront(openAIDefaultModels, openAIFlagshipModel)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return moveToFront(models, openAIFlagshipModel)
}

func (p *OpenAI) GenerateAnswer(ctx context.Context, prompt string) string {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: answerTemperature,
		MaxTokens:   answerMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return fmt.Sprintf("I couldn't generate an answer right now (OpenAI request failed: %v). Please try again.", err)
	}
	if len(resp.Choices) == 0 {
		return "I couldn't generate an answer right now (OpenAI returned no choices). Please try again."
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}
