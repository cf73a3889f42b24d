package provider

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const (
	geminiDefaultModel  = "gemini-1.5-flash"
	geminiFlagshipModel = "gemini-1.5-pro"
)

var geminiDefaultModels = []ModelInfo{
	{ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro", Provider: string(KindGemini)},
	{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", Provider: string(KindGemini)},
	{ID: "gemini-1.0-pro", Name: "Gemini 1.0 Pro", Provider: string(KindGemini)},
}

// Gemini talks to Google's Generative Language API. The client is created
// per call because its constructor wants the request context.
type Gemini struct {
	apiKey string
	model  string
}

func NewGemini(creds Credentials) *Gemini {
	model := creds.Model
	if model == "" {
		model = geminiDefaultModel
	}
	return &Gemini{apiKey: creds.APIKey, model: model}
}

func (p *Gemini) ListModels(ctx context.Context) []ModelInfo {
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		log.Printf("gemini client init failed, serving defaults: %v", err)
		return moveToFront(geminiDefaultModels, geminiFlagshipModel)
	}
	defer client.Close()

	var models []ModelInfo
	it := client.ListModels(ctx)
	for {
		m, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("gemini list models failed, serving defaults: %v", err)
			return moveToFront(geminiDefaultModels, geminiFlagshipModel)
		}
		if !supportsGeneration(m.SupportedGenerationMethods) {
			continue
		}
		id := strings.TrimPrefix(m.Name, "models/")
		name := m.DisplayName
		if name == "" {
			name = id
		}
		models = append(models, ModelInfo{ID: id, Name: name, Provider: string(KindGemini)})
	}
	if len(models) == 0 {
		return moveToFront(geminiDefaultModels, geminiFlagshipModel)
	}
	return moveToFront(models, geminiFlagshipModel)
}

func (p *Gemini) GenerateAnswer(ctx context.Context, prompt string) string {
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return fmt.Sprintf("I couldn't generate an answer right now (Gemini client failed: %v). Please try again.", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	model.SetTemperature(answerTemperature)
	model.SetMaxOutputTokens(answerMaxTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return fmt.Sprintf("I couldn't generate an answer right now (Gemini request failed: %v). Please try again.", err)
	}
	answer := flattenCandidates(resp)
	if answer == "" {
		return "I couldn't generate an answer right now (Gemini returned no content). Please try again."
	}
	return answer
}

func supportsGeneration(methods []string) bool {
	for _, m := range methods {
		if m == "generateContent" {
			return true
		}
	}
	return false
}

func flattenCandidates(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return strings.TrimSpace(b.String())
}
