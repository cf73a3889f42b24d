package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docuquery/internal/app"
	"docuquery/internal/config"
	"docuquery/internal/provider"
	"docuquery/internal/transport/http/response"
)

type QueryHandler struct {
	query *app.QueryService
	llm   config.LLMConfig
}

type QueryRequest struct {
	Question  string `json:"question" binding:"required"`
	ContextID string `json:"context_id"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
}

func NewQueryHandler(query *app.QueryService, llm config.LLMConfig) *QueryHandler {
	return &QueryHandler{query: query, llm: llm}
}

func (h *QueryHandler) Ask(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	prov, err := h.buildProvider(req.Provider, req.Model)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		return
	}

	answer, err := h.query.Answer(c.Request.Context(), req.Question, req.ContextID, prov)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "query failed: "+err.Error())
		return
	}
	response.OK(c, answer)
}

// buildProvider resolves the backend for one request. Configuration problems
// (unknown kind, missing API key) surface here, before any network call.
func (h *QueryHandler) buildProvider(kind, model string) (provider.Provider, error) {
	if kind == "" {
		kind = h.llm.Provider
	}
	creds, err := credentialsFor(h.llm, provider.Kind(kind))
	if err != nil {
		return nil, err
	}
	if model != "" {
		creds.Model = model
	}
	return provider.New(provider.Kind(kind), creds)
}

func credentialsFor(llm config.LLMConfig, kind provider.Kind) (provider.Credentials, error) {
	switch kind {
	case provider.KindOpenAI:
		return provider.Credentials{
			APIKey:  llm.OpenAI.APIKey,
			BaseURL: llm.OpenAI.BaseURL,
			Model:   llm.OpenAI.Model,
		}, nil
	case provider.KindGemini:
		return provider.Credentials{
			APIKey: llm.Gemini.APIKey,
			Model:  llm.Gemini.Model,
		}, nil
	default:
		return provider.Credentials{}, errors.New("unknown provider: " + string(kind))
	}
}
