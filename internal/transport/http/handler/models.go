package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docuquery/internal/config"
	"docuquery/internal/provider"
	"docuquery/internal/transport/http/response"
)

type ModelsHandler struct {
	llm config.LLMConfig
}

func NewModelsHandler(llm config.LLMConfig) *ModelsHandler {
	return &ModelsHandler{llm: llm}
}

// List returns the selectable models of one backend. The provider layer
// never fails this call outward, so any configured backend yields a list.
func (h *ModelsHandler) List(c *gin.Context) {
	kind := provider.Kind(c.DefaultQuery("provider", h.llm.Provider))

	creds, err := credentialsFor(h.llm, kind)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		return
	}
	prov, err := provider.New(kind, creds)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		return
	}
	response.OK(c, prov.ListModels(c.Request.Context()))
}
