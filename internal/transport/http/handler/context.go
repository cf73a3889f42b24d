package handler

import (
	"github.com/gin-gonic/gin"

	"docuquery/internal/app"
	"docuquery/internal/transport/http/response"
)

type ContextHandler struct {
	contexts *app.ContextService
}

func NewContextHandler(contexts *app.ContextService) *ContextHandler {
	return &ContextHandler{contexts: contexts}
}

func (h *ContextHandler) List(c *gin.Context) {
	response.OK(c, h.contexts.List())
}
