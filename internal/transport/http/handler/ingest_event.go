package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docuquery/internal/model"
	"docuquery/internal/repository"
	"docuquery/internal/transport/http/response"
)

type IngestEventHandler struct {
	repo *repository.IngestEventRepository
}

func NewIngestEventHandler(repo *repository.IngestEventRepository) *IngestEventHandler {
	return &IngestEventHandler{repo: repo}
}

// List returns the persisted progress trail of one file, oldest first.
// Without the progress queue no events are recorded and the trail is empty.
func (h *IngestEventHandler) List(c *gin.Context) {
	fileName := c.Query("file")
	if fileName == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file query parameter")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	if h.repo == nil {
		response.OK(c, []model.IngestEvent{})
		return
	}
	events, err := h.repo.ListByFileName(fileName, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list ingest events failed")
		return
	}
	response.OK(c, events)
}
