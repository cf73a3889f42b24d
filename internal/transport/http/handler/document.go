package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docuquery/internal/app"
	"docuquery/internal/model"
	"docuquery/internal/store"
	"docuquery/internal/transport/http/response"
)

type DocumentHandler struct {
	ingest *app.IngestService
	store  store.Store
}

func NewDocumentHandler(ingest *app.IngestService, st store.Store) *DocumentHandler {
	return &DocumentHandler{ingest: ingest, store: st}
}

// Upload accepts a multipart form with one or more "files" entries and an
// optional "context_id" field. Files are ingested sequentially; per-file
// failures are reported alongside the documents that made it in.
func (h *DocumentHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid multipart form")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}
	if len(headers) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no files uploaded")
		return
	}
	contextID := c.PostForm("context_id")

	var files []app.FileInput
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file "+fh.Filename)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file "+fh.Filename)
			return
		}
		files = append(files, app.FileInput{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	result := h.ingest.IngestBatch(c.Request.Context(), files, contextID)
	if len(result.Documents) == 0 && len(result.Failures) > 0 {
		response.Error(c, http.StatusUnprocessableEntity, response.CodeUnsupportedFile, "all files failed: "+result.Failures[0].Error)
		return
	}
	response.OK(c, result)
}

func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.store.GetDocuments(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list documents failed")
		return
	}
	response.OK(c, docs)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.store.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "document not found")
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get document failed")
		}
		return
	}
	response.OK(c, doc)
}

// Delete removes a document and cascades to its chunks and embeddings.
func (h *DocumentHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.RemoveDocument(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "document not found")
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete document failed")
		}
		return
	}
	response.OK(c, gin.H{"deleted_document_id": id})
}

type chunkView struct {
	ID       string          `json:"id"`
	Content  string          `json:"content"`
	Metadata model.ChunkMeta `json:"metadata"`
}

// Chunks returns a document's chunks with parsed metadata, for the viewer.
func (h *DocumentHandler) Chunks(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.store.GetDocument(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "document not found")
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get document failed")
		}
		return
	}

	chunks, err := h.store.GetChunks(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list chunks failed")
		return
	}
	views := make([]chunkView, len(chunks))
	for i, ch := range chunks {
		views[i] = chunkView{ID: ch.ID, Content: ch.Content, Metadata: ch.Meta()}
	}
	response.OK(c, views)
}
