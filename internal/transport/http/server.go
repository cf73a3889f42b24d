package http

import (
	"github.com/gin-gonic/gin"

	appsvc "docuquery/internal/app"
	"docuquery/internal/bootstrap"
	"docuquery/internal/extract"
	"docuquery/internal/store"
	"docuquery/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) (*gin.Engine, error) {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.MaxMultipartMemory = int64(app.Config.App.MaxUploadMB) << 20

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	st := store.NewMySQLStore(app.MySQL)
	contexts, err := appsvc.NewContextService(app.Config.Contexts.File)
	if err != nil {
		return nil, err
	}
	ingestService := appsvc.NewIngestService(st, extract.NewExtractor(), app.Embedder, app.Sink)
	queryService := appsvc.NewQueryService(st, app.Embedder, contexts, app.Config.Retrieval.TopK)

	documentHandler := handler.NewDocumentHandler(ingestService, st)
	queryHandler := handler.NewQueryHandler(queryService, app.Config.LLM)
	contextHandler := handler.NewContextHandler(contexts)
	modelsHandler := handler.NewModelsHandler(app.Config.LLM)
	eventHandler := handler.NewIngestEventHandler(app.EventRepo)

	v1 := router.Group("/api/v1")
	docs := v1.Group("/documents")
	docs.POST("", documentHandler.Upload)
	docs.GET("", documentHandler.List)
	docs.GET("/:id", documentHandler.Get)
	docs.DELETE("/:id", documentHandler.Delete)
	docs.GET("/:id/chunks", documentHandler.Chunks)

	v1.GET("/contexts", contextHandler.List)
	v1.GET("/models", modelsHandler.List)
	v1.POST("/query", queryHandler.Ask)
	v1.GET("/ingest/events", eventHandler.List)

	return router, nil
}
