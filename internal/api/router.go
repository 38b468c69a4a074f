package api

import (
	"github.com/gin-gonic/gin"

	"github.com/docqa-labs/docqa/internal/api/middleware"
	"github.com/docqa-labs/docqa/internal/ingest"
	"github.com/docqa-labs/docqa/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	APIKey       string
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(
	processor *ingest.Processor,
	rag *service.RAGService,
	admin *service.AdminService,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(middleware.CORS(cfg.AllowOrigins))

	h := NewHandler(processor, rag, admin)

	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	r.POST("/upload", h.UploadDocument)
	r.POST("/ask", h.AskQuestion)
	r.GET("/history", h.GetHistory)
	r.GET("/documents", h.ListDocuments)

	// Clearing the whole system requires the API key when one is set
	r.DELETE("/clear", middleware.Auth(cfg.APIKey), h.ClearSystem)

	return r
}
