package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/docqa-labs/docqa/internal/domain"
	"github.com/docqa-labs/docqa/internal/ingest"
	"github.com/docqa-labs/docqa/internal/service"
)

// Handler exposes the upload/ask/history pipeline over HTTP.
type Handler struct {
	processor *ingest.Processor
	rag       *service.RAGService
	admin     *service.AdminService
}

// NewHandler creates the API handler.
func NewHandler(processor *ingest.Processor, rag *service.RAGService, admin *service.AdminService) *Handler {
	return &Handler{
		processor: processor,
		rag:       rag,
		admin:     admin,
	}
}

// UploadDocument accepts a .pdf or .txt file and runs the ingestion
// pipeline.
func (h *Handler) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meta, err := h.processor.Process(c.Request.Context(), fileHeader.Filename, content)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFileType) || errors.Is(err, ingest.ErrInvalidDocument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, domain.UploadResult{
		Message:     "Document uploaded successfully",
		DocumentID:  meta.DocumentID,
		Filename:    meta.Filename,
		TotalChunks: meta.TotalChunks,
		TotalPages:  meta.TotalPages,
	})
}

// AskQuestion answers a question with references, reasoning and follow-up
// suggestions.
func (h *Handler) AskQuestion(c *gin.Context) {
	var req domain.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.rag.AnswerQuestion(c.Request.Context(), req.UserID, req.Question, req.TopK)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyQuestion) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Question cannot be empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetHistory returns the most recent conversation turns for a user.
func (h *Handler) GetHistory(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}

	turns, err := h.admin.History(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if turns == nil {
		turns = []domain.ConversationTurn{}
	}

	c.JSON(http.StatusOK, domain.HistoryResponse{
		UserID:              userID,
		ConversationHistory: turns,
	})
}

// ListDocuments returns metadata for all uploaded documents.
func (h *Handler) ListDocuments(c *gin.Context) {
	docs, err := h.admin.ListDocuments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if docs == nil {
		docs = []domain.DocumentMetadata{}
	}

	c.JSON(http.StatusOK, docs)
}

// ClearSystem wipes all stored data.
func (h *Handler) ClearSystem(c *gin.Context) {
	if err := h.admin.ClearAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "System cleared successfully"})
}

// Health reports store reachability and the document count.
func (h *Handler) Health(c *gin.Context) {
	count, err := h.admin.DocumentCount(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"database":        "connected",
		"documents_count": count,
	})
}

// Root describes the API.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Conversational RAG Q&A System",
		"version": "1.0.0",
		"endpoints": gin.H{
			"/upload":    "POST - Upload documents (.pdf, .txt)",
			"/ask":       "POST - Ask questions",
			"/history":   "GET - Get conversation history",
			"/documents": "GET - List uploaded documents",
			"/clear":     "DELETE - Clear all data",
		},
	})
}
