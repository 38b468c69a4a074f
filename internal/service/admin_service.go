package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/docqa-labs/docqa/internal/domain"
)

// AdminService serves document listings, history reads and system wipes.
type AdminService struct {
	docs            domain.DocumentStore
	history         domain.HistoryStore
	index           domain.VectorIndex
	maxHistoryTurns int
	logger          *zap.Logger
}

// NewAdminService creates an admin service.
func NewAdminService(docs domain.DocumentStore, history domain.HistoryStore, index domain.VectorIndex, maxHistoryTurns int, logger *zap.Logger) *AdminService {
	if maxHistoryTurns <= 0 {
		maxHistoryTurns = 5
	}
	return &AdminService{
		docs:            docs,
		history:         history,
		index:           index,
		maxHistoryTurns: maxHistoryTurns,
		logger:          logger,
	}
}

// ListDocuments returns metadata for every uploaded document.
func (s *AdminService) ListDocuments(ctx context.Context) ([]domain.DocumentMetadata, error) {
	docs, err := s.docs.ListDocuments(ctx)
	if err != nil {
		return nil, &domain.StoreError{Op: "list documents", Err: err}
	}
	return docs, nil
}

// DocumentCount reports how many documents are stored. Used by the health
// check as a liveness probe of the store.
func (s *AdminService) DocumentCount(ctx context.Context) (int, error) {
	count, err := s.docs.CountDocuments(ctx)
	if err != nil {
		return 0, &domain.StoreError{Op: "count documents", Err: err}
	}
	return count, nil
}

// History returns the user's most recent turns, oldest first. A limit of
// zero or less falls back to the configured history window.
func (s *AdminService) History(ctx context.Context, userID string, limit int) ([]domain.ConversationTurn, error) {
	if limit <= 0 {
		limit = s.maxHistoryTurns
	}
	turns, err := s.history.RecentTurns(ctx, userID, limit)
	if err != nil {
		return nil, &domain.StoreError{Op: "read history", Err: err}
	}
	return turns, nil
}

// ClearAll wipes metadata, chunks, conversation history and the vector
// index. Any failure surfaces as an error so a partial wipe is never
// reported to the caller as a cleared system.
func (s *AdminService) ClearAll(ctx context.Context) error {
	if err := s.docs.Clear(ctx); err != nil {
		return &domain.StoreError{Op: "clear documents", Err: err}
	}
	if err := s.history.Clear(ctx); err != nil {
		return &domain.StoreError{Op: "clear history", Err: err}
	}
	if err := s.index.Clear(ctx); err != nil {
		return fmt.Errorf("clear vector index: %w", err)
	}
	s.logger.Info("system cleared")
	return nil
}
