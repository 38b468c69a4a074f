package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/docqa-labs/docqa/internal/domain"
)

// RAGService answers questions with retrieved document context and records
// each successful exchange in the user's history.
type RAGService struct {
	embedder        domain.Embedder
	index           domain.VectorIndex
	generator       domain.Generator
	history         domain.HistoryStore
	topKDefault     int
	maxHistoryTurns int
	logger          *zap.Logger
}

// NewRAGService wires the pipeline. All collaborators are injected so tests
// can substitute in-memory fakes.
func NewRAGService(
	embedder domain.Embedder,
	index domain.VectorIndex,
	generator domain.Generator,
	history domain.HistoryStore,
	topKDefault int,
	maxHistoryTurns int,
	logger *zap.Logger,
) *RAGService {
	if topKDefault <= 0 {
		topKDefault = 4
	}
	if maxHistoryTurns <= 0 {
		maxHistoryTurns = 5
	}
	return &RAGService{
		embedder:        embedder,
		index:           index,
		generator:       generator,
		history:         history,
		topKDefault:     topKDefault,
		maxHistoryTurns: maxHistoryTurns,
		logger:          logger,
	}
}

// AnswerQuestion runs the answering pipeline: read recent history, retrieve
// evidence, build the prompt, generate and parse the answer, extract
// references and suggestions, persist the turn. Provider failures come back
// as degraded-but-valid responses; only validation and store failures are
// returned as errors.
func (s *RAGService) AnswerQuestion(ctx context.Context, userID, question string, topK int) (*domain.AnswerResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.ErrEmptyQuestion
	}
	if topK <= 0 {
		topK = s.topKDefault
	}

	history, err := s.history.RecentTurns(ctx, userID, s.maxHistoryTurns)
	if err != nil {
		return nil, &domain.StoreError{Op: "read history", Err: err}
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		// No vector means no evidence; a provider hiccup must not crash
		// the question.
		s.logger.Warn("question embedding failed", zap.Error(err))
		return emptyEvidenceResponse(userID), nil
	}

	hits, err := s.index.Query(ctx, vector, topK)
	if err != nil {
		return nil, &domain.StoreError{Op: "vector query", Err: err}
	}
	if len(hits) == 0 {
		// No turn is recorded for a question that found zero evidence, so
		// repeated failed questions do not pollute history.
		return emptyEvidenceResponse(userID), nil
	}

	prompt := BuildPrompt(question, history, hits)
	raw, err := s.generator.Generate(ctx, SystemPrompt, prompt)
	if err != nil {
		s.logger.Warn("generation failed", zap.String("user_id", userID), zap.Error(err))
		return generationFailedResponse(userID, err), nil
	}

	answer, reasoning := ParseAnswer(raw)
	references := ExtractReferences(hits, answer)
	suggestions := Suggest(question, answer, references)

	turn := domain.ConversationTurn{
		Question:   question,
		Answer:     answer,
		References: references,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.history.AppendTurn(ctx, userID, turn); err != nil {
		return nil, &domain.StoreError{Op: "append turn", Err: err}
	}

	return &domain.AnswerResponse{
		Answer:         answer,
		Reasoning:      reasoning,
		References:     references,
		Suggestions:    suggestions,
		ConversationID: userID,
	}, nil
}

func emptyEvidenceResponse(userID string) *domain.AnswerResponse {
	return &domain.AnswerResponse{
		Answer:     "I couldn't find relevant information in the uploaded documents to answer your question.",
		Reasoning:  "No documents were found that match your query. Please ensure you have uploaded relevant documents.",
		References: []domain.Reference{},
		Suggestions: []string{
			"Try rephrasing your question",
			"Upload relevant documents first",
		},
		ConversationID: userID,
	}
}

func generationFailedResponse(userID string, err error) *domain.AnswerResponse {
	return &domain.AnswerResponse{
		Answer:         fmt.Sprintf("I encountered an error while processing your question: %v", err),
		Reasoning:      "There was a technical issue with the language model.",
		References:     []domain.Reference{},
		Suggestions:    []string{"Please try asking your question again"},
		ConversationID: userID,
	}
}
