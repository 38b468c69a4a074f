package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa-labs/docqa/internal/domain"
)

func makeHits(n int) []domain.SearchHit {
	hits := make([]domain.SearchHit, 0, n)
	for i := 0; i < n; i++ {
		hits = append(hits, domain.SearchHit{
			ChunkID: fmt.Sprintf("doc1_chunk_%d", i),
			Text:    fmt.Sprintf("chunk text %d", i),
			Meta:    domain.ChunkMeta{Filename: "report.pdf", PageNumber: i + 1},
			Score:   0.9 - float64(i)*0.1,
		})
	}
	return hits
}

func TestBuildPromptSectionOrder(t *testing.T) {
	history := []domain.ConversationTurn{{Question: "old q", Answer: "old a"}}
	prompt := BuildPrompt("What is the sky?", history, makeHits(2))

	idxHistory := strings.Index(prompt, "## Previous Conversation:")
	idxContext := strings.Index(prompt, "## Document Context:")
	idxQuestion := strings.Index(prompt, "## Current Question:")
	idxInstructions := strings.Index(prompt, "## Instructions:")

	require.NotEqual(t, -1, idxHistory)
	require.NotEqual(t, -1, idxContext)
	require.NotEqual(t, -1, idxQuestion)
	require.NotEqual(t, -1, idxInstructions)

	assert.Less(t, idxHistory, idxContext)
	assert.Less(t, idxContext, idxQuestion)
	assert.Less(t, idxQuestion, idxInstructions)

	assert.Contains(t, prompt, "What is the sky?")
	assert.Contains(t, prompt, AnswerMarker)
	assert.Contains(t, prompt, ReasoningMarker)
}

func TestBuildPromptHistoryWindow(t *testing.T) {
	history := make([]domain.ConversationTurn, 0, 5)
	for i := 1; i <= 5; i++ {
		history = append(history, domain.ConversationTurn{
			Question: fmt.Sprintf("question %d", i),
			Answer:   fmt.Sprintf("answer %d", i),
		})
	}

	prompt := BuildPrompt("next", history, makeHits(1))

	// Only the last three turns make it into the prompt.
	assert.NotContains(t, prompt, "question 1")
	assert.NotContains(t, prompt, "question 2")
	assert.Contains(t, prompt, "Q: question 3")
	assert.Contains(t, prompt, "Q: question 4")
	assert.Contains(t, prompt, "Q: question 5")
	assert.Contains(t, prompt, "A: answer 5")
}

func TestBuildPromptNoHistory(t *testing.T) {
	prompt := BuildPrompt("What is the sky?", nil, makeHits(1))

	assert.NotContains(t, prompt, "## Previous Conversation:")
	assert.Contains(t, prompt, "## Document Context:")
}

func TestBuildPromptDocumentHeaders(t *testing.T) {
	hits := makeHits(2)
	prompt := BuildPrompt("q", nil, hits)

	assert.Contains(t, prompt, "[Document 1: report.pdf, Page 1]")
	assert.Contains(t, prompt, "[Document 2: report.pdf, Page 2]")
	assert.Contains(t, prompt, "chunk text 0")
	assert.Contains(t, prompt, "chunk text 1")
}

func TestBuildPromptUnknownPageAndFilename(t *testing.T) {
	hits := []domain.SearchHit{{
		ChunkID: "doc1_chunk_0",
		Text:    "body",
		Meta:    domain.ChunkMeta{Filename: "", PageNumber: 0},
	}}
	prompt := BuildPrompt("q", nil, hits)

	assert.Contains(t, prompt, "[Document 1: Unknown, Page N/A]")
}
