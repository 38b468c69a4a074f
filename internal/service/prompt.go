// Package service implements the conversational retrieval-and-answer
// pipeline: context assembly, answer parsing, reference extraction,
// follow-up suggestions and the answering orchestrator.
package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/docqa-labs/docqa/internal/domain"
)

// AnswerMarker and ReasoningMarker are the wire format between the prompt's
// output schema directive and ParseAnswer. They must change together.
const (
	AnswerMarker    = "ANSWER:"
	ReasoningMarker = "REASONING:"
)

// SystemPrompt is the role given to the model for every generation call.
const SystemPrompt = "You are a helpful document analysis assistant."

// promptHistoryWindow caps how many past turns the prompt carries. It is
// deliberately smaller than the history read window.
const promptHistoryWindow = 3

const instructionBlock = `
## Instructions:
1. Answer the question based ONLY on the provided document context
2. If the answer cannot be found in the documents, say so clearly
3. Cite specific documents and pages when possible
4. Provide reasoning for how you arrived at your answer
5. Be concise but comprehensive
6. Consider the conversation history for context

Please provide your answer in the following format:
` + AnswerMarker + ` [Your detailed answer here]
` + ReasoningMarker + ` [Explain how you derived this answer from the documents]
`

// BuildPrompt assembles the user prompt in a fixed order: preamble, the
// last turns of conversation, retrieved chunks in retrieval order, the
// current question, then the instruction and output schema blocks. Callers
// must not invoke it with zero retrieved chunks; the orchestrator
// short-circuits that case first.
func BuildPrompt(question string, history []domain.ConversationTurn, hits []domain.SearchHit) string {
	parts := []string{"You are a helpful assistant that answers questions based on provided documents."}

	if len(history) > 0 {
		parts = append(parts, "\n## Previous Conversation:")
		start := len(history) - promptHistoryWindow
		if start < 0 {
			start = 0
		}
		for _, turn := range history[start:] {
			parts = append(parts, "Q: "+turn.Question)
			parts = append(parts, "A: "+turn.Answer)
		}
	}

	if len(hits) > 0 {
		parts = append(parts, "\n## Document Context:")
		for i, hit := range hits {
			page := "N/A"
			if hit.Meta.PageNumber > 0 {
				page = strconv.Itoa(hit.Meta.PageNumber)
			}
			parts = append(parts, fmt.Sprintf("\n[Document %d: %s, Page %s]", i+1, displayName(hit.Meta.Filename), page))
			parts = append(parts, hit.Text)
		}
	}

	parts = append(parts, "\n## Current Question:\n"+question)
	parts = append(parts, instructionBlock)

	return strings.Join(parts, "\n")
}

func displayName(filename string) string {
	if filename == "" {
		return "Unknown"
	}
	return filename
}
