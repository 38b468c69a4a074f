package service

import (
	"math"

	"github.com/docqa-labs/docqa/internal/domain"
)

const (
	snippetLimit    = 150
	snippetEllipsis = "..."
)

// ExtractReferences derives one Reference per retrieved chunk, preserving
// retrieval order with no filtering or deduplication. The answer parameter
// is accepted for future citation filtering and currently does not affect
// the result.
func ExtractReferences(hits []domain.SearchHit, answer string) []domain.Reference {
	references := make([]domain.Reference, 0, len(hits))
	for _, hit := range hits {
		references = append(references, domain.Reference{
			Document:       displayName(hit.Meta.Filename),
			Page:           hit.Meta.PageNumber,
			ChunkID:        hit.ChunkID,
			ContentSnippet: snippet(hit.Text),
			RelevanceScore: math.Round(hit.Score*1000) / 1000,
		})
	}
	return references
}

// snippet truncates to the first 150 characters, marking truncation with an
// ellipsis. Counted in runes so multi-byte text is not cut mid-character.
func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetLimit {
		return text
	}
	return string(runes[:snippetLimit]) + snippetEllipsis
}
