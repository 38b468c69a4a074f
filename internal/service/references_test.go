package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa-labs/docqa/internal/domain"
)

func TestExtractReferencesPreservesOrder(t *testing.T) {
	hits := makeHits(3)
	refs := ExtractReferences(hits, "ignored")

	require.Len(t, refs, 3)
	for i, ref := range refs {
		assert.Equal(t, hits[i].ChunkID, ref.ChunkID)
		assert.Equal(t, "report.pdf", ref.Document)
		assert.Equal(t, i+1, ref.Page)
	}
}

func TestExtractReferencesSnippetTruncation(t *testing.T) {
	long := strings.Repeat("a", 200)
	short := strings.Repeat("b", 100)
	hits := []domain.SearchHit{
		{ChunkID: "c0", Text: long, Meta: domain.ChunkMeta{Filename: "a.txt"}},
		{ChunkID: "c1", Text: short, Meta: domain.ChunkMeta{Filename: "a.txt"}},
	}

	refs := ExtractReferences(hits, "")
	require.Len(t, refs, 2)

	assert.Equal(t, strings.Repeat("a", 150)+"...", refs[0].ContentSnippet)
	assert.Equal(t, short, refs[1].ContentSnippet)
}

func TestExtractReferencesSnippetCountsRunes(t *testing.T) {
	long := strings.Repeat("é", 200)
	refs := ExtractReferences([]domain.SearchHit{
		{ChunkID: "c0", Text: long, Meta: domain.ChunkMeta{Filename: "a.txt"}},
	}, "")

	require.Len(t, refs, 1)
	snippet := refs[0].ContentSnippet
	assert.True(t, strings.HasSuffix(snippet, "..."))
	assert.Equal(t, 153, utf8.RuneCountInString(snippet))
	assert.True(t, utf8.ValidString(snippet))
}

func TestExtractReferencesScoreRounding(t *testing.T) {
	refs := ExtractReferences([]domain.SearchHit{
		{ChunkID: "c0", Text: "t", Meta: domain.ChunkMeta{Filename: "a.txt"}, Score: 0.87654321},
		{ChunkID: "c1", Text: "t", Meta: domain.ChunkMeta{Filename: "a.txt"}, Score: 0.1},
	}, "")

	require.Len(t, refs, 2)
	assert.Equal(t, 0.877, refs[0].RelevanceScore)
	assert.Equal(t, 0.1, refs[1].RelevanceScore)
}

func TestExtractReferencesUnknownFilename(t *testing.T) {
	refs := ExtractReferences([]domain.SearchHit{
		{ChunkID: "c0", Text: "t", Meta: domain.ChunkMeta{Filename: ""}},
	}, "")

	require.Len(t, refs, 1)
	assert.Equal(t, "Unknown", refs[0].Document)
}

func TestExtractReferencesEmptyHits(t *testing.T) {
	refs := ExtractReferences(nil, "")
	assert.NotNil(t, refs)
	assert.Empty(t, refs)
}
