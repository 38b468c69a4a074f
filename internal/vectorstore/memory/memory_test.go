package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa-labs/docqa/internal/domain"
)

func seedIndex(t *testing.T) *Index {
	t.Helper()
	idx := New()
	err := idx.Upsert(context.Background(), []domain.IndexEntry{
		{ChunkID: "c0", Vector: []float32{1, 0}, Text: "exact match", Meta: domain.ChunkMeta{Filename: "a.txt"}},
		{ChunkID: "c1", Vector: []float32{1, 1}, Text: "close match", Meta: domain.ChunkMeta{Filename: "a.txt"}},
		{ChunkID: "c2", Vector: []float32{0, 1}, Text: "orthogonal", Meta: domain.ChunkMeta{Filename: "b.txt"}},
	})
	require.NoError(t, err)
	return idx
}

func TestQueryOrdersByDescendingSimilarity(t *testing.T) {
	idx := seedIndex(t)

	hits, err := idx.Query(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "c0", hits[0].ChunkID)
	assert.Equal(t, "c1", hits[1].ChunkID)
	assert.Equal(t, "c2", hits[2].ChunkID)

	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	assert.Greater(t, hits[0].Score, hits[1].Score)
	assert.Greater(t, hits[1].Score, hits[2].Score)
	assert.Equal(t, "exact match", hits[0].Text)
	assert.Equal(t, "a.txt", hits[0].Meta.Filename)
}

func TestQueryRespectsTopK(t *testing.T) {
	idx := seedIndex(t)

	hits, err := idx.Query(context.Background(), []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = idx.Query(context.Background(), []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 3)

	hits, err = idx.Query(context.Background(), []float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Nil(t, hits)
}

func TestUpsertReplacesByChunkID(t *testing.T) {
	idx := seedIndex(t)
	ctx := context.Background()

	err := idx.Upsert(ctx, []domain.IndexEntry{
		{ChunkID: "c0", Vector: []float32{-1, 0}, Text: "replaced"},
	})
	require.NoError(t, err)

	hits, err := idx.Query(ctx, []float32{-1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "replaced", hits[0].Text)
}

func TestQueryZeroVector(t *testing.T) {
	idx := seedIndex(t)

	hits, err := idx.Query(context.Background(), []float32{0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	for _, hit := range hits {
		assert.Equal(t, 0.0, hit.Score)
	}
}

func TestClear(t *testing.T) {
	idx := seedIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Clear(ctx))

	hits, err := idx.Query(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
