package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa-labs/docqa/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleMetadata(id string) domain.DocumentMetadata {
	return domain.DocumentMetadata{
		DocumentID:      id,
		Filename:        id + ".txt",
		FileType:        "txt",
		FileSize:        42,
		UploadTimestamp: time.Now().UTC().Truncate(time.Second),
		TotalChunks:     1,
		TotalPages:      1,
	}
}

func TestSaveAndListDocuments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMetadata(ctx, sampleMetadata("doc1")))
	require.NoError(t, store.SaveMetadata(ctx, sampleMetadata("doc2")))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc1.txt", docs[0].Filename)
	assert.Equal(t, "txt", docs[0].FileType)
	assert.Equal(t, 1, docs[0].TotalPages)

	count, err := store.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSaveChunks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	uploaded := time.Now().UTC()
	chunks := []domain.DocumentChunk{
		{DocumentID: "doc1", Filename: "a.txt", ChunkID: "doc1_chunk_0", ChunkText: "first", PageNumber: 1, UploadTimestamp: uploaded},
		{DocumentID: "doc1", Filename: "a.txt", ChunkID: "doc1_chunk_1", ChunkText: "second", PageNumber: 2, UploadTimestamp: uploaded},
	}
	assert.NoError(t, store.SaveChunks(ctx, chunks))

	// A duplicate chunk ID rolls back the whole batch.
	err := store.SaveChunks(ctx, []domain.DocumentChunk{
		{DocumentID: "doc1", Filename: "a.txt", ChunkID: "doc1_chunk_2", ChunkText: "third", UploadTimestamp: uploaded},
		{DocumentID: "doc1", Filename: "a.txt", ChunkID: "doc1_chunk_0", ChunkText: "dupe", UploadTimestamp: uploaded},
	})
	assert.Error(t, err)
}

func TestAppendAndRecentTurns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		turn := domain.ConversationTurn{
			Question: fmt.Sprintf("question %d", i),
			Answer:   fmt.Sprintf("answer %d", i),
			References: []domain.Reference{
				{Document: "a.txt", ChunkID: "c0", ContentSnippet: "snippet", RelevanceScore: 0.9},
			},
			Timestamp: time.Now().UTC(),
		}
		require.NoError(t, store.AppendTurn(ctx, "u1", turn))
	}

	turns, err := store.RecentTurns(ctx, "u1", 5)
	require.NoError(t, err)
	require.Len(t, turns, 5)

	// The window holds the five newest turns in chronological order.
	assert.Equal(t, "question 3", turns[0].Question)
	assert.Equal(t, "question 7", turns[4].Question)
	require.Len(t, turns[0].References, 1)
	assert.Equal(t, "a.txt", turns[0].References[0].Document)
	assert.Equal(t, 0.9, turns[0].References[0].RelevanceScore)
}

func TestRecentTurnsIsolatedPerUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendTurn(ctx, "u1", domain.ConversationTurn{Question: "q", Answer: "a", Timestamp: time.Now().UTC()}))

	turns, err := store.RecentTurns(ctx, "u2", 5)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestConcurrentAppendsDoNotLoseTurns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const perWorker = 10
	var wg sync.WaitGroup
	for w := 0; w < 2; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				turn := domain.ConversationTurn{
					Question:  fmt.Sprintf("w%d q%d", w, i),
					Answer:    "a",
					Timestamp: time.Now().UTC(),
				}
				assert.NoError(t, store.AppendTurn(ctx, "u1", turn))
			}
		}(w)
	}
	wg.Wait()

	turns, err := store.RecentTurns(ctx, "u1", 100)
	require.NoError(t, err)
	assert.Len(t, turns, 2*perWorker)
}

func TestClearWipesEverything(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMetadata(ctx, sampleMetadata("doc1")))
	require.NoError(t, store.SaveChunks(ctx, []domain.DocumentChunk{
		{DocumentID: "doc1", Filename: "a.txt", ChunkID: "doc1_chunk_0", ChunkText: "t", UploadTimestamp: time.Now().UTC()},
	}))
	require.NoError(t, store.AppendTurn(ctx, "u1", domain.ConversationTurn{Question: "q", Answer: "a", Timestamp: time.Now().UTC()}))

	require.NoError(t, store.Clear(ctx))

	count, err := store.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	turns, err := store.RecentTurns(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Empty(t, turns)
}
