package domain

import (
	"context"
	"time"
)

// Embedder converts free text into a fixed-length vector representation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces text from a language model given a system and a user
// prompt.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ChunkMeta is the metadata stored alongside a vector in the index and
// returned with every search hit.
type ChunkMeta struct {
	DocumentID string    `json:"document_id"`
	Filename   string    `json:"filename"`
	PageNumber int       `json:"page_number,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// IndexEntry is one chunk prepared for insertion into the vector index.
type IndexEntry struct {
	ChunkID string
	Vector  []float32
	Text    string
	Meta    ChunkMeta
}

// SearchHit is one retrieved chunk. Score is cosine similarity; the index
// owns scoring and top-k selection, callers never re-sort.
type SearchHit struct {
	ChunkID string
	Text    string
	Meta    ChunkMeta
	Score   float64
}

// VectorIndex persists vectors and answers top-k cosine similarity queries,
// sorted by descending similarity.
type VectorIndex interface {
	Upsert(ctx context.Context, entries []IndexEntry) error
	Query(ctx context.Context, vector []float32, topK int) ([]SearchHit, error)
	Clear(ctx context.Context) error
}

// DocumentStore persists document metadata and chunks.
type DocumentStore interface {
	SaveMetadata(ctx context.Context, meta DocumentMetadata) error
	SaveChunks(ctx context.Context, chunks []DocumentChunk) error
	ListDocuments(ctx context.Context) ([]DocumentMetadata, error)
	CountDocuments(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// HistoryStore persists per-user conversation turns. AppendTurn must be an
// atomic push of a single element so concurrent turns for one user never
// lose an update. RecentTurns returns at most limit turns, oldest first
// within the returned window.
type HistoryStore interface {
	AppendTurn(ctx context.Context, userID string, turn ConversationTurn) error
	RecentTurns(ctx context.Context, userID string, limit int) ([]ConversationTurn, error)
	Clear(ctx context.Context) error
}
