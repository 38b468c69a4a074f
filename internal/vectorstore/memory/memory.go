// Package memory provides an in-process vector index using brute-force
// cosine similarity. It is the default backend and the one used in tests.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/docqa-labs/docqa/internal/domain"
)

// Index keys entries by chunk ID so re-upserting a chunk replaces it.
type Index struct {
	mu      sync.RWMutex
	entries map[string]domain.IndexEntry
}

func New() *Index {
	return &Index{entries: make(map[string]domain.IndexEntry)}
}

func (idx *Index) Upsert(ctx context.Context, entries []domain.IndexEntry) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, e := range entries {
		idx.entries[e.ChunkID] = e
	}
	return nil
}

// Query scores every entry against the vector and returns the topK best,
// sorted by descending similarity.
func (idx *Index) Query(ctx context.Context, vector []float32, topK int) ([]domain.SearchHit, error) {
	if topK <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	hits := make([]domain.SearchHit, 0, len(idx.entries))
	for _, e := range idx.entries {
		hits = append(hits, domain.SearchHit{
			ChunkID: e.ChunkID,
			Text:    e.Text,
			Meta:    e.Meta,
			Score:   cosine(vector, e.Vector),
		})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func (idx *Index) Clear(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = make(map[string]domain.IndexEntry)
	return nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
