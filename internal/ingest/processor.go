package ingest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/docqa-labs/docqa/internal/domain"
)

// Processor turns an uploaded file into stored metadata, stored chunks and
// indexed vectors.
type Processor struct {
	chunker     *Chunker
	embedder    domain.Embedder
	index       domain.VectorIndex
	store       domain.DocumentStore
	concurrency int
	logger      *zap.Logger
}

// NewProcessor creates a processor. concurrency bounds how many embedding
// calls run in parallel per upload, respecting provider rate limits.
func NewProcessor(chunker *Chunker, embedder domain.Embedder, index domain.VectorIndex, store domain.DocumentStore, concurrency int, logger *zap.Logger) *Processor {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Processor{
		chunker:     chunker,
		embedder:    embedder,
		index:       index,
		store:       store,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Process runs the ingestion pipeline for one uploaded document: extract
// text, chunk it, persist metadata and chunks, embed the chunks and insert
// them into the vector index in one batch.
func (p *Processor) Process(ctx context.Context, filename string, content []byte) (*domain.DocumentMetadata, error) {
	extraction, err := ExtractText(filename, content)
	if err != nil {
		return nil, err
	}

	documentID := uuid.New().String()
	uploadedAt := time.Now().UTC()

	var locate PageLocator
	if len(extraction.PageOffsets) > 1 {
		locate = pageLocator(extraction.PageOffsets)
	}
	chunks := p.chunker.Chunk(extraction.Text, documentID, filename, uploadedAt, locate)

	meta := domain.DocumentMetadata{
		DocumentID:      documentID,
		Filename:        filename,
		FileType:        DetectFileType(filename),
		FileSize:        int64(len(content)),
		UploadTimestamp: uploadedAt,
		TotalChunks:     len(chunks),
		TotalPages:      extraction.TotalPages,
	}

	if err := p.store.SaveMetadata(ctx, meta); err != nil {
		return nil, &domain.StoreError{Op: "save metadata", Err: err}
	}
	if len(chunks) == 0 {
		return &meta, nil
	}
	if err := p.store.SaveChunks(ctx, chunks); err != nil {
		return nil, &domain.StoreError{Op: "save chunks", Err: err}
	}

	entries := p.embedChunks(ctx, chunks)
	if len(entries) > 0 {
		if err := p.index.Upsert(ctx, entries); err != nil {
			return nil, &domain.StoreError{Op: "index upsert", Err: err}
		}
	}

	return &meta, nil
}

// embedChunks embeds all chunks with bounded concurrency. A chunk whose
// embedding fails is skipped: it stays in the document store but is never
// indexed blind.
func (p *Processor) embedChunks(ctx context.Context, chunks []domain.DocumentChunk) []domain.IndexEntry {
	results := make([]domain.IndexEntry, len(chunks))
	embedded := make([]bool, len(chunks))

	pool, err := ants.NewPool(p.concurrency)
	if err != nil {
		p.logger.Warn("worker pool unavailable, embedding sequentially", zap.Error(err))
	} else {
		defer pool.Release()
	}

	var wg sync.WaitGroup
	for i := range chunks {
		chunk := chunks[i]
		slot := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			vector, err := p.embedder.Embed(ctx, chunk.ChunkText)
			if err != nil {
				p.logger.Warn("skipping chunk, embedding failed",
					zap.String("chunk_id", chunk.ChunkID),
					zap.Error(err))
				return
			}
			results[slot] = domain.IndexEntry{
				ChunkID: chunk.ChunkID,
				Vector:  vector,
				Text:    chunk.ChunkText,
				Meta: domain.ChunkMeta{
					DocumentID: chunk.DocumentID,
					Filename:   chunk.Filename,
					PageNumber: chunk.PageNumber,
					UploadedAt: chunk.UploadTimestamp,
				},
			}
			embedded[slot] = true
		}
		if pool == nil {
			task()
			continue
		}
		if err := pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	entries := make([]domain.IndexEntry, 0, len(chunks))
	for i := range chunks {
		if embedded[i] {
			entries = append(entries, results[i])
		}
	}
	return entries
}

// pageLocator builds a PageLocator from ascending page start offsets.
func pageLocator(offsets []int) PageLocator {
	return func(offset int) int {
		// First page whose start lies beyond the offset; the offset belongs
		// to the page before it.
		n := sort.Search(len(offsets), func(i int) bool { return offsets[i] > offset })
		if n == 0 {
			return 1
		}
		return n
	}
}
