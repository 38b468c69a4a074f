// Package qdrant provides a minimal REST adapter to a Qdrant server. It
// assumes cosine distance and creates the collection lazily on first upsert
// using the vector dimension it sees.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docqa-labs/docqa/internal/domain"
)

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

type Index struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client

	mu    sync.Mutex
	ready bool
}

func New(cfg Config) *Index {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Index{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

func (q *Index) Upsert(ctx context.Context, entries []domain.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := q.ensureCollection(ctx, len(entries[0].Vector)); err != nil {
		return err
	}

	points := make([]map[string]any, len(entries))
	for i, e := range entries {
		points[i] = map[string]any{
			// Qdrant point IDs must be UUIDs or unsigned ints; derive a
			// stable UUID from the chunk ID so upserts stay idempotent.
			"id":     uuid.NewSHA1(uuid.NameSpaceOID, []byte(e.ChunkID)).String(),
			"vector": e.Vector,
			"payload": map[string]any{
				"chunk_id":    e.ChunkID,
				"text":        e.Text,
				"document_id": e.Meta.DocumentID,
				"filename":    e.Meta.Filename,
				"page_number": e.Meta.PageNumber,
				"uploaded_at": e.Meta.UploadedAt.Format(time.RFC3339),
			},
		}
	}

	return q.do(ctx, http.MethodPut,
		fmt.Sprintf("%s/collections/%s/points?wait=true", q.url, q.collection),
		map[string]any{"points": points}, nil)
}

func (q *Index) Query(ctx context.Context, vector []float32, topK int) ([]domain.SearchHit, error) {
	if topK <= 0 {
		return nil, nil
	}

	var out struct {
		Result []struct {
			Score   float64 `json:"score"`
			Payload struct {
				ChunkID    string `json:"chunk_id"`
				Text       string `json:"text"`
				DocumentID string `json:"document_id"`
				Filename   string `json:"filename"`
				PageNumber int    `json:"page_number"`
				UploadedAt string `json:"uploaded_at"`
			} `json:"payload"`
		} `json:"result"`
	}

	err := q.do(ctx, http.MethodPost,
		fmt.Sprintf("%s/collections/%s/points/search", q.url, q.collection),
		map[string]any{"vector": vector, "limit": topK, "with_payload": true},
		&out)
	if err != nil {
		if errors.Is(err, errNotFound) {
			// No collection yet means nothing has been indexed.
			return nil, nil
		}
		return nil, err
	}

	hits := make([]domain.SearchHit, 0, len(out.Result))
	for _, r := range out.Result {
		uploadedAt, _ := time.Parse(time.RFC3339, r.Payload.UploadedAt)
		hits = append(hits, domain.SearchHit{
			ChunkID: r.Payload.ChunkID,
			Text:    r.Payload.Text,
			Score:   r.Score,
			Meta: domain.ChunkMeta{
				DocumentID: r.Payload.DocumentID,
				Filename:   r.Payload.Filename,
				PageNumber: r.Payload.PageNumber,
				UploadedAt: uploadedAt,
			},
		})
	}
	return hits, nil
}

func (q *Index) Clear(ctx context.Context) error {
	err := q.do(ctx, http.MethodDelete,
		fmt.Sprintf("%s/collections/%s", q.url, q.collection), nil, nil)
	if err != nil && !errors.Is(err, errNotFound) {
		return err
	}
	q.mu.Lock()
	q.ready = false
	q.mu.Unlock()
	return nil
}

func (q *Index) ensureCollection(ctx context.Context, dimension int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.ready {
		return nil
	}
	if dimension <= 0 {
		return errors.New("invalid vector dimension")
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	err := q.do(ctx, http.MethodPut,
		fmt.Sprintf("%s/collections/%s", q.url, q.collection), body, nil)
	if err != nil && !errors.Is(err, errConflict) {
		return err
	}
	q.ready = true
	return nil
}

var (
	errNotFound = errors.New("qdrant: not found")
	errConflict = errors.New("qdrant: already exists")
)

func (q *Index) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode == http.StatusConflict:
		return errConflict
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("qdrant %s %s: status %d: %s", method, url, resp.StatusCode, msg)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
