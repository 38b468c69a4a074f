package domain

import "time"

// DocumentChunk is a token-bounded slice of a document's text, the unit of
// retrieval. Chunk IDs are "{document_id}_chunk_{index}" with a contiguous
// index starting at 0; chunks are immutable once created.
type DocumentChunk struct {
	DocumentID      string         `json:"document_id" bson:"document_id"`
	Filename        string         `json:"filename" bson:"filename"`
	ChunkID         string         `json:"chunk_id" bson:"chunk_id"`
	ChunkText       string         `json:"chunk_text" bson:"chunk_text"`
	PageNumber      int            `json:"page_number,omitempty" bson:"page_number"` // 0 = unknown
	UploadTimestamp time.Time      `json:"upload_timestamp" bson:"upload_timestamp"`
	Metadata        map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// DocumentMetadata describes one uploaded document. Created once per upload,
// never mutated.
type DocumentMetadata struct {
	DocumentID      string    `json:"document_id" bson:"document_id"`
	Filename        string    `json:"filename" bson:"filename"`
	FileType        string    `json:"file_type" bson:"file_type"`
	FileSize        int64     `json:"file_size" bson:"file_size"`
	UploadTimestamp time.Time `json:"upload_timestamp" bson:"upload_timestamp"`
	TotalChunks     int       `json:"total_chunks" bson:"total_chunks"`
	TotalPages      int       `json:"total_pages,omitempty" bson:"total_pages"`
}

// UploadResult is the response body for a successful document upload.
type UploadResult struct {
	Message     string `json:"message"`
	DocumentID  string `json:"document_id"`
	Filename    string `json:"filename"`
	TotalChunks int    `json:"total_chunks"`
	TotalPages  int    `json:"total_pages"`
}
