package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuestion indicates a blank question, rejected before any
	// pipeline work.
	ErrEmptyQuestion = errors.New("question cannot be empty")
	// ErrUnsupportedFileType indicates an upload with an extension the
	// extractor cannot handle.
	ErrUnsupportedFileType = errors.New("only .pdf and .txt files are supported")
)

// EmbeddingError wraps a failure from the embedding provider. The pipeline
// treats it as "no vector": the chunk is skipped during ingestion, the
// search is aborted on the query path.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string { return fmt.Sprintf("embedding provider: %v", e.Err) }
func (e *EmbeddingError) Unwrap() error { return e.Err }

// GenerationError wraps a failure from the language model. It is recovered
// at the orchestrator into a degraded but well-formed AnswerResponse.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("language model: %v", e.Err) }
func (e *GenerationError) Unwrap() error { return e.Err }

// StoreError marks a persistence failure. Unlike provider errors it is
// infrastructure unavailability and surfaces to the caller as a server
// fault.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }
