package ingest

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/docqa-labs/docqa/internal/domain"
)

// PageLocator maps a rune offset in the source text to a 1-based page
// number. A nil locator leaves chunks without page attribution.
type PageLocator func(offset int) int

// Chunker splits document text into token-bounded chunks on sentence
// boundaries. Each chunk after the first is seeded with the token suffix of
// its predecessor so context survives the boundary.
type Chunker struct {
	codec     TokenCodec
	chunkSize int
	overlap   int
}

// NewChunker validates the token budget. The overlap must be strictly
// smaller than the chunk size or every chunk would restate its predecessor.
func NewChunker(codec TokenCodec, chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap (%d tokens) must be smaller than chunk size (%d tokens)", overlap, chunkSize)
	}
	return &Chunker{codec: codec, chunkSize: chunkSize, overlap: overlap}, nil
}

// Chunk splits text into ordered DocumentChunks. Sentences are delimited by
// a literal "."; empty sentences are skipped, and a single sentence longer
// than the chunk budget is emitted whole rather than split mid-sentence.
// Chunk IDs are "{documentID}_chunk_{index}" with a contiguous index from 0.
func (c *Chunker) Chunk(text, documentID, filename string, uploadedAt time.Time, locate PageLocator) []domain.DocumentChunk {
	var chunks []domain.DocumentChunk

	current := ""
	currentTokens := 0
	chunkIndex := 0
	chunkStart := 0 // source offset of the chunk's first non-overlap sentence

	offset := 0
	for _, part := range strings.Split(text, ".") {
		sentenceOffset := offset
		offset += utf8.RuneCountInString(part) + 1 // consumed part plus delimiter

		sentence := strings.TrimSpace(part)
		if sentence == "" {
			continue
		}
		sentence += "." // restore the delimiter
		sentenceTokens := len(c.codec.Encode(sentence))

		if currentTokens+sentenceTokens > c.chunkSize && current != "" {
			chunks = append(chunks, c.emit(documentID, filename, chunkIndex, current, chunkStart, uploadedAt, locate))
			chunkIndex++

			// Seed the next chunk with the token suffix of the one just
			// emitted, then the sentence that triggered the overflow.
			current = c.overlapSuffix(current) + " " + sentence
			currentTokens = len(c.codec.Encode(current))
			chunkStart = sentenceOffset
		} else {
			if current == "" {
				chunkStart = sentenceOffset
			}
			current += " " + sentence
			currentTokens += sentenceTokens
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, c.emit(documentID, filename, chunkIndex, current, chunkStart, uploadedAt, locate))
	}

	return chunks
}

func (c *Chunker) emit(documentID, filename string, index int, text string, srcOffset int, uploadedAt time.Time, locate PageLocator) domain.DocumentChunk {
	page := 0
	if locate != nil {
		page = locate(srcOffset)
	}
	return domain.DocumentChunk{
		DocumentID:      documentID,
		Filename:        filename,
		ChunkID:         fmt.Sprintf("%s_chunk_%d", documentID, index),
		ChunkText:       strings.TrimSpace(text),
		PageNumber:      page,
		UploadTimestamp: uploadedAt,
	}
}

// overlapSuffix returns the trailing overlap-many tokens of text decoded
// back to a string, or the whole text when it is shorter than the overlap.
func (c *Chunker) overlapSuffix(text string) string {
	if c.overlap == 0 {
		return ""
	}
	tokens := c.codec.Encode(text)
	if len(tokens) <= c.overlap {
		return text
	}
	return c.codec.Decode(tokens[len(tokens)-c.overlap:])
}
