package ingest

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCodec encodes text to model tokens and back. Chunk budgets and
// overlaps are computed over these tokens, never over characters or words.
type TokenCodec interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

// tiktokenCodec wraps the cl100k_base encoding shared by the target chat
// and embedding models.
type tiktokenCodec struct {
	enc *tiktoken.Tiktoken
}

// NewTokenCodec returns the cl100k_base codec.
func NewTokenCodec() (TokenCodec, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("loading cl100k_base encoding: %w", err)
	}
	return &tiktokenCodec{enc: enc}, nil
}

func (c *tiktokenCodec) Encode(text string) []int {
	return c.enc.Encode(text, nil, nil)
}

func (c *tiktokenCodec) Decode(tokens []int) string {
	return c.enc.Decode(tokens)
}
