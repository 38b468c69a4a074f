// Package llm provides the embedding and generation client over any
// OpenAI-compatible API.
package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"github.com/docqa-labs/docqa/internal/domain"
)

const (
	// Low temperature keeps answers near-deterministic; the token budget is
	// generous so answers are not cut mid-sentence.
	answerTemperature = 0.1
	answerMaxTokens   = 1500
)

// Client implements domain.Embedder and domain.Generator.
type Client struct {
	api            *openai.Client
	embeddingModel string
	chatModel      string
}

// New creates a client for the given endpoint. An empty baseURL targets the
// OpenAI API itself.
func New(baseURL, apiKey, embeddingModel, chatModel string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:            openai.NewClientWithConfig(cfg),
		embeddingModel: embeddingModel,
		chatModel:      chatModel,
	}
}

// Embed returns the embedding vector for one text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, &domain.EmbeddingError{Err: err}
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, &domain.EmbeddingError{Err: errors.New("provider returned no embedding")}
	}
	return resp.Data[0].Embedding, nil
}

// Generate runs one chat completion with the given system and user prompts.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Temperature: answerTemperature,
		MaxTokens:   answerMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", &domain.GenerationError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &domain.GenerationError{Err: errors.New("provider returned no choices")}
	}
	return resp.Choices[0].Message.Content, nil
}
