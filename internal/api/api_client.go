package api

import (
	"context"
	"fmt"

	"github.com/Yoosu-L/llmcompare/internal/config"
	"github.com/sashabaranov/go-openai"
)

// ChunkStream yields decoded completion chunks until it returns io.EOF.
type ChunkStream interface {
	Recv() (openai.ChatCompletionStreamResponse, error)
	Close() error
}

// ChatStreamer opens a streamed chat completion.
type ChatStreamer interface {
	OpenStream(ctx context.Context, req openai.ChatCompletionRequest) (ChunkStream, error)
}

// Client adapts a go-openai client to ChatStreamer.
type Client struct {
	client *openai.Client
}

// NewClient builds a client for the configured OpenAI-compatible endpoint.
func NewClient(cfg config.BenchmarkConfig) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.APIBase
	return &Client{client: openai.NewClientWithConfig(clientConfig)}
}

// OpenStream dispatches the request and returns the live chunk stream.
func (c *Client) OpenStream(ctx context.Context, req openai.ChatCompletionRequest) (ChunkStream, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API request failed: %w", err)
	}
	return stream, nil
}

// ListModelIDs returns the model identifiers the endpoint advertises.
func (c *Client) ListModelIDs(ctx context.Context) ([]string, error) {
	modelList, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(modelList.Models))
	for _, model := range modelList.Models {
		ids = append(ids, model.ID)
	}
	return ids, nil
}

// NewStreamRequest builds the single-user-message streaming request used for every trial.
func NewStreamRequest(model, prompt string, maxTokens int) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens: maxTokens,
		Stream:    true,
	}
}
