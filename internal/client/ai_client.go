package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"

	"github.com/sheetsby/metadata-api/internal/config"
)

const tagsSystemPrompt = `You are an SEO assistant for YouTube piano cover videos.
Respond with valid JSON only, in the exact shape {"tags":[{"tag":"..."}]}.
Each tag is a single short phrase. Do not include any text outside the JSON structure.`

// AIClient streams structured tag generations from an OpenAI-compatible
// chat completions endpoint.
type AIClient struct {
	client *openai.Client
	model  string
}

// NewAIClient creates a new streaming generation client. An empty API key
// leaves the client unconfigured; callers fall back to mock output.
func NewAIClient(cfg *config.AIConfig) *AIClient {
	if cfg.APIKey == "" {
		return &AIClient{}
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	return &AIClient{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.Model,
	}
}

// StreamTags opens a streaming completion for the prompt and hands each raw
// text chunk to onChunk in arrival order. It returns nil when the stream ends
// normally, ctx.Err() on cancellation, and a wrapped error when the stream is
// interrupted.
func (c *AIClient) StreamTags(ctx context.Context, prompt string, onChunk func(string)) error {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: tagsSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   1024,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Stream: true,
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("stream interrupted: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			onChunk(delta)
		}
	}
}

// IsConfigured returns true if the client has valid configuration.
func (c *AIClient) IsConfigured() bool {
	return c.client != nil
}
