package service

import (
	"context"
	"time"

	"github.com/sheetsby/metadata-api/internal/client"
)

// mockTagResponse is streamed when no AI backend is configured. It matches
// the {"tags":[{"tag":...}]} schema the real backend is instructed to emit.
const mockTagResponse = `{"tags":[` +
	`{"tag":"piano cover"},` +
	`{"tag":"piano arrangement"},` +
	`{"tag":"sheet music"},` +
	`{"tag":"piano tutorial"},` +
	`{"tag":"relaxing piano music"},` +
	`{"tag":"how to play piano"},` +
	`{"tag":"john rod dondoyano"}` +
	`]}`

const mockChunkSize = 24

// TagStreamer streams tag generations from the AI client, or from a
// deterministic mock when the client is not configured. The mock still
// arrives in chunks so consumers exercise their partial-JSON handling.
type TagStreamer struct {
	aiClient *client.AIClient
}

func NewTagStreamer(aiClient *client.AIClient) *TagStreamer {
	return &TagStreamer{aiClient: aiClient}
}

// StreamTags delivers raw response chunks to onChunk in order.
func (s *TagStreamer) StreamTags(ctx context.Context, prompt string, onChunk func(string)) error {
	if s.aiClient == nil || !s.aiClient.IsConfigured() {
		return s.streamMock(ctx, onChunk)
	}
	return s.aiClient.StreamTags(ctx, prompt, onChunk)
}

func (s *TagStreamer) streamMock(ctx context.Context, onChunk func(string)) error {
	for i := 0; i < len(mockTagResponse); i += mockChunkSize {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
		end := i + mockChunkSize
		if end > len(mockTagResponse) {
			end = len(mockTagResponse)
		}
		onChunk(mockTagResponse[i:end])
	}
	return nil
}
