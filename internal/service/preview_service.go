package service

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/sheetsby/metadata-api/internal/client"
	"github.com/sheetsby/metadata-api/internal/model"
)

// 1x1 transparent PNG, served when no capture service is configured.
var mockScreenshotPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg==")

// PreviewService answers preview lookups, falling back to deterministic mock
// payloads when the external clients are not configured.
type PreviewService struct {
	sheetClient      *client.SheetClient
	screenshotClient *client.ScreenshotClient
}

func NewPreviewService(sheetClient *client.SheetClient, screenshotClient *client.ScreenshotClient) *PreviewService {
	return &PreviewService{
		sheetClient:      sheetClient,
		screenshotClient: screenshotClient,
	}
}

// LookupSheet fetches the metadata document for a sheet code.
func (s *PreviewService) LookupSheet(ctx context.Context, code string) (json.RawMessage, error) {
	if s.sheetClient == nil || !s.sheetClient.IsConfigured() {
		return s.mockSheet(code)
	}
	return s.sheetClient.Lookup(ctx, code)
}

// CaptureScreenshot fetches a page screenshot for a URL.
func (s *PreviewService) CaptureScreenshot(ctx context.Context, targetURL string) ([]byte, string, error) {
	if s.screenshotClient == nil || !s.screenshotClient.IsConfigured() {
		return mockScreenshotPNG, "image/png", nil
	}
	return s.screenshotClient.Capture(ctx, targetURL)
}

// SheetPreview adapts LookupSheet to the preview fetcher contract.
func (s *PreviewService) SheetPreview(ctx context.Context, code string) (*model.PreviewPayload, error) {
	data, err := s.LookupSheet(ctx, code)
	if err != nil {
		return nil, err
	}
	return &model.PreviewPayload{Data: data}, nil
}

// ScreenshotPreview adapts CaptureScreenshot to the preview fetcher contract.
func (s *PreviewService) ScreenshotPreview(ctx context.Context, targetURL string) (*model.PreviewPayload, error) {
	img, _, err := s.CaptureScreenshot(ctx, targetURL)
	if err != nil {
		return nil, err
	}
	return &model.PreviewPayload{Image: img}, nil
}

func (s *PreviewService) mockSheet(code string) (json.RawMessage, error) {
	meta := model.SheetMetadata{
		ThumbnailURL: "https://mms.pd.mapia.io/thumbnails/" + code + ".png",
		Title:        "Sheet " + code,
	}
	return json.Marshal(meta)
}
