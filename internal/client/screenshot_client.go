package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sheetsby/metadata-api/internal/config"
)

// ScreenshotClient captures a page screenshot through an external capture
// service.
type ScreenshotClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewScreenshotClient creates a new screenshot capture client.
func NewScreenshotClient(cfg *config.ScreenshotConfig) *ScreenshotClient {
	return &ScreenshotClient{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		baseURL: cfg.ServiceURL,
	}
}

// Capture requests a screenshot of targetURL and returns the image bytes and
// their content type. A 429 from the service maps to ErrRateLimited so the
// caller can surface it distinctly.
func (c *ScreenshotClient) Capture(ctx context.Context, targetURL string) ([]byte, string, error) {
	endpoint := c.baseURL + "?url=" + url.QueryEscape(targetURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, "", fmt.Errorf("screenshot capture: %w", ErrRateLimited)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("screenshot service error (status %d)", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}

	return body, contentType, nil
}

// IsConfigured returns true if the client has valid configuration.
func (c *ScreenshotClient) IsConfigured() bool {
	return c.baseURL != ""
}
