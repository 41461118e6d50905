package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sheetsby/metadata-api/internal/config"
)

// SheetClient fetches sheet metadata from the mymusicfive public API.
type SheetClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewSheetClient creates a new sheet metadata lookup client.
func NewSheetClient(cfg *config.SheetConfig) *SheetClient {
	return &SheetClient{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		baseURL: cfg.BaseURL,
	}
}

// Lookup fetches the metadata document for a sheet code. The raw JSON is
// returned untouched so the caller can pass it through; a missing code is a
// precondition failure and never reaches the network.
func (c *SheetClient) Lookup(ctx context.Context, code string) (json.RawMessage, error) {
	if code == "" {
		return nil, fmt.Errorf("code is required")
	}

	endpoint := c.baseURL + "/mms/public/sheet/" + url.PathEscape(code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("sheet lookup: %w", ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet lookup error (status %d): %s", resp.StatusCode, string(body))
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("sheet lookup returned invalid JSON")
	}

	return json.RawMessage(body), nil
}

// IsConfigured returns true if the client has valid configuration.
func (c *SheetClient) IsConfigured() bool {
	return c.baseURL != ""
}
