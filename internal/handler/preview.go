package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sheetsby/metadata-api/internal/client"
	"github.com/sheetsby/metadata-api/internal/preview"
	"github.com/sheetsby/metadata-api/internal/service"
	"github.com/sheetsby/metadata-api/pkg/response"
)

type PreviewHandler struct {
	service *service.PreviewService
}

func NewPreviewHandler(svc *service.PreviewService) *PreviewHandler {
	return &PreviewHandler{service: svc}
}

// Sheet handles GET /api/mmf?code=...
// A missing code is a client-side precondition failure and never reaches the
// lookup backend.
func (h *PreviewHandler) Sheet(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		return response.ValidationError(c, "Code parameter is required", nil)
	}

	data, err := h.service.LookupSheet(c.Context(), code)
	if err != nil {
		if errors.Is(err, client.ErrRateLimited) {
			return response.RateLimited(c)
		}
		return response.UpstreamError(c, "Failed to fetch sheet metadata")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

// Screenshot handles GET /api/screenshot?url=...
// The URL is validated before any network call; an upstream 429 passes
// through with its own code so the client can tell it from a capture failure.
func (h *PreviewHandler) Screenshot(c *fiber.Ctx) error {
	targetURL := strings.TrimSpace(c.Query("url"))
	if err := preview.ValidateURL(targetURL); err != nil {
		return response.ValidationError(c, "URL must be a valid http(s) URL", nil)
	}

	img, contentType, err := h.service.CaptureScreenshot(c.Context(), targetURL)
	if err != nil {
		if errors.Is(err, client.ErrRateLimited) {
			return response.RateLimited(c)
		}
		return response.UpstreamError(c, "Failed to capture screenshot")
	}

	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(img)
}
