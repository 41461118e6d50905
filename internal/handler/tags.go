package handler

import (
	"bufio"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/sheetsby/metadata-api/internal/generator"
	"github.com/sheetsby/metadata-api/internal/model"
	"github.com/sheetsby/metadata-api/internal/service"
	"github.com/sheetsby/metadata-api/pkg/response"
)

type TagsHandler struct {
	manager   *generator.Manager
	metadata  *service.MetadataService
	validator *validator.Validate
}

func NewTagsHandler(manager *generator.Manager, metadata *service.MetadataService, v *validator.Validate) *TagsHandler {
	return &TagsHandler{
		manager:   manager,
		metadata:  metadata,
		validator: v,
	}
}

// Generate handles POST /api/tags/generate. The request carries either a
// ready prompt or the form values to build one from; an empty prompt is
// rejected before a session is created.
func (h *TagsHandler) Generate(c *fiber.Ctx) error {
	var req model.GenerateTagsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	sess, err := h.manager.Generate(h.resolvePrompt(&req))
	if err != nil {
		if errors.Is(err, generator.ErrEmptyPrompt) {
			return response.ValidationError(c, "Prompt or form is required", nil)
		}
		return response.AIError(c, err.Error())
	}

	return response.Accepted(c, model.GenerateTagsResponse{
		SessionID: sess.ID,
		Status:    model.SessionStreaming,
		CreatedAt: sess.CreatedAt,
	})
}

// Status handles GET /api/tags/status/:sessionId
func (h *TagsHandler) Status(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return response.ValidationError(c, "Session ID is required", nil)
	}

	sess, err := h.manager.Get(sessionID)
	if err != nil {
		return response.NotFound(c, "Session not found")
	}

	return response.OK(c, sess.Snapshot())
}

// Result handles GET /api/tags/result/:sessionId
func (h *TagsHandler) Result(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return response.ValidationError(c, "Session ID is required", nil)
	}

	tags, err := h.manager.Result(sessionID)
	if err != nil {
		if errors.Is(err, generator.ErrNotFound) {
			return response.NotFound(c, "Session not found")
		}
		if errors.Is(err, generator.ErrNotComplete) {
			return response.ValidationError(c, "Session not complete yet", nil)
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, model.TagsResultResponse{
		SessionID: sessionID,
		Tags:      tags,
	})
}

// Cancel handles POST /api/tags/cancel/:sessionId
func (h *TagsHandler) Cancel(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return response.ValidationError(c, "Session ID is required", nil)
	}

	sess, err := h.manager.Cancel(sessionID)
	if err != nil {
		if errors.Is(err, generator.ErrNotFound) {
			return response.NotFound(c, "Session not found")
		}
		if errors.Is(err, generator.ErrNotStreaming) {
			return response.ValidationError(c, "Session already finished", nil)
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, model.TagsCancelResponse{
		Success:   true,
		SessionID: sess.ID,
		Status:    model.SessionCancelled,
	})
}

// Clear handles POST /api/tags/clear/:sessionId. Clearing discards the
// session and its tags; a still-streaming session is cancelled first.
func (h *TagsHandler) Clear(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return response.ValidationError(c, "Session ID is required", nil)
	}

	if err := h.manager.Clear(sessionID); err != nil {
		return response.NotFound(c, "Session not found")
	}

	return response.OK(c, model.TagsCancelResponse{
		Success:   true,
		SessionID: sessionID,
	})
}

// Stream handles POST /api/tags-generator: the prompt comes in as JSON and
// the model's raw response streams back incrementally. The payload is partial
// JSON until the final chunk, which is authoritative; a client that
// disconnects mid-stream cancels the session.
func (h *TagsHandler) Stream(c *fiber.Ctx) error {
	prompt := h.parsePrompt(c.Body())

	reqCtx := c.Context()
	chunks := make(chan string, 256)
	sess, err := h.manager.Generate(prompt, generator.WithChunkTap(func(chunk string) {
		select {
		case chunks <- chunk:
		case <-reqCtx.Done():
		}
	}))
	if err != nil {
		if errors.Is(err, generator.ErrEmptyPrompt) {
			return response.ValidationError(c, "Prompt is required", nil)
		}
		return response.AIError(c, err.Error())
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("X-Accel-Buffering", "no")

	manager := h.manager
	sessionID := sess.ID
	done := sess.Done()
	reqCtx.SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for {
			select {
			case chunk := <-chunks:
				if _, err := w.WriteString(chunk); err != nil {
					manager.Cancel(sessionID)
					return
				}
				if err := w.Flush(); err != nil {
					manager.Cancel(sessionID)
					return
				}
			case <-done:
				// Flush whatever arrived before the terminal state.
				for {
					select {
					case chunk := <-chunks:
						w.WriteString(chunk)
					default:
						w.Flush()
						return
					}
				}
			}
		}
	}))
	return nil
}

// parsePrompt accepts the bare JSON string the original client posts as well
// as the {"prompt": ..., "form": ...} request shape.
func (h *TagsHandler) parsePrompt(body []byte) string {
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return s
	}

	var req model.GenerateTagsRequest
	if err := json.Unmarshal(body, &req); err == nil {
		return h.resolvePrompt(&req)
	}
	return ""
}

func (h *TagsHandler) resolvePrompt(req *model.GenerateTagsRequest) string {
	if strings.TrimSpace(req.Prompt) != "" {
		return req.Prompt
	}
	if req.Form != nil {
		return h.metadata.Prompt(*req.Form)
	}
	return ""
}
