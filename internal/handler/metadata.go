package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/sheetsby/metadata-api/internal/model"
	"github.com/sheetsby/metadata-api/internal/service"
	"github.com/sheetsby/metadata-api/pkg/response"
)

type MetadataHandler struct {
	service   *service.MetadataService
	validator *validator.Validate
}

func NewMetadataHandler(svc *service.MetadataService, v *validator.Validate) *MetadataHandler {
	return &MetadataHandler{
		service:   svc,
		validator: v,
	}
}

// Describe handles POST /api/description. Composition is pure and always
// available: it never touches the network, so it succeeds even while every
// remote dependency is down.
func (h *MetadataHandler) Describe(c *fiber.Ctx) error {
	var req model.DescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	return response.OK(c, h.service.Describe(req.MetadataForm))
}

// formatValidationErrors formats validator errors for response
func formatValidationErrors(err error) interface{} {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errors := make(map[string]string)
		for _, e := range validationErrors {
			errors[e.Field()] = e.Tag()
		}
		return errors
	}
	return nil
}
