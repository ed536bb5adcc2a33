package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shokulab/backend/internal/http/dto"
	"github.com/shokulab/backend/internal/middleware"
	"github.com/shokulab/backend/internal/templates"
)

// TemplateHandler serves the static template catalogue.
type TemplateHandler struct {
	registry *templates.Registry
}

func NewTemplateHandler(registry *templates.Registry) *TemplateHandler {
	return &TemplateHandler{registry: registry}
}

func (h *TemplateHandler) ListTemplates(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: h.registry.List()})
}

func (h *TemplateHandler) GetTemplate(c *fiber.Ctx) error {
	t, err := h.registry.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "template not found", RequestID: middleware.GetRequestID(c)})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: t})
}

func (h *TemplateHandler) GetClauses(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: h.registry.Clauses()})
}
