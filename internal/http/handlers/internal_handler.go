package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shokulab/backend/internal/http/dto"
	"github.com/shokulab/backend/internal/services"
	"go.uber.org/zap"
)

// InternalHandler serves callbacks from the payment collaborator.
type InternalHandler struct {
	escrowService *services.EscrowService
	log           *zap.Logger
}

func NewInternalHandler(escrowService *services.EscrowService, log *zap.Logger) *InternalHandler {
	return &InternalHandler{escrowService: escrowService, log: log}
}

func (h *InternalHandler) ReportEscrowStatus(c *fiber.Ctx) error {
	contractID, err := uuid.Parse(c.Params("contractId"))
	if err != nil {
		return badRequest(c, "invalid contract id")
	}
	var req dto.EscrowStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	e, err := h.escrowService.ReportStatus(c.Context(), contractID, req.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: e})
}
