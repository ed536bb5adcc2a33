package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shokulab/backend/internal/http/dto"
	"github.com/shokulab/backend/internal/middleware"
	"github.com/shokulab/backend/internal/services"
	"go.uber.org/zap"
)

// MeHandler serves the caller's own permissions and inbox.
type MeHandler struct {
	contractService     *services.ContractService
	notificationService *services.NotificationService
	log                 *zap.Logger
}

func NewMeHandler(contractService *services.ContractService, notificationService *services.NotificationService, log *zap.Logger) *MeHandler {
	return &MeHandler{contractService: contractService, notificationService: notificationService, log: log}
}

func (h *MeHandler) GetPermissions(c *fiber.Ctx) error {
	var value *int64
	if v := c.Query("contract_value"); v != "" {
		n, err := services.ParseContractValue(v)
		if err != nil {
			return writeError(c, h.log, err)
		}
		value = &n
	}

	level, perm, check, err := h.contractService.Permissions(c.Context(), middleware.GetUserID(c), value)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.PermissionsResponse{
		Level:         level,
		Permissions:   perm,
		ContractCheck: check,
	}})
}

func (h *MeHandler) ListNotifications(c *fiber.Ctx) error {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	list, err := h.notificationService.List(c.Context(), middleware.GetUserID(c), c.QueryBool("unread"), limit)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: list})
}

func (h *MeHandler) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid notification id")
	}
	if err := h.notificationService.MarkRead(c.Context(), middleware.GetUserID(c), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
