package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shokulab/backend/internal/http/dto"
	"github.com/shokulab/backend/internal/middleware"
	"github.com/shokulab/backend/internal/services"
	"go.uber.org/zap"
)

// writeError maps service error kinds onto HTTP statuses. Unknown errors are
// logged and reported as 500 without detail.
func writeError(c *fiber.Ctx, log *zap.Logger, err error) error {
	resp := dto.ErrorResponse{Error: err.Error(), RequestID: middleware.GetRequestID(c)}

	var verr *services.ValidationError
	var perr *services.PermissionDeniedError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	case errors.As(err, &perr):
		resp.Error = perr.Check.Message
		resp.Reason = perr.Check.Reason
		resp.Action = perr.Check.Action
		return c.Status(fiber.StatusForbidden).JSON(resp)
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(resp)
	case errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(resp)
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(resp)
	}

	log.Error("request failed",
		zap.String("request_id", resp.RequestID),
		zap.String("path", c.Path()),
		zap.Error(err))
	resp.Error = "internal error"
	return c.Status(fiber.StatusInternalServerError).JSON(resp)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg, RequestID: middleware.GetRequestID(c)})
}
