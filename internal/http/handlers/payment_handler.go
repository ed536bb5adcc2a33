package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shokulab/backend/internal/http/dto"
	"github.com/shokulab/backend/internal/payments"
)

type PaymentHandler struct {
	fees payments.FeeSchedule
}

func NewPaymentHandler(fees payments.FeeSchedule) *PaymentHandler {
	return &PaymentHandler{fees: fees}
}

// ListMethods returns the catalogue. With ?contract_value=N it adds the
// recommended methods and the escrow fee for N.
func (h *PaymentHandler) ListMethods(c *fiber.Ctx) error {
	resp := dto.PaymentMethodsResponse{
		Methods:     payments.Methods(),
		Timings:     payments.Timings(),
		FeeSchedule: h.fees,
	}
	if v := c.Query("contract_value"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return badRequest(c, "contract_value must be a non-negative integer")
		}
		fee := h.fees.CalculateFee(n)
		resp.FeePreview = &fee
		resp.Recommended = payments.RecommendMethods(n)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: resp})
}

func (h *PaymentHandler) AssessRisk(c *fiber.Ctx) error {
	var req dto.AssessPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if !payments.IsValidMethod(req.PaymentMethod) {
		return badRequest(c, "unknown payment_method")
	}
	if req.ContractValue < 0 {
		return badRequest(c, "contract_value must not be negative")
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: payments.AssessRisk(req.PaymentMethod, req.PaymentTiming, req.ContractValue, req.Relationship)})
}
