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

type ContractHandler struct {
	contractService *services.ContractService
	escrowService   *services.EscrowService
	log             *zap.Logger
}

func NewContractHandler(contractService *services.ContractService, escrowService *services.EscrowService, log *zap.Logger) *ContractHandler {
	return &ContractHandler{contractService: contractService, escrowService: escrowService, log: log}
}

func (h *ContractHandler) CreateContract(c *fiber.Ctx) error {
	var req dto.CreateContractRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if req.TemplateType == "" {
		return badRequest(c, "template_type is required")
	}

	in := services.CreateContractInput{
		TemplateType:  req.TemplateType,
		Title:         req.Title,
		Fields:        req.Content.Fields,
		ContractValue: req.Content.ContractValue,
		PaymentMethod: req.Content.PaymentMethod,
	}
	if req.CounterpartyID != "" {
		id, err := uuid.Parse(req.CounterpartyID)
		if err != nil {
			return badRequest(c, "invalid counterparty_id")
		}
		in.CounterpartyID = &id
	}

	contract, err := h.contractService.CreateContract(c.Context(), middleware.GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: contract})
}

func (h *ContractHandler) GetContract(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid contract id")
	}
	contract, err := h.contractService.GetContract(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: contract})
}

func (h *ContractHandler) ListContracts(c *fiber.Ctx) error {
	limit, offset := 20, 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	list, err := h.contractService.ListContracts(c.Context(), middleware.GetUserID(c), c.Query("role"), c.Query("status"), limit, offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: list})
}

func (h *ContractHandler) RespondToContract(c *fiber.Ctx) error {
	var req dto.RespondContractRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	return h.respond(c, services.Decision(req.Decision), req.Reason)
}

func (h *ContractHandler) AgreeContract(c *fiber.Ctx) error {
	return h.respond(c, services.DecisionAgree, "")
}

// RejectContract takes an optional {"reason": "..."} body.
func (h *ContractHandler) RejectContract(c *fiber.Ctx) error {
	var req dto.RejectContractRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request")
		}
	}
	return h.respond(c, services.DecisionReject, req.Reason)
}

func (h *ContractHandler) respond(c *fiber.Ctx, decision services.Decision, reason string) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid contract id")
	}
	res, err := h.contractService.RespondToContract(c.Context(), id, middleware.GetUserID(c), decision, reason)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: res})
}

func (h *ContractHandler) PreviewContract(c *fiber.Ctx) error {
	var req dto.PreviewContractRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	content, err := h.contractService.PreviewContract(req.TemplateID, req.Fields, req.PartyA, req.PartyB)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.PreviewResponse{Content: content}})
}

func (h *ContractHandler) GetContractEvents(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid contract id")
	}
	logs, err := h.contractService.ContractEvents(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: logs})
}

func (h *ContractHandler) GetEscrow(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid contract id")
	}
	e, err := h.escrowService.GetEscrow(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: e})
}
