package dto

import (
	"github.com/shokulab/backend/internal/payments"
	"github.com/shokulab/backend/internal/verification"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Action    string `json:"action,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type PreviewResponse struct {
	Content string `json:"content"`
}

type PaymentMethodsResponse struct {
	Methods     []payments.Method    `json:"methods"`
	Timings     []payments.Timing    `json:"timings"`
	Recommended []payments.Method    `json:"recommended,omitempty"`
	FeeSchedule payments.FeeSchedule `json:"fee_schedule"`
	FeePreview  *payments.FeeResult  `json:"fee_preview,omitempty"`
}

type PermissionsResponse struct {
	Level         verification.Level          `json:"level"`
	Permissions   verification.Permission     `json:"permissions"`
	ContractCheck *verification.ContractCheck `json:"contract_check,omitempty"`
}
