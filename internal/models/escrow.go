package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EscrowStatusPending   = "pending"
	EscrowStatusCompleted = "completed"
	EscrowStatusFailed    = "failed"
)

// IsValidEscrowOutcome reports whether s is a status the payment side may report.
func IsValidEscrowOutcome(s string) bool {
	return s == EscrowStatusCompleted || s == EscrowStatusFailed
}

type EscrowTransaction struct {
	ID         uuid.UUID  `json:"id"`
	ContractID uuid.UUID  `json:"contract_id"`
	Amount     int64      `json:"amount"`
	Fee        int64      `json:"fee"`
	Status     string     `json:"status"`
	RemindedAt *time.Time `json:"reminded_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// EscrowReminder is a pending escrow joined with who has to pay it.
type EscrowReminder struct {
	EscrowTransaction
	PayerID       uuid.UUID `json:"payer_id"`
	CreatorID     uuid.UUID `json:"creator_id"`
	ContractTitle string    `json:"contract_title"`
}
