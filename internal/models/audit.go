package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActorTypeUser    = "user"
	ActorTypeSystem  = "system"
	ActorTypePayment = "payment"
)

// Audit actions recorded against contracts.
const (
	AuditContractCreated  = "contract_created"
	AuditContractAgreed   = "contract_agreed"
	AuditContractRejected = "contract_rejected"
	AuditEscrowCreated    = "escrow_created"
	AuditEscrowCompleted  = "escrow_completed"
	AuditEscrowFailed     = "escrow_failed"
	AuditEscrowReminded   = "escrow_reminded"
)

const EntityContract = "contract"

type AuditLog struct {
	ID          uuid.UUID      `json:"id"`
	ActorUserID *uuid.UUID     `json:"actor_user_id,omitempty"`
	ActorType   string         `json:"actor_type"` // user/system/payment
	Action      string         `json:"action"`
	EntityType  string         `json:"entity_type"`
	EntityID    *uuid.UUID     `json:"entity_id,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
