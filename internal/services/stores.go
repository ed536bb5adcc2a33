package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shokulab/backend/internal/models"
	"github.com/shokulab/backend/internal/repositories"
)

// ContractStore is implemented by repositories.ContractRepo.
type ContractStore interface {
	Create(ctx context.Context, c *models.Contract) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	List(ctx context.Context, f repositories.ContractFilter) ([]models.Contract, error)
	Respond(ctx context.Context, id, actorID uuid.UUID, status string, at time.Time, escrow *models.EscrowTransaction) (*models.Contract, error)
}

// EscrowStore is implemented by repositories.EscrowRepo.
type EscrowStore interface {
	GetByContractID(ctx context.Context, contractID uuid.UUID) (*models.EscrowTransaction, error)
	UpdateStatus(ctx context.Context, contractID uuid.UUID, from, to string) (*models.EscrowTransaction, error)
	ListDueReminders(ctx context.Context, olderThan time.Time, limit int) ([]models.EscrowReminder, error)
	MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

// IdentityProvider resolves users and their verification level.
type IdentityProvider interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type AuditLogger interface {
	Log(ctx context.Context, entry models.AuditLog) error
	ContractTrail(ctx context.Context, contractID uuid.UUID, limit int) ([]models.AuditLog, error)
}
