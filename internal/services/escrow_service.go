package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shokulab/backend/internal/events"
	"github.com/shokulab/backend/internal/metrics"
	"github.com/shokulab/backend/internal/models"
	"github.com/shokulab/backend/internal/rbac"
	"github.com/shokulab/backend/internal/repositories"
	"go.uber.org/zap"
)

// EscrowService tracks escrow transactions after they are opened. Money moves
// outside this system; the payment side reports outcomes back to us.
type EscrowService struct {
	escrows   EscrowStore
	contracts ContractStore
	audit     AuditLogger
	publisher events.Publisher
	now       func() time.Time
	log       *zap.Logger
}

func NewEscrowService(escrows EscrowStore, contracts ContractStore, audit AuditLogger, publisher events.Publisher, log *zap.Logger) *EscrowService {
	return &EscrowService{
		escrows:   escrows,
		contracts: contracts,
		audit:     audit,
		publisher: publisher,
		now:       time.Now,
		log:       log,
	}
}

// GetEscrow returns the escrow of a contract to one of its parties.
func (s *EscrowService) GetEscrow(ctx context.Context, contractID, actorID uuid.UUID) (*models.EscrowTransaction, error) {
	c, err := s.contracts.GetByID(ctx, contractID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: contract %s", ErrNotFound, contractID)
	}
	if err != nil {
		return nil, persistence("load contract", err)
	}
	if !rbac.Can(c, actorID, rbac.PermViewEscrow) {
		return nil, fmt.Errorf("%w: escrow is visible to the contract parties only", ErrForbidden)
	}

	e, err := s.escrows.GetByContractID(ctx, contractID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: escrow for contract %s", ErrNotFound, contractID)
	}
	if err != nil {
		return nil, persistence("load escrow", err)
	}
	return e, nil
}

// ReportStatus records the payment outcome for a pending escrow. A second
// report for the same escrow is an invalid transition.
func (s *EscrowService) ReportStatus(ctx context.Context, contractID uuid.UUID, status string) (*models.EscrowTransaction, error) {
	if !models.IsValidEscrowOutcome(status) {
		return nil, &ValidationError{Field: "status", Message: "must be completed or failed"}
	}

	c, err := s.contracts.GetByID(ctx, contractID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: contract %s", ErrNotFound, contractID)
	}
	if err != nil {
		return nil, persistence("load contract", err)
	}

	e, err := s.escrows.UpdateStatus(ctx, contractID, models.EscrowStatusPending, status)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("%w: escrow for contract %s", ErrNotFound, contractID)
	case errors.Is(err, repositories.ErrConflict):
		return nil, invalidTransition("escrow is no longer pending")
	case err != nil:
		return nil, persistence("update escrow", err)
	}

	action, evType := models.AuditEscrowCompleted, events.EventPaymentCompleted
	if status == models.EscrowStatusFailed {
		action, evType = models.AuditEscrowFailed, events.EventPaymentFailed
	}
	if err := s.audit.Log(ctx, models.AuditLog{
		ActorType:  models.ActorTypePayment,
		Action:     action,
		EntityType: models.EntityContract,
		EntityID:   &c.ID,
		Meta:       map[string]any{"amount": e.Amount, "fee": e.Fee},
	}); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}

	recipients := []uuid.UUID{c.CreatedBy}
	if c.AgreedBy != nil {
		recipients = append(recipients, *c.AgreedBy)
	}
	ev := events.Event{
		Type: evType,
		Payload: map[string]any{
			events.KeyContractID: c.ID.String(),
			events.KeyTitle:      c.Title,
			events.KeyAmount:     e.Amount,
			events.KeyFee:        e.Fee,
		},
	}.WithRecipients(recipients...)
	if err := s.publisher.Publish(ctx, events.StreamPayment, ev); err != nil {
		s.log.Warn("publish event failed", zap.String("type", ev.Type), zap.Error(err))
	}

	s.log.Info("escrow status reported",
		zap.String("contract_id", contractID.String()),
		zap.String("status", status))
	return e, nil
}

// SendReminders emits one payment_reminder per pending escrow older than age
// and returns how many were sent. Each escrow is reminded at most once.
func (s *EscrowService) SendReminders(ctx context.Context, age time.Duration, batch int) (int, error) {
	now := s.now()
	due, err := s.escrows.ListDueReminders(ctx, now.Add(-age), batch)
	if err != nil {
		return 0, persistence("list due reminders", err)
	}

	sent := 0
	for _, d := range due {
		ok, err := s.escrows.MarkReminded(ctx, d.ID, now)
		if err != nil {
			s.log.Error("mark reminded failed", zap.String("escrow_id", d.ID.String()), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}

		ev := events.Event{
			Type: events.EventPaymentReminder,
			Payload: map[string]any{
				events.KeyContractID: d.ContractID.String(),
				events.KeyTitle:      d.ContractTitle,
				events.KeyAmount:     d.Amount,
				events.KeyFee:        d.Fee,
			},
		}.WithRecipients(d.PayerID)
		if err := s.publisher.Publish(ctx, events.StreamPayment, ev); err != nil {
			s.log.Warn("publish reminder failed", zap.String("contract_id", d.ContractID.String()), zap.Error(err))
		}
		contractID := d.ContractID
		if err := s.audit.Log(ctx, models.AuditLog{
			ActorType:  models.ActorTypeSystem,
			Action:     models.AuditEscrowReminded,
			EntityType: models.EntityContract,
			EntityID:   &contractID,
		}); err != nil {
			s.log.Warn("audit log failed", zap.String("action", models.AuditEscrowReminded), zap.Error(err))
		}
		metrics.RecordEscrowReminder()
		sent++
	}
	return sent, nil
}
