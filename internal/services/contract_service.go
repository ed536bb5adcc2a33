package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shokulab/backend/internal/config"
	"github.com/shokulab/backend/internal/events"
	"github.com/shokulab/backend/internal/metrics"
	"github.com/shokulab/backend/internal/models"
	"github.com/shokulab/backend/internal/payments"
	"github.com/shokulab/backend/internal/rbac"
	"github.com/shokulab/backend/internal/repositories"
	"github.com/shokulab/backend/internal/templates"
	"github.com/shokulab/backend/internal/verification"
	"go.uber.org/zap"
)

// Decision is the counterparty's answer to a pending contract.
type Decision string

const (
	DecisionAgree  Decision = "agree"
	DecisionReject Decision = "reject"
)

// Contract list roles
const (
	RoleCreated  = "created"
	RoleReceived = "received"
)

type ContractService struct {
	contracts ContractStore
	users     IdentityProvider
	audit     AuditLogger
	registry  *templates.Registry
	gate      *verification.Gate
	fees      payments.FeeSchedule
	publisher events.Publisher
	loc       *time.Location
	now       func() time.Time
	log       *zap.Logger
}

func NewContractService(
	contracts ContractStore,
	users IdentityProvider,
	audit AuditLogger,
	registry *templates.Registry,
	gate *verification.Gate,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *ContractService {
	return &ContractService{
		contracts: contracts,
		users:     users,
		audit:     audit,
		registry:  registry,
		gate:      gate,
		fees:      cfg.FeeSchedule(),
		publisher: publisher,
		loc:       cfg.Location(),
		now:       time.Now,
		log:       log,
	}
}

type CreateContractInput struct {
	TemplateType  string
	Title         string // defaults to the template title
	Fields        map[string]string
	ContractValue string
	PaymentMethod string
	// CounterpartyID addresses the contract_received event. The contract
	// itself does not store it.
	CounterpartyID *uuid.UUID
}

// CreateContract validates the input, checks the creator's verification level,
// renders the document once and stores the contract as pending.
func (s *ContractService) CreateContract(ctx context.Context, creatorID uuid.UUID, in CreateContractInput) (*models.Contract, error) {
	tmpl, err := s.registry.Get(in.TemplateType)
	if err != nil {
		return nil, fmt.Errorf("%w: template %q", ErrNotFound, in.TemplateType)
	}

	value, err := ParseContractValue(in.ContractValue)
	if err != nil {
		return nil, err
	}

	creator, err := s.lookupUser(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	level := verification.LevelUnverified
	if creator != nil {
		level = verification.ParseLevel(creator.VerificationLevel)
	}
	if check := s.gate.CheckContractPermission(level, value); !check.Allowed {
		return nil, &PermissionDeniedError{Check: check}
	}

	if missing := templates.MissingRequired(tmpl, in.Fields); len(missing) > 0 {
		return nil, &ValidationError{
			Field:   missing[0],
			Message: "required fields are empty: " + strings.Join(missing, ", "),
		}
	}
	if !payments.IsValidMethod(in.PaymentMethod) {
		return nil, &ValidationError{Field: "paymentMethod", Message: fmt.Sprintf("unknown payment method %q", in.PaymentMethod)}
	}
	if in.CounterpartyID != nil && *in.CounterpartyID == creatorID {
		return nil, &ValidationError{Field: "counterparty_id", Message: "counterparty must be another user"}
	}

	partyA := templates.MissingValue
	if creator != nil && creator.DisplayName != "" {
		partyA = creator.DisplayName
	}
	partyB := templates.MissingValue
	if in.CounterpartyID != nil {
		cp, err := s.lookupUser(ctx, *in.CounterpartyID)
		if err != nil {
			return nil, err
		}
		if cp != nil && cp.DisplayName != "" {
			partyB = cp.DisplayName
		}
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = tmpl.Title
	}

	fields := templates.KnownFields(tmpl, in.Fields)
	c := &models.Contract{
		TemplateType: tmpl.ID,
		Title:        title,
		Content: models.ContractContent{
			Fields:        fields,
			ContractValue: value,
			PaymentMethod: in.PaymentMethod,
		},
		GeneratedContent: s.registry.Generate(tmpl, fields, partyA, partyB, s.now().In(s.loc)),
		Status:           models.ContractStatusPending,
		CreatedBy:        creatorID,
	}
	if err := s.contracts.Create(ctx, c); err != nil {
		return nil, persistence("create contract", err)
	}

	metrics.RecordContractCreated(c.TemplateType)
	s.logAudit(ctx, models.AuditLog{
		ActorUserID: &creatorID,
		ActorType:   models.ActorTypeUser,
		Action:      models.AuditContractCreated,
		EntityType:  models.EntityContract,
		EntityID:    &c.ID,
		Meta: map[string]any{
			"template_type":  c.TemplateType,
			"contract_value": value,
			"payment_method": in.PaymentMethod,
		},
	})

	ev := events.Event{
		Type: events.EventContractReceived,
		Payload: map[string]any{
			events.KeyContractID:    c.ID.String(),
			events.KeyTitle:         c.Title,
			events.KeyTemplateType:  c.TemplateType,
			events.KeyContractValue: value,
			events.KeyPaymentMethod: in.PaymentMethod,
			events.KeyActorID:       creatorID.String(),
		},
	}
	if in.CounterpartyID != nil {
		ev = ev.WithRecipients(*in.CounterpartyID)
	}
	s.publish(ctx, events.StreamContract, ev)

	s.log.Info("contract created",
		zap.String("contract_id", c.ID.String()),
		zap.String("template", c.TemplateType),
		zap.Int64("contract_value", value))
	return c, nil
}

// RespondResult is the outcome of a successful response. Escrow is set only
// when an escrow-paid contract was agreed.
type RespondResult struct {
	Contract *models.Contract          `json:"contract"`
	Escrow   *models.EscrowTransaction `json:"escrow,omitempty"`
}

// RespondToContract applies the counterparty's decision. Only a pending
// contract can be answered, and never by its creator. The status change and
// the escrow record are written atomically, guarded by status = 'pending'.
func (s *ContractService) RespondToContract(ctx context.Context, contractID, actorID uuid.UUID, decision Decision, reason string) (*RespondResult, error) {
	var target string
	switch decision {
	case DecisionAgree:
		target = models.ContractStatusAgreed
	case DecisionReject:
		target = models.ContractStatusRejected
	default:
		return nil, &ValidationError{Field: "decision", Message: fmt.Sprintf("must be %q or %q", DecisionAgree, DecisionReject)}
	}

	c, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, s.storeErr("load contract", err)
	}
	if rbac.ContractRole(c, actorID) == rbac.RoleCreator {
		return nil, invalidTransition("creator cannot respond to own contract")
	}
	if !models.IsValidTransition(c.Status, target) {
		return nil, invalidTransition("contract is %s", c.Status)
	}

	var escrow *models.EscrowTransaction
	if decision == DecisionAgree && c.Content.PaymentMethod == payments.MethodShokulabEscrow {
		fee := s.fees.CalculateFee(c.Content.ContractValue)
		escrow = &models.EscrowTransaction{
			Amount: c.Content.ContractValue,
			Fee:    fee.Fee,
			Status: models.EscrowStatusPending,
		}
	}

	oldStatus := c.Status
	updated, err := s.contracts.Respond(ctx, c.ID, actorID, target, s.now(), escrow)
	if errors.Is(err, repositories.ErrConflict) {
		metrics.RecordTransitionConflict()
		return nil, invalidTransition("contract is no longer pending")
	}
	if err != nil {
		return nil, persistence("respond to contract", err)
	}

	metrics.RecordContractResponse(string(decision))
	action := models.AuditContractAgreed
	evType := events.EventContractAgreed
	if decision == DecisionReject {
		action = models.AuditContractRejected
		evType = events.EventContractRejected
	}

	meta := map[string]any{"old_status": oldStatus, "new_status": target}
	if reason != "" {
		meta["reason"] = reason
	}
	s.logAudit(ctx, models.AuditLog{
		ActorUserID: &actorID,
		ActorType:   models.ActorTypeUser,
		Action:      action,
		EntityType:  models.EntityContract,
		EntityID:    &updated.ID,
		Meta:        meta,
	})

	payload := map[string]any{
		events.KeyContractID:    updated.ID.String(),
		events.KeyTitle:         updated.Title,
		events.KeyActorID:       actorID.String(),
		events.KeyPaymentMethod: updated.Content.PaymentMethod,
		events.KeyContractValue: updated.Content.ContractValue,
	}
	if reason != "" {
		payload[events.KeyReason] = reason
	}

	if escrow != nil {
		metrics.RecordEscrowCreated(escrow.Fee)
		s.logAudit(ctx, models.AuditLog{
			ActorType:  models.ActorTypeSystem,
			Action:     models.AuditEscrowCreated,
			EntityType: models.EntityContract,
			EntityID:   &updated.ID,
			Meta:       map[string]any{"amount": escrow.Amount, "fee": escrow.Fee},
		})
		payload[events.KeyAmount] = escrow.Amount
		payload[events.KeyFee] = escrow.Fee
	}

	s.publish(ctx, events.StreamContract, events.Event{Type: evType, Payload: payload}.
		WithRecipients(updated.CreatedBy, actorID))

	s.log.Info("contract responded",
		zap.String("contract_id", updated.ID.String()),
		zap.String("decision", string(decision)),
		zap.Bool("escrow", escrow != nil))
	return &RespondResult{Contract: updated, Escrow: escrow}, nil
}

// PreviewContract renders a template without storing anything.
func (s *ContractService) PreviewContract(templateID string, fields map[string]string, partyA, partyB string) (string, error) {
	tmpl, err := s.registry.Get(templateID)
	if err != nil {
		return "", fmt.Errorf("%w: template %q", ErrNotFound, templateID)
	}
	return s.registry.Generate(tmpl, fields, partyA, partyB, s.now().In(s.loc)), nil
}

func (s *ContractService) GetContract(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	c, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeErr("load contract", err)
	}
	return c, nil
}

// ListContracts lists the user's contracts. RoleCreated selects contracts the
// user created, RoleReceived those the user answered.
func (s *ContractService) ListContracts(ctx context.Context, userID uuid.UUID, role, status string, limit, offset int) ([]models.Contract, error) {
	f := repositories.ContractFilter{Status: status, Limit: limit, Offset: offset}
	switch role {
	case "", RoleCreated:
		f.CreatedBy = &userID
	case RoleReceived:
		f.AgreedBy = &userID
	default:
		return nil, &ValidationError{Field: "role", Message: "must be created or received"}
	}
	if status != "" {
		if _, ok := models.ValidContractTransitions[status]; !ok {
			return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
		}
	}

	list, err := s.contracts.List(ctx, f)
	if err != nil {
		return nil, persistence("list contracts", err)
	}
	if list == nil {
		list = []models.Contract{}
	}
	return list, nil
}

// ContractEvents returns the audit trail of a contract to one of its parties.
func (s *ContractService) ContractEvents(ctx context.Context, id, actorID uuid.UUID) ([]models.AuditLog, error) {
	c, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeErr("load contract", err)
	}
	if !rbac.Can(c, actorID, rbac.PermViewHistory) {
		return nil, fmt.Errorf("%w: contract history is visible to its parties only", ErrForbidden)
	}
	logs, err := s.audit.ContractTrail(ctx, id, 100)
	if err != nil {
		return nil, persistence("load audit trail", err)
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	return logs, nil
}

// Permissions reports what the user's verification level allows and, when
// contractValue is given, whether a contract of that value may be created.
func (s *ContractService) Permissions(ctx context.Context, userID uuid.UUID, contractValue *int64) (verification.Level, verification.Permission, *verification.ContractCheck, error) {
	u, err := s.lookupUser(ctx, userID)
	if err != nil {
		return "", verification.Permission{}, nil, err
	}
	level := verification.LevelUnverified
	if u != nil {
		level = verification.ParseLevel(u.VerificationLevel)
	}
	var check *verification.ContractCheck
	if contractValue != nil {
		c := s.gate.CheckContractPermission(level, *contractValue)
		check = &c
	}
	return level, s.gate.PermissionsFor(level), check, nil
}

// ParseContractValue accepts a base-10 non-negative integer in yen.
func ParseContractValue(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &ValidationError{Field: "contractValue", Message: "is required"}
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &ValidationError{Field: "contractValue", Message: "must be an integer"}
	}
	if v < 0 {
		return 0, &ValidationError{Field: "contractValue", Message: "must not be negative"}
	}
	return v, nil
}

// lookupUser returns nil without error for unknown users; they get the
// permissions of an unverified account.
func (s *ContractService) lookupUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence("load user", err)
	}
	return u, nil
}

func (s *ContractService) storeErr(op string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, op)
	}
	return persistence(op, err)
}

func (s *ContractService) logAudit(ctx context.Context, entry models.AuditLog) {
	if err := s.audit.Log(ctx, entry); err != nil {
		s.log.Warn("audit log failed", zap.String("action", entry.Action), zap.Error(err))
	}
}

func (s *ContractService) publish(ctx context.Context, stream string, ev events.Event) {
	if err := s.publisher.Publish(ctx, stream, ev); err != nil {
		s.log.Warn("publish event failed", zap.String("type", ev.Type), zap.Error(err))
	}
}
