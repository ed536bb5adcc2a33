// Package memory holds in-memory stand-ins for the Postgres repositories,
// with the same conditional-update semantics. Tests use them in place of a
// database.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shokulab/backend/internal/events"
	"github.com/shokulab/backend/internal/models"
	"github.com/shokulab/backend/internal/repositories"
)

// Store backs contracts and escrow transactions with one lock so that
// Respond is atomic across both, like the SQL transaction it replaces.
type Store struct {
	mu        sync.Mutex
	contracts map[uuid.UUID]*models.Contract
	escrows   map[uuid.UUID]*models.EscrowTransaction // by contract id
	now       func() time.Time

	// FailNext makes the next write return this error.
	FailNext error
}

func NewStore() *Store {
	return &Store{
		contracts: map[uuid.UUID]*models.Contract{},
		escrows:   map[uuid.UUID]*models.EscrowTransaction{},
		now:       time.Now,
	}
}

func (s *Store) takeFailure() error {
	err := s.FailNext
	s.FailNext = nil
	return err
}

// copyContract deep-copies through JSON so callers never share maps with the store.
func copyContract(c *models.Contract) *models.Contract {
	out := *c
	data, _ := json.Marshal(c.Content)
	_ = json.Unmarshal(data, &out.Content)
	return &out
}

func (s *Store) Create(_ context.Context, c *models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	c.ID = uuid.New()
	c.CreatedAt = s.now()
	s.contracts[c.ID] = copyContract(c)
	return nil
}

func (s *Store) GetByID(_ context.Context, id uuid.UUID) (*models.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contracts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyContract(c), nil
}

func (s *Store) List(_ context.Context, f repositories.ContractFilter) ([]models.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Contract
	for _, c := range s.contracts {
		if f.CreatedBy != nil && c.CreatedBy != *f.CreatedBy {
			continue
		}
		if f.AgreedBy != nil && (c.AgreedBy == nil || *c.AgreedBy != *f.AgreedBy) {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, *copyContract(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) Respond(_ context.Context, id, actorID uuid.UUID, status string, at time.Time, escrow *models.EscrowTransaction) (*models.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}
	c, ok := s.contracts[id]
	if !ok || c.Status != models.ContractStatusPending {
		return nil, repositories.ErrConflict
	}
	if escrow != nil {
		if _, exists := s.escrows[id]; exists {
			return nil, repositories.ErrConflict
		}
		escrow.ID = uuid.New()
		escrow.ContractID = id
		escrow.CreatedAt = s.now()
		escrow.UpdatedAt = escrow.CreatedAt
		e := *escrow
		s.escrows[id] = &e
	}
	c.Status = status
	actor := actorID
	c.AgreedBy = &actor
	t := at
	c.AgreedAt = &t
	return copyContract(c), nil
}

// EscrowCount returns the number of stored escrow transactions.
func (s *Store) EscrowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.escrows)
}

// Escrows exposes the escrow side of the store.
func (s *Store) Escrows() *EscrowStore {
	return &EscrowStore{s: s}
}

type EscrowStore struct {
	s *Store
}

func (e *EscrowStore) GetByContractID(_ context.Context, contractID uuid.UUID) (*models.EscrowTransaction, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	tx, ok := e.s.escrows[contractID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *tx
	return &out, nil
}

func (e *EscrowStore) UpdateStatus(_ context.Context, contractID uuid.UUID, from, to string) (*models.EscrowTransaction, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if err := e.s.takeFailure(); err != nil {
		return nil, err
	}
	tx, ok := e.s.escrows[contractID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if tx.Status != from {
		return nil, repositories.ErrConflict
	}
	tx.Status = to
	tx.UpdatedAt = e.s.now()
	out := *tx
	return &out, nil
}

func (e *EscrowStore) ListDueReminders(_ context.Context, olderThan time.Time, limit int) ([]models.EscrowReminder, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	var out []models.EscrowReminder
	for cid, tx := range e.s.escrows {
		c := e.s.contracts[cid]
		if c == nil || c.AgreedBy == nil {
			continue
		}
		if tx.Status != models.EscrowStatusPending || tx.RemindedAt != nil || !tx.CreatedAt.Before(olderThan) {
			continue
		}
		out = append(out, models.EscrowReminder{
			EscrowTransaction: *tx,
			PayerID:           *c.AgreedBy,
			CreatorID:         c.CreatedBy,
			ContractTitle:     c.Title,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (e *EscrowStore) MarkReminded(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	for _, tx := range e.s.escrows {
		if tx.ID != id {
			continue
		}
		if tx.RemindedAt != nil || tx.Status != models.EscrowStatusPending {
			return false, nil
		}
		t := at
		tx.RemindedAt = &t
		return true, nil
	}
	return false, nil
}

// Backdate shifts an escrow's creation time, for reminder tests.
func (e *EscrowStore) Backdate(contractID uuid.UUID, d time.Duration) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if tx, ok := e.s.escrows[contractID]; ok {
		tx.CreatedAt = tx.CreatedAt.Add(-d)
	}
}

// Users is a fixed identity table.
type Users struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
	Err   error
}

func NewUsers() *Users {
	return &Users{users: map[uuid.UUID]models.User{}}
}

// Add registers a user and returns its id.
func (u *Users) Add(name, level string) uuid.UUID {
	u.mu.Lock()
	defer u.mu.Unlock()
	id := uuid.New()
	u.users[id] = models.User{ID: id, DisplayName: name, VerificationLevel: level, CreatedAt: time.Now()}
	return id
}

func (u *Users) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return nil, u.Err
	}
	usr, ok := u.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &usr, nil
}

// Audit records entries in insertion order.
type Audit struct {
	mu      sync.Mutex
	entries []models.AuditLog
	Err     error
}

func (a *Audit) Log(_ context.Context, entry models.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	a.entries = append(a.entries, entry)
	return nil
}

func (a *Audit) ContractTrail(_ context.Context, contractID uuid.UUID, limit int) ([]models.AuditLog, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	out := []models.AuditLog{}
	for _, e := range a.entries {
		if e.EntityType == models.EntityContract && e.EntityID != nil && *e.EntityID == contractID {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Actions lists recorded audit actions in order.
func (a *Audit) Actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.Action
	}
	return out
}

// Notifications is an in-memory inbox.
type Notifications struct {
	mu   sync.Mutex
	rows []models.InAppNotification
	Err  error
}

func (n *Notifications) Create(_ context.Context, row *models.InAppNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	row.ID = uuid.New()
	row.CreatedAt = time.Now()
	n.rows = append(n.rows, *row)
	return nil
}

func (n *Notifications) ListByUser(_ context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.InAppNotification, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []models.InAppNotification
	for i := len(n.rows) - 1; i >= 0; i-- {
		r := n.rows[i]
		if r.UserID != userID || (unreadOnly && r.ReadAt != nil) {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (n *Notifications) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range n.rows {
		if n.rows[i].ID == id && n.rows[i].UserID == userID {
			if n.rows[i].ReadAt == nil {
				t := time.Now()
				n.rows[i].ReadAt = &t
			}
			return nil
		}
	}
	return repositories.ErrNotFound
}

// Publisher records published events.
type Publisher struct {
	mu     sync.Mutex
	events []PublishedEvent
	Err    error
}

type PublishedEvent struct {
	Stream string
	Event  events.Event
}

func (p *Publisher) Publish(_ context.Context, stream string, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, PublishedEvent{Stream: stream, Event: ev})
	return nil
}

// Published returns the recorded events.
func (p *Publisher) Published() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedEvent, len(p.events))
	copy(out, p.events)
	return out
}

// OfType returns recorded events of the given type.
func (p *Publisher) OfType(typ string) []events.Event {
	var out []events.Event
	for _, pe := range p.Published() {
		if pe.Event.Type == typ {
			out = append(out, pe.Event)
		}
	}
	return out
}
