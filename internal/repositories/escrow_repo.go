package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shokulab/backend/internal/models"
)

type EscrowRepo struct {
	pool *pgxpool.Pool
}

func NewEscrowRepo(pool *pgxpool.Pool) *EscrowRepo {
	return &EscrowRepo{pool: pool}
}

const escrowColumns = `id, contract_id, amount, fee, status, reminded_at, created_at, updated_at`

func scanEscrow(row pgx.Row) (*models.EscrowTransaction, error) {
	var e models.EscrowTransaction
	err := row.Scan(&e.ID, &e.ContractID, &e.Amount, &e.Fee, &e.Status, &e.RemindedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EscrowRepo) GetByContractID(ctx context.Context, contractID uuid.UUID) (*models.EscrowTransaction, error) {
	e, err := scanEscrow(r.pool.QueryRow(ctx, `
		SELECT `+escrowColumns+` FROM escrow_transactions WHERE contract_id = $1
	`, contractID))
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

// UpdateStatus is a compare-and-swap on the escrow status. A missing row is
// ErrNotFound, a row in another state is ErrConflict.
func (r *EscrowRepo) UpdateStatus(ctx context.Context, contractID uuid.UUID, from, to string) (*models.EscrowTransaction, error) {
	e, err := scanEscrow(r.pool.QueryRow(ctx, `
		UPDATE escrow_transactions SET status = $3, updated_at = now()
		WHERE contract_id = $1 AND status = $2
		RETURNING `+escrowColumns, contractID, from, to))
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := r.GetByContractID(ctx, contractID); err != nil {
		return nil, err
	}
	return nil, ErrConflict
}

// ListDueReminders returns pending escrows created before olderThan that have
// not been reminded yet, with the paying party resolved from the contract.
func (r *EscrowRepo) ListDueReminders(ctx context.Context, olderThan time.Time, limit int) ([]models.EscrowReminder, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT e.id, e.contract_id, e.amount, e.fee, e.status, e.reminded_at, e.created_at, e.updated_at,
		       c.agreed_by, c.created_by, c.title
		FROM escrow_transactions e
		JOIN contracts c ON c.id = e.contract_id
		WHERE e.status = 'pending' AND e.reminded_at IS NULL AND e.created_at < $1
		  AND c.agreed_by IS NOT NULL
		ORDER BY e.created_at
		LIMIT $2
	`, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EscrowReminder
	for rows.Next() {
		var m models.EscrowReminder
		if err := rows.Scan(&m.ID, &m.ContractID, &m.Amount, &m.Fee, &m.Status, &m.RemindedAt, &m.CreatedAt, &m.UpdatedAt,
			&m.PayerID, &m.CreatorID, &m.ContractTitle); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkReminded stamps reminded_at once. It reports false when another worker
// got there first or the escrow is no longer pending.
func (r *EscrowRepo) MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE escrow_transactions SET reminded_at = $2
		WHERE id = $1 AND reminded_at IS NULL AND status = 'pending'
	`, id, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
