package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shokulab/backend/internal/models"
)

type ContractRepo struct {
	pool *pgxpool.Pool
}

func NewContractRepo(pool *pgxpool.Pool) *ContractRepo {
	return &ContractRepo{pool: pool}
}

const contractColumns = `id, template_type, title, content, generated_content, status,
	created_by, agreed_by, created_at, agreed_at`

func scanContract(row pgx.Row) (*models.Contract, error) {
	var c models.Contract
	var content []byte
	err := row.Scan(&c.ID, &c.TemplateType, &c.Title, &content, &c.GeneratedContent, &c.Status,
		&c.CreatedBy, &c.AgreedBy, &c.CreatedAt, &c.AgreedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(content, &c.Content); err != nil {
		return nil, fmt.Errorf("decode contract %s content: %w", c.ID, err)
	}
	return &c, nil
}

func (r *ContractRepo) Create(ctx context.Context, c *models.Contract) error {
	content, err := json.Marshal(c.Content)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO contracts (template_type, title, content, generated_content, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, c.TemplateType, c.Title, content, c.GeneratedContent, c.Status, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *ContractRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	c, err := scanContract(r.pool.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

type ContractFilter struct {
	CreatedBy *uuid.UUID
	AgreedBy  *uuid.UUID
	Status    string
	Limit     int
	Offset    int
}

func (r *ContractRepo) List(ctx context.Context, f ContractFilter) ([]models.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.CreatedBy != nil {
		where = append(where, fmt.Sprintf("created_by = $%d", argIdx))
		args = append(args, *f.CreatedBy)
		argIdx++
	}
	if f.AgreedBy != nil {
		where = append(where, fmt.Sprintf("agreed_by = $%d", argIdx))
		args = append(args, *f.AgreedBy)
		argIdx++
	}
	if f.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, f.Status)
		argIdx++
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Respond moves a pending contract to status and, when escrow is non-nil,
// records the escrow transaction in the same database transaction. It returns
// ErrConflict when the contract was no longer pending.
func (r *ContractRepo) Respond(ctx context.Context, id, actorID uuid.UUID, status string, at time.Time, escrow *models.EscrowTransaction) (*models.Contract, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	c, err := scanContract(tx.QueryRow(ctx, `
		UPDATE contracts SET status = $2, agreed_by = $3, agreed_at = $4
		WHERE id = $1 AND status = 'pending'
		RETURNING `+contractColumns, id, status, actorID, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}

	if escrow != nil {
		escrow.ContractID = c.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO escrow_transactions (contract_id, amount, fee, status)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (contract_id) DO NOTHING
			RETURNING id, created_at, updated_at
		`, escrow.ContractID, escrow.Amount, escrow.Fee, escrow.Status,
		).Scan(&escrow.ID, &escrow.CreatedAt, &escrow.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConflict
		}
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
