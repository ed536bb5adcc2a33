package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shokulab/backend/internal/models"
)

const auditColumns = `id, actor_user_id, actor_type, action, entity_type, entity_id, meta, created_at`

// AuditRepo appends to audit_log. Rows are never updated or deleted.
type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Log appends one entry. Entries without meta are stored with an empty object.
func (r *AuditRepo) Log(ctx context.Context, entry models.AuditLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_log (actor_user_id, actor_type, action, entity_type, entity_id, meta)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6::jsonb, '{}'::jsonb))
	`, entry.ActorUserID, entry.ActorType, entry.Action, entry.EntityType, entry.EntityID, entry.Meta)
	return err
}

// ContractTrail lists a contract's entries oldest first, so the trail reads as
// created, then answered, then the escrow outcome and reminders.
func (r *AuditRepo) ContractTrail(ctx context.Context, contractID uuid.UUID, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+auditColumns+`
		FROM audit_log
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at ASC, id ASC
		LIMIT $3
	`, models.EntityContract, contractID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trail := []models.AuditLog{}
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.ActorUserID, &l.ActorType, &l.Action, &l.EntityType, &l.EntityID, &l.Meta, &l.CreatedAt); err != nil {
			return nil, err
		}
		trail = append(trail, l)
	}
	return trail, rows.Err()
}
