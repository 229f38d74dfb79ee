package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/hazzlo/hazzlo-server/internal/domain"
)

// AdminActionRepository persists the append-only audit log. There is no
// update or delete on purpose.
type AdminActionRepository interface {
	Create(ctx context.Context, action *domain.AdminAction) error
	List(ctx context.Context, limit, offset int) ([]domain.AdminAction, error)
	ListByTarget(ctx context.Context, targetType domain.AdminTargetType, targetID string) ([]domain.AdminAction, error)
	WithTx(tx pgx.Tx) AdminActionRepository
}

type adminActionRepository struct {
	db Querier
}

// NewAdminActionRepository instantiates repository.
func NewAdminActionRepository(db Querier) AdminActionRepository {
	return &adminActionRepository{db: db}
}

func (r *adminActionRepository) WithTx(tx pgx.Tx) AdminActionRepository {
	return &adminActionRepository{db: tx}
}

func (r *adminActionRepository) Create(ctx context.Context, action *domain.AdminAction) error {
	const query = `
        INSERT INTO admin_actions (admin_id, target_type, target_id, action, reason, details)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		action.AdminID,
		action.TargetType,
		action.TargetID,
		action.Action,
		action.Reason,
		action.Details,
	).Scan(&action.ID, &action.CreatedAt)
}

func (r *adminActionRepository) List(ctx context.Context, limit, offset int) ([]domain.AdminAction, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, admin_id, target_type, target_id, action, reason, details, created_at
         FROM admin_actions ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectActions(rows)
}

func (r *adminActionRepository) ListByTarget(ctx context.Context, targetType domain.AdminTargetType, targetID string) ([]domain.AdminAction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, admin_id, target_type, target_id, action, reason, details, created_at
         FROM admin_actions WHERE target_type=$1 AND target_id=$2 ORDER BY created_at DESC`,
		targetType, targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectActions(rows)
}

func collectActions(rows pgx.Rows) ([]domain.AdminAction, error) {
	var result []domain.AdminAction
	for rows.Next() {
		var action domain.AdminAction
		if err := rows.Scan(
			&action.ID,
			&action.AdminID,
			&action.TargetType,
			&action.TargetID,
			&action.Action,
			&action.Reason,
			&action.Details,
			&action.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, action)
	}
	return result, rows.Err()
}
