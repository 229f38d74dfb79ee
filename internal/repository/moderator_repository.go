package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/hazzlo/hazzlo-server/internal/domain"
)

// ModeratorRepository defines persistence access for moderator accounts.
type ModeratorRepository interface {
	Create(ctx context.Context, mod *domain.Moderator) error
	Update(ctx context.Context, mod *domain.Moderator) error
	GetByID(ctx context.Context, id string) (*domain.Moderator, error)
	GetByEmail(ctx context.Context, email string) (*domain.Moderator, error)
	List(ctx context.Context) ([]domain.Moderator, error)
}

type moderatorRepository struct {
	db Querier
}

// NewModeratorRepository returns a Postgres-backed implementation.
func NewModeratorRepository(db Querier) ModeratorRepository {
	return &moderatorRepository{db: db}
}

const moderatorColumns = `id, name, email, password_hash, active, created_at, updated_at`

func (r *moderatorRepository) Create(ctx context.Context, mod *domain.Moderator) error {
	const query = `
        INSERT INTO moderators (name, email, password_hash, active)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		mod.Name,
		mod.Email,
		mod.PasswordHash,
		mod.Active,
	).Scan(&mod.ID, &mod.CreatedAt, &mod.UpdatedAt)
}

func (r *moderatorRepository) Update(ctx context.Context, mod *domain.Moderator) error {
	const query = `
        UPDATE moderators SET name=$1, email=$2, password_hash=$3, active=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.db.Exec(ctx, query,
		mod.Name,
		mod.Email,
		mod.PasswordHash,
		mod.Active,
		mod.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *moderatorRepository) GetByID(ctx context.Context, id string) (*domain.Moderator, error) {
	return r.fetchSingle(ctx, `SELECT `+moderatorColumns+` FROM moderators WHERE id=$1`, id)
}

func (r *moderatorRepository) GetByEmail(ctx context.Context, email string) (*domain.Moderator, error) {
	return r.fetchSingle(ctx, `SELECT `+moderatorColumns+` FROM moderators WHERE LOWER(email)=LOWER($1)`, email)
}

func (r *moderatorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Moderator, error) {
	var mod domain.Moderator
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&mod.ID,
		&mod.Name,
		&mod.Email,
		&mod.PasswordHash,
		&mod.Active,
		&mod.CreatedAt,
		&mod.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &mod, nil
}

func (r *moderatorRepository) List(ctx context.Context) ([]domain.Moderator, error) {
	rows, err := r.db.Query(ctx, `SELECT `+moderatorColumns+` FROM moderators ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Moderator
	for rows.Next() {
		var mod domain.Moderator
		if err := rows.Scan(&mod.ID, &mod.Name, &mod.Email, &mod.PasswordHash, &mod.Active, &mod.CreatedAt, &mod.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, mod)
	}
	return result, rows.Err()
}
