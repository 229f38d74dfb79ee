package repository

import (
	"context"
	"time"
)

// PasswordResetCode represents a stored reset code and its opaque token.
type PasswordResetCode struct {
	ID        string
	UserID    string
	Code      string
	Token     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// PasswordResetRepository manages password reset code persistence.
type PasswordResetRepository interface {
	Create(ctx context.Context, code *PasswordResetCode) error
	GetByToken(ctx context.Context, token string) (*PasswordResetCode, error)
	GetActiveByUser(ctx context.Context, userID string) (*PasswordResetCode, error)
	MarkUsed(ctx context.Context, id string) error
}

type passwordResetRepository struct {
	db Querier
}

// NewPasswordResetRepository constructs repository.
func NewPasswordResetRepository(db Querier) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, code *PasswordResetCode) error {
	const query = `
        INSERT INTO password_reset_codes (user_id, code, token, expires_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		code.UserID,
		code.Code,
		code.Token,
		code.ExpiresAt,
	).Scan(&code.ID, &code.CreatedAt)
}

func (r *passwordResetRepository) GetByToken(ctx context.Context, token string) (*PasswordResetCode, error) {
	const query = `
        SELECT id, user_id, code, token, expires_at, used_at, created_at
        FROM password_reset_codes WHERE token=$1`
	return r.fetchSingle(ctx, query, token)
}

func (r *passwordResetRepository) GetActiveByUser(ctx context.Context, userID string) (*PasswordResetCode, error) {
	const query = `
        SELECT id, user_id, code, token, expires_at, used_at, created_at
        FROM password_reset_codes
        WHERE user_id=$1 AND used_at IS NULL AND expires_at > NOW()
        ORDER BY created_at DESC LIMIT 1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *passwordResetRepository) fetchSingle(ctx context.Context, query string, arg any) (*PasswordResetCode, error) {
	var code PasswordResetCode
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&code.ID,
		&code.UserID,
		&code.Code,
		&code.Token,
		&code.ExpiresAt,
		&code.UsedAt,
		&code.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *passwordResetRepository) MarkUsed(ctx context.Context, id string) error {
	const query = `UPDATE password_reset_codes SET used_at=NOW() WHERE id=$1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
