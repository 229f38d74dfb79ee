package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/hazzlo/hazzlo-server/internal/domain"
)

// VerificationRepository manages verified-badge applications.
type VerificationRepository interface {
	Create(ctx context.Context, req *domain.VerificationRequest) error
	Update(ctx context.Context, req *domain.VerificationRequest) error
	GetByID(ctx context.Context, id string) (*domain.VerificationRequest, error)
	GetPendingByProfessional(ctx context.Context, professionalID string) (*domain.VerificationRequest, error)
	List(ctx context.Context, status *domain.VerificationStatus, limit, offset int) ([]domain.VerificationRequest, error)
	WithTx(tx pgx.Tx) VerificationRepository
}

type verificationRepository struct {
	db Querier
}

// NewVerificationRepository instantiates repository.
func NewVerificationRepository(db Querier) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) WithTx(tx pgx.Tx) VerificationRepository {
	return &verificationRepository{db: tx}
}

const verificationColumns = `id, professional_id, document_url, notes, status, reviewed_by,
        created_at, updated_at`

func (r *verificationRepository) Create(ctx context.Context, req *domain.VerificationRequest) error {
	const query = `
        INSERT INTO verification_requests (professional_id, document_url, notes, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		req.ProfessionalID,
		req.DocumentURL,
		req.Notes,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *verificationRepository) Update(ctx context.Context, req *domain.VerificationRequest) error {
	const query = `
        UPDATE verification_requests SET status=$1, reviewed_by=$2, notes=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.db.Exec(ctx, query, req.Status, req.ReviewedBy, req.Notes, req.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *verificationRepository) GetByID(ctx context.Context, id string) (*domain.VerificationRequest, error) {
	return r.fetchSingle(ctx, `SELECT `+verificationColumns+` FROM verification_requests WHERE id=$1`, id)
}

func (r *verificationRepository) GetPendingByProfessional(ctx context.Context, professionalID string) (*domain.VerificationRequest, error) {
	return r.fetchSingle(ctx,
		`SELECT `+verificationColumns+` FROM verification_requests WHERE professional_id=$1 AND status='pending'`,
		professionalID)
}

func (r *verificationRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.VerificationRequest, error) {
	var req domain.VerificationRequest
	if err := scanVerification(r.db.QueryRow(ctx, query, arg), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *verificationRepository) List(ctx context.Context, status *domain.VerificationStatus, limit, offset int) ([]domain.VerificationRequest, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + verificationColumns + ` FROM verification_requests`
	args := []any{}
	if status != nil {
		query += ` WHERE status=$1`
		args = append(args, *status)
	}
	args = append(args, limit, offset)
	if status != nil {
		query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.VerificationRequest
	for rows.Next() {
		var req domain.VerificationRequest
		if err := scanVerification(rows, &req); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

func scanVerification(row rowScanner, req *domain.VerificationRequest) error {
	return row.Scan(
		&req.ID,
		&req.ProfessionalID,
		&req.DocumentURL,
		&req.Notes,
		&req.Status,
		&req.ReviewedBy,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
}
