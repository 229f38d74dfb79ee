package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/hazzlo/hazzlo-server/internal/domain"
)

// ReviewRepository encapsulates review persistence.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	ListByProfessional(ctx context.Context, professionalID string, limit, offset int) ([]domain.Review, error)
	Aggregate(ctx context.Context, professionalID string) (rating float64, count int, err error)
	WithTx(tx pgx.Tx) ReviewRepository
}

type reviewRepository struct {
	db Querier
}

// NewReviewRepository instantiates repository.
func NewReviewRepository(db Querier) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) WithTx(tx pgx.Tx) ReviewRepository {
	return &reviewRepository{db: tx}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	const query = `
        INSERT INTO reviews (professional_id, client_id, rating, comment)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		review.ProfessionalID,
		review.ClientID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	const query = `SELECT id, professional_id, client_id, rating, comment, created_at FROM reviews WHERE id=$1`
	var review domain.Review
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.ProfessionalID,
		&review.ClientID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListByProfessional(ctx context.Context, professionalID string, limit, offset int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, professional_id, client_id, rating, comment, created_at
         FROM reviews WHERE professional_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		professionalID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Review
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(&review.ID, &review.ProfessionalID, &review.ClientID, &review.Rating, &review.Comment, &review.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, review)
	}
	return result, rows.Err()
}

// Aggregate computes the true average rating and count for a professional.
func (r *reviewRepository) Aggregate(ctx context.Context, professionalID string) (float64, int, error) {
	const query = `SELECT COALESCE(AVG(rating),0), COUNT(*) FROM reviews WHERE professional_id=$1`
	var rating float64
	var count int
	if err := r.db.QueryRow(ctx, query, professionalID).Scan(&rating, &count); err != nil {
		return 0, 0, err
	}
	return rating, count, nil
}
