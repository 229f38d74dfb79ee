package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hazzlo/hazzlo-server/internal/domain"
)

// ProfessionalFilter captures public search parameters.
type ProfessionalFilter struct {
	SearchTerm *string
	Location   *string
	CategoryID *string
	Verified   *bool
	Premium    *bool
	Limit      int
	Offset     int
}

// ProfessionalRepository encapsulates business-profile persistence.
type ProfessionalRepository interface {
	Create(ctx context.Context, prof *domain.Professional) error
	Update(ctx context.Context, prof *domain.Professional) error
	GetByID(ctx context.Context, id string) (*domain.Professional, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Professional, error)
	Search(ctx context.Context, filter ProfessionalFilter) ([]domain.Professional, error)
	List(ctx context.Context, limit, offset int) ([]domain.Professional, error)
	UpdateAggregate(ctx context.Context, id string, rating float64, reviewCount int) error
	Count(ctx context.Context) (int64, error)
	WithTx(tx pgx.Tx) ProfessionalRepository
}

type professionalRepository struct {
	db Querier
}

// NewProfessionalRepository instantiates repository.
func NewProfessionalRepository(db Querier) ProfessionalRepository {
	return &professionalRepository{db: db}
}

func (r *professionalRepository) WithTx(tx pgx.Tx) ProfessionalRepository {
	return &professionalRepository{db: tx}
}

const professionalColumns = `id, user_id, business_name, description, location, rating,
        review_count, is_verified, is_premium, is_banned, suspended_until, suspension_reason,
        created_at, updated_at`

func (r *professionalRepository) Create(ctx context.Context, prof *domain.Professional) error {
	const query = `
        INSERT INTO professionals (user_id, business_name, description, location)
        VALUES ($1,$2,$3,$4)
        RETURNING id, rating, review_count, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		prof.UserID,
		prof.BusinessName,
		prof.Description,
		prof.Location,
	).Scan(&prof.ID, &prof.Rating, &prof.ReviewCount, &prof.CreatedAt, &prof.UpdatedAt)
}

func (r *professionalRepository) Update(ctx context.Context, prof *domain.Professional) error {
	const query = `
        UPDATE professionals SET business_name=$1, description=$2, location=$3, rating=$4,
            review_count=$5, is_verified=$6, is_premium=$7, is_banned=$8, suspended_until=$9,
            suspension_reason=$10, updated_at=NOW()
        WHERE id=$11`

	cmd, err := r.db.Exec(ctx, query,
		prof.BusinessName,
		prof.Description,
		prof.Location,
		prof.Rating,
		prof.ReviewCount,
		prof.IsVerified,
		prof.IsPremium,
		prof.IsBanned,
		prof.SuspendedUntil,
		prof.SuspensionReason,
		prof.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateAggregate writes the derived rating fields without touching anything else.
func (r *professionalRepository) UpdateAggregate(ctx context.Context, id string, rating float64, reviewCount int) error {
	const query = `
        UPDATE professionals SET rating=$1, review_count=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.db.Exec(ctx, query, rating, reviewCount, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *professionalRepository) GetByID(ctx context.Context, id string) (*domain.Professional, error) {
	return r.fetchSingle(ctx, `SELECT `+professionalColumns+` FROM professionals WHERE id=$1`, id)
}

func (r *professionalRepository) GetByUserID(ctx context.Context, userID string) (*domain.Professional, error) {
	return r.fetchSingle(ctx, `SELECT `+professionalColumns+` FROM professionals WHERE user_id=$1`, userID)
}

func (r *professionalRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Professional, error) {
	var prof domain.Professional
	if err := scanProfessional(r.db.QueryRow(ctx, query, arg), &prof); err != nil {
		return nil, err
	}
	return &prof, nil
}

func (r *professionalRepository) Search(ctx context.Context, filter ProfessionalFilter) ([]domain.Professional, error) {
	base := `SELECT DISTINCT p.id, p.user_id, p.business_name, p.description, p.location, p.rating,
                    p.review_count, p.is_verified, p.is_premium, p.is_banned, p.suspended_until,
                    p.suspension_reason, p.created_at, p.updated_at
             FROM professionals p`
	clauses := []string{"p.is_banned = FALSE"}
	args := []any{}

	if filter.CategoryID != nil {
		base += ` JOIN services s ON s.professional_id = p.id`
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("s.category_id=$%d AND s.is_active", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(p.business_name) LIKE %s OR LOWER(COALESCE(p.description,'')) LIKE %s)", placeholder, placeholder))
	}
	if filter.Location != nil && strings.TrimSpace(*filter.Location) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Location))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(COALESCE(p.location,'')) LIKE $%d", len(args)))
	}
	if filter.Verified != nil {
		args = append(args, *filter.Verified)
		clauses = append(clauses, fmt.Sprintf("p.is_verified=$%d", len(args)))
	}
	if filter.Premium != nil {
		args = append(args, *filter.Premium)
		clauses = append(clauses, fmt.Sprintf("p.is_premium=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	// Premium profiles surface first, then best-rated.
	query := fmt.Sprintf(`%s WHERE %s ORDER BY p.is_premium DESC, p.rating DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Professional
	for rows.Next() {
		var prof domain.Professional
		if err := scanProfessional(rows, &prof); err != nil {
			return nil, err
		}
		result = append(result, prof)
	}
	return result, rows.Err()
}

// List returns all profiles including banned ones, for the admin console.
func (r *professionalRepository) List(ctx context.Context, limit, offset int) ([]domain.Professional, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+professionalColumns+` FROM professionals ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Professional
	for rows.Next() {
		var prof domain.Professional
		if err := scanProfessional(rows, &prof); err != nil {
			return nil, err
		}
		result = append(result, prof)
	}
	return result, rows.Err()
}

func (r *professionalRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM professionals`).Scan(&count)
	return count, err
}

func scanProfessional(row rowScanner, prof *domain.Professional) error {
	return row.Scan(
		&prof.ID,
		&prof.UserID,
		&prof.BusinessName,
		&prof.Description,
		&prof.Location,
		&prof.Rating,
		&prof.ReviewCount,
		&prof.IsVerified,
		&prof.IsPremium,
		&prof.IsBanned,
		&prof.SuspendedUntil,
		&prof.SuspensionReason,
		&prof.CreatedAt,
		&prof.UpdatedAt,
	)
}
