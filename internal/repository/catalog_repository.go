package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/hazzlo/hazzlo-server/internal/domain"
)

// CategoryRepository manages service categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type categoryRepository struct {
	db Querier
}

// NewCategoryRepository instantiates repository.
func NewCategoryRepository(db Querier) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (name, slug, icon)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		category.Name,
		category.Slug,
		category.Icon,
	).Scan(&category.ID, &category.CreatedAt)
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	const query = `SELECT id, name, slug, icon, created_at FROM categories WHERE id=$1`
	var category domain.Category
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Icon,
		&category.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug, icon, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.Icon, &category.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

// ServiceRepository encapsulates service offerings.
type ServiceRepository interface {
	Create(ctx context.Context, svc *domain.Service) error
	Update(ctx context.Context, svc *domain.Service) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	ListByProfessional(ctx context.Context, professionalID string) ([]domain.Service, error)
	ListByCategory(ctx context.Context, categoryID string, limit, offset int) ([]domain.Service, error)
}

type serviceRepository struct {
	db Querier
}

// NewServiceRepository instantiates repository.
func NewServiceRepository(db Querier) ServiceRepository {
	return &serviceRepository{db: db}
}

const serviceColumns = `id, professional_id, category_id, title, description, price_from,
        price_to, duration_mins, is_active, created_at, updated_at`

func (r *serviceRepository) Create(ctx context.Context, svc *domain.Service) error {
	const query = `
        INSERT INTO services (professional_id, category_id, title, description, price_from, price_to, duration_mins, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		svc.ProfessionalID,
		svc.CategoryID,
		svc.Title,
		svc.Description,
		svc.PriceFrom,
		svc.PriceTo,
		svc.DurationMins,
		svc.IsActive,
	).Scan(&svc.ID, &svc.CreatedAt, &svc.UpdatedAt)
}

func (r *serviceRepository) Update(ctx context.Context, svc *domain.Service) error {
	const query = `
        UPDATE services SET category_id=$1, title=$2, description=$3, price_from=$4, price_to=$5,
            duration_mins=$6, is_active=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.db.Exec(ctx, query,
		svc.CategoryID,
		svc.Title,
		svc.Description,
		svc.PriceFrom,
		svc.PriceTo,
		svc.DurationMins,
		svc.IsActive,
		svc.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM services WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	var svc domain.Service
	if err := scanService(r.db.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id=$1`, id), &svc); err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *serviceRepository) ListByProfessional(ctx context.Context, professionalID string) ([]domain.Service, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE professional_id=$1 ORDER BY created_at DESC`,
		professionalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectServices(rows)
}

func (r *serviceRepository) ListByCategory(ctx context.Context, categoryID string, limit, offset int) ([]domain.Service, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE category_id=$1 AND is_active ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		categoryID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectServices(rows)
}

func collectServices(rows pgx.Rows) ([]domain.Service, error) {
	var result []domain.Service
	for rows.Next() {
		var svc domain.Service
		if err := scanService(rows, &svc); err != nil {
			return nil, err
		}
		result = append(result, svc)
	}
	return result, rows.Err()
}

func scanService(row rowScanner, svc *domain.Service) error {
	return row.Scan(
		&svc.ID,
		&svc.ProfessionalID,
		&svc.CategoryID,
		&svc.Title,
		&svc.Description,
		&svc.PriceFrom,
		&svc.PriceTo,
		&svc.DurationMins,
		&svc.IsActive,
		&svc.CreatedAt,
		&svc.UpdatedAt,
	)
}

// PortfolioRepository manages portfolio images.
type PortfolioRepository interface {
	Create(ctx context.Context, item *domain.PortfolioItem) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.PortfolioItem, error)
	ListByProfessional(ctx context.Context, professionalID string) ([]domain.PortfolioItem, error)
}

type portfolioRepository struct {
	db Querier
}

// NewPortfolioRepository instantiates repository.
func NewPortfolioRepository(db Querier) PortfolioRepository {
	return &portfolioRepository{db: db}
}

func (r *portfolioRepository) Create(ctx context.Context, item *domain.PortfolioItem) error {
	const query = `
        INSERT INTO portfolio_items (professional_id, image_url, caption)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		item.ProfessionalID,
		item.ImageURL,
		item.Caption,
	).Scan(&item.ID, &item.CreatedAt)
}

func (r *portfolioRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM portfolio_items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *portfolioRepository) GetByID(ctx context.Context, id string) (*domain.PortfolioItem, error) {
	const query = `SELECT id, professional_id, image_url, caption, created_at FROM portfolio_items WHERE id=$1`
	var item domain.PortfolioItem
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.ProfessionalID,
		&item.ImageURL,
		&item.Caption,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *portfolioRepository) ListByProfessional(ctx context.Context, professionalID string) ([]domain.PortfolioItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, professional_id, image_url, caption, created_at FROM portfolio_items WHERE professional_id=$1 ORDER BY created_at DESC`,
		professionalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PortfolioItem
	for rows.Next() {
		var item domain.PortfolioItem
		if err := rows.Scan(&item.ID, &item.ProfessionalID, &item.ImageURL, &item.Caption, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
