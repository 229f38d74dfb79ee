package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/hazzlo/hazzlo-server/internal/domain"
)

// ServiceRequestRepository encapsulates booking-request persistence.
type ServiceRequestRepository interface {
	Create(ctx context.Context, req *domain.ServiceRequest) error
	Update(ctx context.Context, req *domain.ServiceRequest) error
	GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error)
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]domain.ServiceRequest, error)
	ListByProfessional(ctx context.Context, professionalID string, limit, offset int) ([]domain.ServiceRequest, error)
}

type serviceRequestRepository struct {
	db Querier
}

// NewServiceRequestRepository instantiates repository.
func NewServiceRequestRepository(db Querier) ServiceRequestRepository {
	return &serviceRequestRepository{db: db}
}

const requestColumns = `id, client_id, professional_id, service_id, message, preferred_date,
        status, created_at, updated_at`

func (r *serviceRequestRepository) Create(ctx context.Context, req *domain.ServiceRequest) error {
	const query = `
        INSERT INTO service_requests (client_id, professional_id, service_id, message, preferred_date, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		req.ClientID,
		req.ProfessionalID,
		req.ServiceID,
		req.Message,
		req.PreferredDate,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *serviceRequestRepository) Update(ctx context.Context, req *domain.ServiceRequest) error {
	const query = `
        UPDATE service_requests SET message=$1, preferred_date=$2, status=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.db.Exec(ctx, query,
		req.Message,
		req.PreferredDate,
		req.Status,
		req.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *serviceRequestRepository) GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	var req domain.ServiceRequest
	if err := scanRequest(r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM service_requests WHERE id=$1`, id), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *serviceRequestRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]domain.ServiceRequest, error) {
	return r.list(ctx, `client_id`, clientID, limit, offset)
}

func (r *serviceRequestRepository) ListByProfessional(ctx context.Context, professionalID string, limit, offset int) ([]domain.ServiceRequest, error) {
	return r.list(ctx, `professional_id`, professionalID, limit, offset)
}

func (r *serviceRequestRepository) list(ctx context.Context, column, id string, limit, offset int) ([]domain.ServiceRequest, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+requestColumns+` FROM service_requests WHERE `+column+`=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		id, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ServiceRequest
	for rows.Next() {
		var req domain.ServiceRequest
		if err := scanRequest(rows, &req); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

func scanRequest(row rowScanner, req *domain.ServiceRequest) error {
	return row.Scan(
		&req.ID,
		&req.ClientID,
		&req.ProfessionalID,
		&req.ServiceID,
		&req.Message,
		&req.PreferredDate,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
}
