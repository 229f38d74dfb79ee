package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hazzlo/hazzlo-server/internal/domain"
)

// ReportRepository encapsulates abuse-report persistence.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	Update(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	List(ctx context.Context, status *domain.ReportStatus, limit, offset int) ([]domain.Report, error)
	CountByStatus(ctx context.Context, status domain.ReportStatus) (int64, error)
	WithTx(tx pgx.Tx) ReportRepository
}

type reportRepository struct {
	db Querier
}

// NewReportRepository instantiates repository.
func NewReportRepository(db Querier) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) WithTx(tx pgx.Tx) ReportRepository {
	return &reportRepository{db: tx}
}

const reportColumns = `id, reporter_id, report_type, target_id, reason, description, status,
        resolution, created_at, updated_at`

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO reports (reporter_id, report_type, target_id, reason, description, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		report.ReporterID,
		report.ReportType,
		report.TargetID,
		report.Reason,
		report.Description,
		report.Status,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
}

func (r *reportRepository) Update(ctx context.Context, report *domain.Report) error {
	const query = `
        UPDATE reports SET status=$1, resolution=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.db.Exec(ctx, query, report.Status, report.Resolution, report.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	var report domain.Report
	if err := scanReport(r.db.QueryRow(ctx, `SELECT `+reportColumns+` FROM reports WHERE id=$1`, id), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, status *domain.ReportStatus, limit, offset int) ([]domain.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + reportColumns + ` FROM reports`
	args := []any{}
	if status != nil {
		query += ` WHERE status=$1`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Report
	for rows.Next() {
		var report domain.Report
		if err := scanReport(rows, &report); err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, rows.Err()
}

func (r *reportRepository) CountByStatus(ctx context.Context, status domain.ReportStatus) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reports WHERE status=$1`, status).Scan(&count)
	return count, err
}

func scanReport(row rowScanner, report *domain.Report) error {
	return row.Scan(
		&report.ID,
		&report.ReporterID,
		&report.ReportType,
		&report.TargetID,
		&report.Reason,
		&report.Description,
		&report.Status,
		&report.Resolution,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
}