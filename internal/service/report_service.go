package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/events"
	"github.com/hazzlo/hazzlo-server/internal/repository"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

// ReportInput carries the fields of a new abuse report.
type ReportInput struct {
	ReportType  domain.ReportType
	TargetID    string
	Reason      string
	Description *string
}

// ReportService files user reports. Status transitions are admin territory
// and live in AdminService.
type ReportService struct {
	reports       repository.ReportRepository
	professionals repository.ProfessionalRepository
	conversations repository.ConversationRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(
	reports repository.ReportRepository,
	professionals repository.ProfessionalRepository,
	conversations repository.ConversationRepository,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reports:       reports,
		professionals: professionals,
		conversations: conversations,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// File creates a pending report after checking the target exists.
func (s *ReportService) File(ctx context.Context, reporterID string, input ReportInput) (*domain.Report, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, apperrors.NewValidationError("Motivo requerido", nil)
	}

	switch input.ReportType {
	case domain.ReportTypeProfessionalProfile:
		if _, err := s.professionals.GetByID(ctx, input.TargetID); err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("Profesional no encontrado")
			}
			return nil, apperrors.MapError(err)
		}
	case domain.ReportTypeChatConversation:
		conv, err := s.conversations.GetByID(ctx, input.TargetID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("Conversación no encontrada")
			}
			return nil, apperrors.MapError(err)
		}
		if conv.ClientID != reporterID && conv.ProfessionalID != reporterID {
			return nil, apperrors.NewForbidden("Solo puedes reportar tus propias conversaciones")
		}
	default:
		return nil, apperrors.NewValidationError("Tipo de reporte inválido", nil)
	}

	report := &domain.Report{
		ReporterID:  reporterID,
		ReportType:  input.ReportType,
		TargetID:    input.TargetID,
		Reason:      strings.TrimSpace(input.Reason),
		Description: input.Description,
		Status:      domain.ReportStatusPending,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperrors.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:  events.EventReportFiled,
		Actor: events.Actor{Type: domain.SubjectTypeUser, UserID: &reporterID},
		Payload: events.ReportPayload{
			ReportID:   report.ID,
			ReportType: report.ReportType,
			TargetID:   report.TargetID,
		},
	})

	s.logger.Info("report filed",
		zap.String("report_id", report.ID),
		zap.String("report_type", string(report.ReportType)))
	return report, nil
}
