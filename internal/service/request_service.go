package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/events"
	"github.com/hazzlo/hazzlo-server/internal/repository"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

// requestTransitions is the booking state machine. Anything not listed is a
// conflict.
var requestTransitions = map[domain.ServiceRequestStatus][]domain.ServiceRequestStatus{
	domain.RequestStatusPending:  {domain.RequestStatusAccepted, domain.RequestStatusDeclined, domain.RequestStatusCancelled},
	domain.RequestStatusAccepted: {domain.RequestStatusCompleted, domain.RequestStatusCancelled},
}

// RequestInput carries booking creation fields.
type RequestInput struct {
	ProfessionalID string
	ServiceID      *string
	Message        *string
	PreferredDate  *time.Time
}

// RequestService manages the booking lifecycle between clients and
// professionals.
type RequestService struct {
	requests      repository.ServiceRequestRepository
	professionals repository.ProfessionalRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewRequestService constructs the service.
func NewRequestService(
	requests repository.ServiceRequestRepository,
	professionals repository.ProfessionalRepository,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requests:      requests,
		professionals: professionals,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// Create opens a pending booking request towards a professional.
func (s *RequestService) Create(ctx context.Context, clientID string, input RequestInput) (*domain.ServiceRequest, error) {
	prof, err := s.professionals.GetByID(ctx, input.ProfessionalID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Profesional no encontrado")
		}
		return nil, apperrors.MapError(err)
	}
	if prof.UserID == clientID {
		return nil, apperrors.NewValidationError("No puedes solicitarte un servicio a ti mismo", nil)
	}

	req := &domain.ServiceRequest{
		ClientID:       clientID,
		ProfessionalID: input.ProfessionalID,
		ServiceID:      input.ServiceID,
		Message:        input.Message,
		PreferredDate:  input.PreferredDate,
		Status:         domain.RequestStatusPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:  events.EventRequestCreated,
		Actor: events.Actor{Type: domain.SubjectTypeUser, UserID: &clientID},
		Payload: events.RequestPayload{
			RequestID:       req.ID,
			ClientID:        clientID,
			ProfessionalID:  req.ProfessionalID,
			RecipientUserID: prof.UserID,
			NewStatus:       req.Status,
		},
	})

	s.logger.Info("service request created",
		zap.String("request_id", req.ID),
		zap.String("professional_id", req.ProfessionalID))
	return req, nil
}

// Transition moves a booking to a new status. Accept, decline and complete
// belong to the owning professional; cancel belongs to the client. A target
// the state machine doesn't allow is a 409.
func (s *RequestService) Transition(ctx context.Context, actorUserID, requestID string, target domain.ServiceRequestStatus) (*domain.ServiceRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Solicitud no encontrada")
		}
		return nil, apperrors.MapError(err)
	}

	prof, err := s.professionals.GetByID(ctx, req.ProfessionalID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	var recipientUserID string
	switch target {
	case domain.RequestStatusAccepted, domain.RequestStatusDeclined, domain.RequestStatusCompleted:
		if actorUserID != prof.UserID {
			return nil, apperrors.NewForbidden("Solo el profesional puede actualizar esta solicitud")
		}
		recipientUserID = req.ClientID
	case domain.RequestStatusCancelled:
		if actorUserID != req.ClientID {
			return nil, apperrors.NewForbidden("Solo el cliente puede cancelar esta solicitud")
		}
		recipientUserID = prof.UserID
	default:
		return nil, apperrors.NewValidationError("Estado inválido", nil)
	}

	if !transitionAllowed(req.Status, target) {
		return nil, apperrors.NewConflict("La solicitud no admite esta transición", map[string]any{
			"current": req.Status,
			"target":  target,
		})
	}

	oldStatus := req.Status
	req.Status = target
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:  events.EventRequestStatusChanged,
		Actor: events.Actor{Type: domain.SubjectTypeUser, UserID: &actorUserID},
		Payload: events.RequestPayload{
			RequestID:       req.ID,
			ClientID:        req.ClientID,
			ProfessionalID:  req.ProfessionalID,
			RecipientUserID: recipientUserID,
			OldStatus:       oldStatus,
			NewStatus:       target,
		},
	})

	s.logger.Info("service request transition",
		zap.String("request_id", req.ID),
		zap.String("from", string(oldStatus)),
		zap.String("to", string(target)))
	return req, nil
}

// ListForUser returns requests where the user is either side. Professionals
// see their inbox; clients see what they asked for.
func (s *RequestService) ListForUser(ctx context.Context, user *domain.User, limit, offset int) ([]domain.ServiceRequest, error) {
	if user.UserType == domain.UserTypeProfessional {
		prof, err := s.professionals.GetByUserID(ctx, user.ID)
		if err == nil {
			list, err := s.requests.ListByProfessional(ctx, prof.ID, limit, offset)
			if err != nil {
				return nil, apperrors.MapError(err)
			}
			return list, nil
		}
		if err != pgx.ErrNoRows {
			return nil, apperrors.MapError(err)
		}
	}
	list, err := s.requests.ListByClient(ctx, user.ID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

func transitionAllowed(from, to domain.ServiceRequestStatus) bool {
	for _, allowed := range requestTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
