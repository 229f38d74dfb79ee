package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/events"
	"github.com/hazzlo/hazzlo-server/internal/repository"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

// ReviewService manages client reviews and keeps the professional's rating
// aggregate in lockstep with the review rows.
type ReviewService struct {
	reviews       repository.ReviewRepository
	professionals repository.ProfessionalRepository
	tx            TxRunner
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewReviewService constructs the service.
func NewReviewService(
	reviews repository.ReviewRepository,
	professionals repository.ProfessionalRepository,
	tx TxRunner,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:       reviews,
		professionals: professionals,
		tx:            tx,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// Create inserts a review and recomputes the professional's aggregate in the
// same transaction, so rating and review_count never drift from the rows.
func (s *ReviewService) Create(ctx context.Context, clientID string, professionalID string, rating int, comment *string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("La calificación debe estar entre 1 y 5", nil)
	}
	prof, err := s.professionals.GetByID(ctx, professionalID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Profesional no encontrado")
		}
		return nil, apperrors.MapError(err)
	}
	if prof.UserID == clientID {
		return nil, apperrors.NewValidationError("No puedes reseñar tu propio perfil", nil)
	}

	review := &domain.Review{
		ProfessionalID: professionalID,
		ClientID:       clientID,
		Rating:         rating,
		Comment:        comment,
	}

	var newAverage float64
	var newCount int
	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		reviews := s.reviews.WithTx(tx)
		if err := reviews.Create(ctx, review); err != nil {
			return err
		}
		avg, count, err := reviews.Aggregate(ctx, professionalID)
		if err != nil {
			return err
		}
		newAverage, newCount = avg, count
		return s.professionals.WithTx(tx).UpdateAggregate(ctx, professionalID, avg, count)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:  events.EventReviewCreated,
		Actor: events.Actor{Type: domain.SubjectTypeUser, UserID: &clientID},
		Payload: events.ReviewPayload{
			ReviewID:        review.ID,
			ProfessionalID:  professionalID,
			RecipientUserID: prof.UserID,
			Rating:          rating,
			NewAverage:      newAverage,
			NewCount:        newCount,
		},
	})

	s.logger.Info("review created",
		zap.String("professional_id", professionalID),
		zap.Int("rating", rating),
		zap.Float64("new_average", newAverage))
	return review, nil
}

// ListByProfessional returns a profile's reviews, newest first.
func (s *ReviewService) ListByProfessional(ctx context.Context, professionalID string, limit, offset int) ([]domain.Review, error) {
	list, err := s.reviews.ListByProfessional(ctx, professionalID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}
