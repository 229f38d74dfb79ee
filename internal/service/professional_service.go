package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hazzlo/hazzlo-server/internal/domain"
	"github.com/hazzlo/hazzlo-server/internal/repository"
	apperrors "github.com/hazzlo/hazzlo-server/pkg/util/errorutil"
)

// ProfileUpdateInput carries the fields a professional may edit on their own
// profile.
type ProfileUpdateInput struct {
	BusinessName *string
	Description  *string
	Location     *string
}

// ProfessionalService exposes public profile search plus owner-side profile,
// portfolio and verification management.
type ProfessionalService struct {
	professionals repository.ProfessionalRepository
	portfolio     repository.PortfolioRepository
	verifications repository.VerificationRepository
	logger        *zap.Logger
}

// NewProfessionalService constructs the service.
func NewProfessionalService(
	professionals repository.ProfessionalRepository,
	portfolio repository.PortfolioRepository,
	verifications repository.VerificationRepository,
	logger *zap.Logger,
) *ProfessionalService {
	return &ProfessionalService{
		professionals: professionals,
		portfolio:     portfolio,
		verifications: verifications,
		logger:        logger,
	}
}

// Get returns a professional profile by id.
func (s *ProfessionalService) Get(ctx context.Context, id string) (*domain.Professional, error) {
	prof, err := s.professionals.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Profesional no encontrado")
		}
		return nil, apperrors.MapError(err)
	}
	return prof, nil
}

// GetByUser resolves the profile owned by a platform account.
func (s *ProfessionalService) GetByUser(ctx context.Context, userID string) (*domain.Professional, error) {
	prof, err := s.professionals.GetByUserID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Perfil profesional no encontrado")
		}
		return nil, apperrors.MapError(err)
	}
	return prof, nil
}

// Search runs the public directory search. Banned profiles are excluded at
// the query level; premium profiles rank first.
func (s *ProfessionalService) Search(ctx context.Context, filter repository.ProfessionalFilter) ([]domain.Professional, error) {
	result, err := s.professionals.Search(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// UpdateOwn edits the caller's own profile.
func (s *ProfessionalService) UpdateOwn(ctx context.Context, userID string, input ProfileUpdateInput) (*domain.Professional, error) {
	prof, err := s.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.BusinessName != nil {
		name := strings.TrimSpace(*input.BusinessName)
		if name == "" {
			return nil, apperrors.NewValidationError("Nombre del negocio requerido", nil)
		}
		prof.BusinessName = name
	}
	if input.Description != nil {
		prof.Description = input.Description
	}
	if input.Location != nil {
		prof.Location = input.Location
	}
	if err := s.professionals.Update(ctx, prof); err != nil {
		return nil, apperrors.MapError(err)
	}
	return prof, nil
}

// AddPortfolioItem attaches an image to the caller's profile.
func (s *ProfessionalService) AddPortfolioItem(ctx context.Context, userID, imageURL string, caption *string) (*domain.PortfolioItem, error) {
	if strings.TrimSpace(imageURL) == "" {
		return nil, apperrors.NewValidationError("URL de imagen requerida", nil)
	}
	prof, err := s.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	item := &domain.PortfolioItem{
		ProfessionalID: prof.ID,
		ImageURL:       imageURL,
		Caption:        caption,
	}
	if err := s.portfolio.Create(ctx, item); err != nil {
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

// DeletePortfolioItem removes an image. Only the owner may delete.
func (s *ProfessionalService) DeletePortfolioItem(ctx context.Context, userID, itemID string) error {
	prof, err := s.GetByUser(ctx, userID)
	if err != nil {
		return err
	}
	item, err := s.portfolio.GetByID(ctx, itemID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("Imagen no encontrada")
		}
		return apperrors.MapError(err)
	}
	if item.ProfessionalID != prof.ID {
		return apperrors.NewForbidden("No puedes modificar este portafolio")
	}
	if err := s.portfolio.Delete(ctx, itemID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListPortfolio returns a profile's images.
func (s *ProfessionalService) ListPortfolio(ctx context.Context, professionalID string) ([]domain.PortfolioItem, error) {
	items, err := s.portfolio.ListByProfessional(ctx, professionalID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// SubmitVerification opens a verified-badge application. One pending
// application per profile.
func (s *ProfessionalService) SubmitVerification(ctx context.Context, userID string, documentURL, notes *string) (*domain.VerificationRequest, error) {
	prof, err := s.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prof.IsVerified {
		return nil, apperrors.NewConflict("El perfil ya está verificado", nil)
	}
	if _, err := s.verifications.GetPendingByProfessional(ctx, prof.ID); err == nil {
		return nil, apperrors.NewConflict("Ya existe una solicitud pendiente", nil)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	req := &domain.VerificationRequest{
		ProfessionalID: prof.ID,
		DocumentURL:    documentURL,
		Notes:          notes,
		Status:         domain.VerificationPending,
	}
	if err := s.verifications.Create(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("verification requested", zap.String("professional_id", prof.ID))
	return req, nil
}
