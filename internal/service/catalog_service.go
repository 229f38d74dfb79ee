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

// ServiceInput carries create/update fields for a service offering.
type ServiceInput struct {
	CategoryID   string
	Title        string
	Description  *string
	PriceFrom    *float64
	PriceTo      *float64
	DurationMins *int
	IsActive     *bool
}

// CatalogService manages categories and the service offerings under them.
type CatalogService struct {
	categories    repository.CategoryRepository
	services      repository.ServiceRepository
	professionals repository.ProfessionalRepository
	logger        *zap.Logger
}

// NewCatalogService constructs the service.
func NewCatalogService(
	categories repository.CategoryRepository,
	services repository.ServiceRepository,
	professionals repository.ProfessionalRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		categories:    categories,
		services:      services,
		professionals: professionals,
		logger:        logger,
	}
}

// ListCategories returns all browse categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	list, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// CreateCategory adds a browse category. Admin-only at the route layer.
func (s *CatalogService) CreateCategory(ctx context.Context, name string, icon *string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("Nombre de categoría requerido", nil)
	}
	category := &domain.Category{
		Name: name,
		Slug: slugify(name),
		Icon: icon,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// CreateService adds an offering to the caller's profile.
func (s *CatalogService) CreateService(ctx context.Context, userID string, input ServiceInput) (*domain.Service, error) {
	if err := validateServiceInput(input); err != nil {
		return nil, err
	}
	prof, err := s.ownerProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Categoría no encontrada")
		}
		return nil, apperrors.MapError(err)
	}

	svc := &domain.Service{
		ProfessionalID: prof.ID,
		CategoryID:     input.CategoryID,
		Title:          strings.TrimSpace(input.Title),
		Description:    input.Description,
		PriceFrom:      input.PriceFrom,
		PriceTo:        input.PriceTo,
		DurationMins:   input.DurationMins,
		IsActive:       true,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, apperrors.MapError(err)
	}
	return svc, nil
}

// UpdateService edits an offering owned by the caller.
func (s *CatalogService) UpdateService(ctx context.Context, userID, serviceID string, input ServiceInput) (*domain.Service, error) {
	svc, err := s.ownedService(ctx, userID, serviceID)
	if err != nil {
		return nil, err
	}
	return s.applyServiceUpdate(ctx, svc, input)
}

// AdminUpdateService edits any offering regardless of owner, backing the
// typed admin console endpoint.
func (s *CatalogService) AdminUpdateService(ctx context.Context, serviceID string, input ServiceInput) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Servicio no encontrado")
		}
		return nil, apperrors.MapError(err)
	}
	return s.applyServiceUpdate(ctx, svc, input)
}

func (s *CatalogService) applyServiceUpdate(ctx context.Context, svc *domain.Service, input ServiceInput) (*domain.Service, error) {
	if input.Title != "" {
		svc.Title = strings.TrimSpace(input.Title)
	}
	if input.CategoryID != "" && input.CategoryID != svc.CategoryID {
		if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("Categoría no encontrada")
			}
			return nil, apperrors.MapError(err)
		}
		svc.CategoryID = input.CategoryID
	}
	if input.Description != nil {
		svc.Description = input.Description
	}
	if input.PriceFrom != nil {
		svc.PriceFrom = input.PriceFrom
	}
	if input.PriceTo != nil {
		svc.PriceTo = input.PriceTo
	}
	if input.DurationMins != nil {
		svc.DurationMins = input.DurationMins
	}
	if input.IsActive != nil {
		svc.IsActive = *input.IsActive
	}
	if err := s.services.Update(ctx, svc); err != nil {
		return nil, apperrors.MapError(err)
	}
	return svc, nil
}

// DeleteService removes an offering owned by the caller.
func (s *CatalogService) DeleteService(ctx context.Context, userID, serviceID string) error {
	if _, err := s.ownedService(ctx, userID, serviceID); err != nil {
		return err
	}
	if err := s.services.Delete(ctx, serviceID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListByProfessional returns a profile's offerings.
func (s *CatalogService) ListByProfessional(ctx context.Context, professionalID string) ([]domain.Service, error) {
	list, err := s.services.ListByProfessional(ctx, professionalID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListByCategory returns active offerings in a category.
func (s *CatalogService) ListByCategory(ctx context.Context, categoryID string, limit, offset int) ([]domain.Service, error) {
	list, err := s.services.ListByCategory(ctx, categoryID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

func (s *CatalogService) ownerProfile(ctx context.Context, userID string) (*domain.Professional, error) {
	prof, err := s.professionals.GetByUserID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewForbidden("Se requiere un perfil profesional")
		}
		return nil, apperrors.MapError(err)
	}
	return prof, nil
}

func (s *CatalogService) ownedService(ctx context.Context, userID, serviceID string) (*domain.Service, error) {
	prof, err := s.ownerProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("Servicio no encontrado")
		}
		return nil, apperrors.MapError(err)
	}
	if svc.ProfessionalID != prof.ID {
		return nil, apperrors.NewForbidden("No puedes modificar este servicio")
	}
	return svc, nil
}

func validateServiceInput(input ServiceInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return apperrors.NewValidationError("Título requerido", nil)
	}
	if input.CategoryID == "" {
		return apperrors.NewValidationError("Categoría requerida", nil)
	}
	if input.PriceFrom != nil && input.PriceTo != nil && *input.PriceTo < *input.PriceFrom {
		return apperrors.NewValidationError("Rango de precios inválido", nil)
	}
	return nil
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer(
		" ", "-",
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n",
	)
	return replacer.Replace(slug)
}
