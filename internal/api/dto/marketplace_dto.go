package dto

import (
	"time"

	"github.com/hazzlo/hazzlo-server/internal/domain"
)

// ProfessionalResponse is the public profile shape.
type ProfessionalResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	BusinessName string     `json:"businessName"`
	Description  *string    `json:"description,omitempty"`
	Location     *string    `json:"location,omitempty"`
	Rating       float64    `json:"rating"`
	ReviewCount  int        `json:"reviewCount"`
	IsVerified   bool       `json:"isVerified"`
	IsPremium    bool       `json:"isPremium"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// NewProfessionalResponse maps a domain professional.
func NewProfessionalResponse(prof *domain.Professional) ProfessionalResponse {
	return ProfessionalResponse{
		ID:           prof.ID,
		UserID:       prof.UserID,
		BusinessName: prof.BusinessName,
		Description:  prof.Description,
		Location:     prof.Location,
		Rating:       prof.Rating,
		ReviewCount:  prof.ReviewCount,
		IsVerified:   prof.IsVerified,
		IsPremium:    prof.IsPremium,
		CreatedAt:    prof.CreatedAt,
	}
}

// UpdateProfileRequest payload for the owner-side profile edit.
type UpdateProfileRequest struct {
	BusinessName *string `json:"businessName"`
	Description  *string `json:"description"`
	Location     *string `json:"location"`
}

// CreateServiceRequest payload.
type CreateServiceRequest struct {
	CategoryID   string   `json:"categoryId"`
	Title        string   `json:"title"`
	Description  *string  `json:"description"`
	PriceFrom    *float64 `json:"priceFrom"`
	PriceTo      *float64 `json:"priceTo"`
	DurationMins *int     `json:"durationMins"`
	IsActive     *bool    `json:"isActive"`
}

// CreatePortfolioRequest payload.
type CreatePortfolioRequest struct {
	ImageURL string  `json:"imageUrl"`
	Caption  *string `json:"caption"`
}

// CreateCategoryRequest payload.
type CreateCategoryRequest struct {
	Name string  `json:"name"`
	Icon *string `json:"icon"`
}

// CreateReviewRequest payload.
type CreateReviewRequest struct {
	ProfessionalID string  `json:"professionalId"`
	Rating         int     `json:"rating"`
	Comment        *string `json:"comment"`
}

// CreateServiceRequestRequest payload for bookings.
type CreateServiceRequestRequest struct {
	ProfessionalID string     `json:"professionalId"`
	ServiceID      *string    `json:"serviceId"`
	Message        *string    `json:"message"`
	PreferredDate  *time.Time `json:"preferredDate"`
}

// CreateReportRequest payload.
type CreateReportRequest struct {
	ReportType  domain.ReportType `json:"reportType"`
	TargetID    string            `json:"targetId"`
	Reason      string            `json:"reason"`
	Description *string           `json:"description"`
}

// CreateVerificationRequest payload.
type CreateVerificationRequest struct {
	DocumentURL *string `json:"documentUrl"`
	Notes       *string `json:"notes"`
}
