package domain

import "time"

// Professional is the business profile extending a User 1:1.
// Rating and ReviewCount are derived aggregates: recomputed synchronously after
// every review insert or delete, never lazily.
type Professional struct {
	ID               string
	UserID           string
	BusinessName     string
	Description      *string
	Location         *string
	Rating           float64
	ReviewCount      int
	IsVerified       bool
	IsPremium        bool
	IsBanned         bool
	SuspendedUntil   *time.Time
	SuspensionReason *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PortfolioItem is an image attached to a professional profile.
type PortfolioItem struct {
	ID             string
	ProfessionalID string
	ImageURL       string
	Caption        *string
	CreatedAt      time.Time
}
