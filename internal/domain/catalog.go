package domain

import "time"

// Category groups services for browsing.
type Category struct {
	ID        string
	Name      string
	Slug      string
	Icon      *string
	CreatedAt time.Time
}

// Service is an offering that belongs to exactly one professional and one
// category. Active state toggles independently of deletion.
type Service struct {
	ID             string
	ProfessionalID string
	CategoryID     string
	Title          string
	Description    *string
	PriceFrom      *float64
	PriceTo        *float64
	DurationMins   *int
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
