package dto

import (
	"time"

	"github.com/hazzlo/hazzlo-server/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Email        string          `json:"email"`
	Password     string          `json:"password"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Phone        *string         `json:"phone"`
	UserType     domain.UserType `json:"userType"`
	BusinessName string          `json:"businessName"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordResetRequest payload.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// VerifyResetCodeRequest payload.
type VerifyResetCodeRequest struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}

// ResetPasswordRequest payload.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// UserResponse is the account shape returned to clients. The password hash
// never leaves the server.
type UserResponse struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Phone          *string         `json:"phone,omitempty"`
	UserType       domain.UserType `json:"userType"`
	IsAdmin        bool            `json:"isAdmin"`
	IsBanned       bool            `json:"isBanned"`
	SuspendedUntil *time.Time      `json:"suspendedUntil,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// SessionResponse bundles a token with its principal.
type SessionResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	User      *UserResponse      `json:"user,omitempty"`
	Moderator *ModeratorResponse `json:"moderator,omitempty"`
}

// ModeratorResponse is the moderator account shape.
type ModeratorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Phone:          user.Phone,
		UserType:       user.UserType,
		IsAdmin:        user.IsAdmin,
		IsBanned:       user.IsBanned,
		SuspendedUntil: user.SuspendedUntil,
		CreatedAt:      user.CreatedAt,
	}
}

// NewModeratorResponse maps a domain moderator.
func NewModeratorResponse(mod *domain.Moderator) *ModeratorResponse {
	if mod == nil {
		return nil
	}
	return &ModeratorResponse{
		ID:        mod.ID,
		Name:      mod.Name,
		Email:     mod.Email,
		Active:    mod.Active,
		CreatedAt: mod.CreatedAt,
	}
}
