package domain

import "time"

// UserType distinguishes clients from service providers.
type UserType string

const (
	UserTypeClient       UserType = "client"
	UserTypeProfessional UserType = "professional"
)

// User is the platform account. Accounts are never hard-deleted; bans and
// suspensions flip flags instead.
type User struct {
	ID               string
	Email            string
	PasswordHash     string
	FirstName        string
	LastName         string
	Phone            *string
	UserType         UserType
	IsAdmin          bool
	IsBanned         bool
	SuspendedUntil   *time.Time
	SuspensionReason *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Suspended reports whether the account is currently unusable, either through
// a permanent ban or an active temporary suspension.
func (u *User) Suspended(now time.Time) bool {
	if u.IsBanned {
		return true
	}
	return u.SuspendedUntil != nil && u.SuspendedUntil.After(now)
}

// FullName joins first and last name.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
