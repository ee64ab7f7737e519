package model

import (
	"errors"
	"time"
)

// User is an account allowed to use the API.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles. Owners can change the collection, viewers can only read it.
const (
	RoleOwner  = "owner"
	RoleViewer = "viewer"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

func roleRank(role string) int {
	switch role {
	case RoleOwner:
		return 2
	case RoleViewer:
		return 1
	}
	return 0
}

// RoleAtLeast reports whether role grants at least the access of minimum.
// Unknown roles never match.
func RoleAtLeast(role, minimum string) bool {
	have, want := roleRank(role), roleRank(minimum)
	return have > 0 && want > 0 && have >= want
}

// ValidRole reports whether role is a known role.
func ValidRole(role string) bool {
	return roleRank(role) > 0
}

// ErrPasswordTooShort is returned for passwords under MinPasswordLength bytes.
var ErrPasswordTooShort = errors.New("password must be at least 8 characters")

// ValidatePassword rejects passwords that are too short to accept.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
