package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RoleAdmin     = "admin"
	RoleBuyer     = "buyer"
	RoleSupplier  = "supplier"
	RoleArchitect = "architect"
)

// User represents a platform user account
type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	Name           string    `json:"name" db:"name"`
	Role           string    `json:"role" db:"role"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ValidRole reports whether role is one of the platform roles
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleBuyer, RoleSupplier, RoleArchitect:
		return true
	}
	return false
}
