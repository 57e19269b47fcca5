//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	domainauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/auth"
)

const (
	maxUserNameLen  = 255
	maxUserEmailLen = 320
)

// User represents an application account. Role and Active are the
// authoritative authorization inputs; token claims never are.
type User struct {
	ID           string          `json:"id"            db:"id"`
	Email        string          `json:"email"         db:"email"`
	Name         string          `json:"name"          db:"name"`
	PasswordHash *string         `json:"-"             db:"password_hash"`
	Role         domainauth.Role `json:"role"          db:"role"`
	Active       bool            `json:"active"        db:"active"`
	CreatedAt    time.Time       `json:"created_at"    db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"    db:"updated_at"`
}

// CreateUserRequest represents parameters to create a User.
// PasswordHash is optional; OAuth-provisioned accounts have none.
type CreateUserRequest struct {
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	PasswordHash *string         `json:"-"`
	Role         domainauth.Role `json:"role,omitempty"`
}

// Validate validates CreateUserRequest and normalizes the email.
func (r *CreateUserRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" {
		return errors.New("email is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Email) > maxUserEmailLen {
		return errors.New("email cannot exceed 320 characters")
	}
	if !strings.Contains(r.Email, "@") {
		return errors.New("email must contain '@'")
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxUserNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if r.Role == "" {
		r.Role = domainauth.RoleUser
	}
	if !r.Role.Valid() {
		return errors.New("invalid role")
	}
	return nil
}

// UsersListOptions controls paging and filtering for listing users.
// Sort supports "created_at" and "email"; Dir supports "asc"/"desc".
type UsersListOptions struct {
	Limit  int
	Offset int
	Q      *string // substring match on email or name (ILIKE)
	Role   *domainauth.Role
	Active *bool
	Sort   string
	Dir    string
}
