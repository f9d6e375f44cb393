package users

import (
	"fmt"
	"time"

	"github.com/vertice-pos/vertice-pos/internal/shared"
)

// User is one operator account. The password hash never leaves the package
// through JSON.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        *string    `json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	Phone        *string    `json:"phone,omitempty"`
	Active       bool       `json:"active"`
	Verified     bool       `json:"verified"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateInput describes an account to register.
type CreateInput struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Phone    *string `json:"phone,omitempty"`
}

// Patch carries optional account changes.
type Patch struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

var (
	// ErrNotFound indicates a missing user.
	ErrNotFound = fmt.Errorf("users: user %w", shared.ErrNotFound)
	// ErrDuplicateUsername rejects a taken username or email.
	ErrDuplicateUsername = fmt.Errorf("users: username or email already registered: %w", shared.ErrDuplicate)
	// ErrBadCredentials indicates a failed password check.
	ErrBadCredentials = fmt.Errorf("users: bad credentials: %w", shared.ErrValidation)
)
