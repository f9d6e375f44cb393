package suppliers

import (
	"fmt"
	"time"

	"github.com/vertice-pos/vertice-pos/internal/shared"
)

// Supplier is one goods provider, referenced by expense movements.
type Supplier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateInput describes a supplier to register.
type CreateInput struct {
	Name  string  `json:"name" validate:"required,max=255"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

// Patch carries optional supplier changes.
type Patch struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

// ErrNotFound indicates a missing supplier.
var ErrNotFound = fmt.Errorf("suppliers: supplier %w", shared.ErrNotFound)
