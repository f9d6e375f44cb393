package categories

import (
	"fmt"
	"time"

	"github.com/vertice-pos/vertice-pos/internal/shared"
)

// Category groups products.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedBy   *int64    `json:"created_by,omitempty"`
	UpdatedBy   *int64    `json:"updated_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateInput describes a category to register.
type CreateInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty"`
	CreatedBy   *int64  `json:"created_by,omitempty"`
}

// Patch carries optional category changes.
type Patch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
	UpdatedBy   *int64  `json:"updated_by,omitempty"`
}

var (
	// ErrNotFound indicates a missing category.
	ErrNotFound = fmt.Errorf("categories: category %w", shared.ErrNotFound)
	// ErrDuplicateName rejects a second category with the same name.
	ErrDuplicateName = fmt.Errorf("categories: name already registered: %w", shared.ErrDuplicate)
)
