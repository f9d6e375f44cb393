package clients

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/vertice-pos/vertice-pos/internal/shared"
)

// Client is one customer of the store.
type Client struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	NormalizedName  string           `json:"normalized_name"`
	Phone           *string          `json:"phone,omitempty"`
	Email           *string          `json:"email,omitempty"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// CreateInput describes a client to register.
type CreateInput struct {
	Name            string           `json:"name" validate:"required,max=255"`
	Phone           *string          `json:"phone,omitempty"`
	Email           *string          `json:"email,omitempty" validate:"omitempty,email"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
}

// Patch carries optional client changes.
type Patch struct {
	Name            *string          `json:"name,omitempty"`
	Phone           *string          `json:"phone,omitempty"`
	Email           *string          `json:"email,omitempty"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
}

var (
	// ErrNotFound indicates a missing client.
	ErrNotFound = fmt.Errorf("clients: client %w", shared.ErrNotFound)
	// ErrDuplicateName rejects a second client with the same normalized name.
	ErrDuplicateName = fmt.Errorf("clients: name already registered: %w", shared.ErrDuplicate)
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowers a name, strips diacritics and collapses whitespace so
// "José  Pérez" and "jose perez" index and search identically.
func Normalize(name string) string {
	stripped, _, err := transform.String(stripMarks, name)
	if err != nil {
		stripped = name
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}
