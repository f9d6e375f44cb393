package clients

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vertice-pos/vertice-pos/internal/money"
	"github.com/vertice-pos/vertice-pos/internal/shared"
)

// Service handles client business logic.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a client. The normalized name must be unique.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Client, error) {
	if err := checkDiscounts(input.DiscountAmount, input.DiscountPercent); err != nil {
		return nil, err
	}
	normalized := Normalize(input.Name)
	if _, err := s.repo.GetByNormalizedName(ctx, normalized); err == nil {
		return nil, ErrDuplicateName
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return s.repo.Create(ctx, Client{
		Name:            input.Name,
		NormalizedName:  normalized,
		Phone:           input.Phone,
		Email:           input.Email,
		DiscountAmount:  input.DiscountAmount,
		DiscountPercent: input.DiscountPercent,
	})
}

// Get returns one client.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.Get(ctx, id)
}

// List returns all clients ordered by normalized name.
func (s *Service) List(ctx context.Context) ([]Client, error) {
	return s.repo.List(ctx)
}

// Search matches clients on the normalized name, so accents and case in the
// term do not matter.
func (s *Service) Search(ctx context.Context, term string) ([]Client, error) {
	return s.repo.Search(ctx, term)
}

// Patch applies partial changes; renaming re-normalizes.
func (s *Service) Patch(ctx context.Context, id uuid.UUID, patch Patch) (*Client, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *current
	if patch.Name != nil {
		next.Name = *patch.Name
		next.NormalizedName = Normalize(*patch.Name)
	}
	if patch.Phone != nil {
		next.Phone = patch.Phone
	}
	if patch.Email != nil {
		next.Email = patch.Email
	}
	if patch.DiscountAmount != nil {
		next.DiscountAmount = patch.DiscountAmount
	}
	if patch.DiscountPercent != nil {
		next.DiscountPercent = patch.DiscountPercent
	}
	if err := checkDiscounts(next.DiscountAmount, next.DiscountPercent); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, next)
}

// Delete removes a client.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func checkDiscounts(amount, percent *decimal.Decimal) error {
	if amount != nil {
		if err := money.Check(*amount); err != nil {
			return err
		}
	}
	if percent != nil {
		if err := money.Check(*percent); err != nil {
			return err
		}
	}
	return nil
}
