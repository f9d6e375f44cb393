package finance

import (
	"context"

	"github.com/vertice-pos/vertice-pos/internal/money"
)

// Service handles financial movement business logic.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create records a movement. Amounts must be strictly positive; the direction
// is carried by the type, never by the sign.
func (s *Service) Create(ctx context.Context, input MovementInput) (*Movement, error) {
	if err := money.CheckPositive(input.Amount); err != nil {
		return nil, err
	}
	return s.repo.Insert(ctx, Movement{
		Date:       input.Date,
		Type:       input.Type,
		Amount:     money.Quantize(input.Amount),
		Concept:    input.Concept,
		Note:       input.Note,
		UserID:     input.UserID,
		SaleID:     input.SaleID,
		SupplierID: normalizeSupplier(input.Type, input.SupplierID),
		CashboxID:  input.CashboxID,
	})
}

// Get returns one movement.
func (s *Service) Get(ctx context.Context, id int64) (*Movement, error) {
	return s.repo.Get(ctx, id)
}

// List returns movements matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Movement, error) {
	return s.repo.List(ctx, filter)
}

// Patch applies partial header changes; nil fields keep the current values.
func (s *Service) Patch(ctx context.Context, id int64, patch MovementPatch) (*Movement, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *current
	if patch.Date != nil {
		next.Date = *patch.Date
	}
	if patch.Type != nil {
		next.Type = *patch.Type
	}
	if patch.Amount != nil {
		if err := money.CheckPositive(*patch.Amount); err != nil {
			return nil, err
		}
		next.Amount = money.Quantize(*patch.Amount)
	}
	if patch.Concept != nil {
		next.Concept = *patch.Concept
	}
	if patch.Note != nil {
		next.Note = patch.Note
	}
	if patch.UserID != nil {
		next.UserID = patch.UserID
	}
	if patch.SaleID != nil {
		next.SaleID = patch.SaleID
	}
	if patch.SupplierID != nil {
		next.SupplierID = patch.SupplierID
	}
	if patch.CashboxID != nil {
		next.CashboxID = *patch.CashboxID
	}
	next.SupplierID = normalizeSupplier(next.Type, next.SupplierID)
	return s.repo.Update(ctx, next)
}
