package products

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vertice-pos/vertice-pos/internal/money"
)

// Service handles product business logic. Margin is derived, never supplied:
// sale price minus cost.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a product.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Product, error) {
	for _, v := range []decimal.Decimal{input.SalePrice, input.Cost, input.Tax} {
		if err := money.Check(v); err != nil {
			return nil, err
		}
	}
	margin := money.Quantize(input.SalePrice.Sub(input.Cost))
	return s.repo.Create(ctx, Product{
		Barcode:    input.Barcode,
		Name:       input.Name,
		SalePrice:  money.Quantize(input.SalePrice),
		Cost:       money.Quantize(input.Cost),
		Margin:     &margin,
		Tax:        money.Quantize(input.Tax),
		CategoryID: input.CategoryID,
		CreatedBy:  input.CreatedBy,
	})
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

// GetByBarcode returns the product carrying a barcode.
func (s *Service) GetByBarcode(ctx context.Context, barcode string) (*Product, error) {
	return s.repo.GetByBarcode(ctx, barcode)
}

// List returns all products ordered by name.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Search matches products by name or barcode.
func (s *Service) Search(ctx context.Context, term string) ([]Product, error) {
	return s.repo.Search(ctx, term)
}

// Patch applies partial changes, recomputing the margin when price or cost
// moved.
func (s *Service) Patch(ctx context.Context, id int64, patch Patch) (*Product, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *current
	if patch.Barcode != nil {
		next.Barcode = patch.Barcode
	}
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.SalePrice != nil {
		if err := money.Check(*patch.SalePrice); err != nil {
			return nil, err
		}
		next.SalePrice = money.Quantize(*patch.SalePrice)
	}
	if patch.Cost != nil {
		if err := money.Check(*patch.Cost); err != nil {
			return nil, err
		}
		next.Cost = money.Quantize(*patch.Cost)
	}
	if patch.Tax != nil {
		if err := money.Check(*patch.Tax); err != nil {
			return nil, err
		}
		next.Tax = money.Quantize(*patch.Tax)
	}
	if patch.Active != nil {
		next.Active = *patch.Active
	}
	if patch.CategoryID != nil {
		next.CategoryID = patch.CategoryID
	}
	if patch.UpdatedBy != nil {
		next.UpdatedBy = patch.UpdatedBy
	}
	if patch.SalePrice != nil || patch.Cost != nil {
		margin := money.Quantize(next.SalePrice.Sub(next.Cost))
		next.Margin = &margin
	}
	return s.repo.Update(ctx, next)
}
