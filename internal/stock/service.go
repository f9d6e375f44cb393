package stock

import (
	"context"
)

// Service exposes stock lookups and the transactional delta path.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a stock record for a product.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Record, error) {
	return s.repo.Create(ctx, input)
}

// Get returns one stock record.
func (s *Service) Get(ctx context.Context, id int64) (*Record, error) {
	return s.repo.Get(ctx, id)
}

// List returns every stock record with its product name.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.repo.List(ctx)
}

// Search matches stock records by product name.
func (s *Service) Search(ctx context.Context, term string) ([]Record, error) {
	return s.repo.Search(ctx, term)
}

// ListLow returns records at or below their minimum threshold.
func (s *Service) ListLow(ctx context.Context) ([]Record, error) {
	return s.repo.ListLow(ctx)
}

// ApplyDeltas applies signed adjustments in one transaction. All deltas
// succeed or none take effect.
func (s *Service) ApplyDeltas(ctx context.Context, deltas map[int64]int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.ApplyDeltas(ctx, deltas)
	})
}
