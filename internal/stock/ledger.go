package stock

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// DeltaStore is the minimal row access ApplyDeltas needs. The pgx repository
// implements it with SELECT ... FOR UPDATE so concurrent writers serialize
// per product.
type DeltaStore interface {
	GetQuantityForUpdate(ctx context.Context, productID int64) (int64, error)
	SetQuantity(ctx context.Context, productID, quantity int64, updatedAt time.Time) error
}

// ApplyDeltas applies signed quantity adjustments inside the caller's
// transaction. Rows are locked in ascending product order so writers touching
// overlapping product sets cannot deadlock. Zero deltas are skipped without
// taking a lock. Any failure leaves every quantity untouched because the
// enclosing transaction rolls back.
func ApplyDeltas(ctx context.Context, store DeltaStore, deltas map[int64]int64) error {
	if len(deltas) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(deltas))
	for id, delta := range deltas {
		if delta == 0 {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	now := time.Now().UTC()
	for _, productID := range ids {
		delta := deltas[productID]
		current, err := store.GetQuantityForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		next := current + delta
		if next < 0 {
			return fmt.Errorf("%w: product %d (available %d, adjustment %d)",
				ErrInsufficient, productID, current, delta)
		}
		if err := store.SetQuantity(ctx, productID, next, now); err != nil {
			return fmt.Errorf("stock: update product %d: %w", productID, err)
		}
	}
	return nil
}
