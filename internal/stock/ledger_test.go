package stock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vertice-pos/vertice-pos/internal/shared"
)

type memoryDeltaStore struct {
	quantities map[int64]int64
	lockOrder  []int64
}

func newMemoryDeltaStore(quantities map[int64]int64) *memoryDeltaStore {
	return &memoryDeltaStore{quantities: quantities}
}

func (s *memoryDeltaStore) GetQuantityForUpdate(ctx context.Context, productID int64) (int64, error) {
	qty, ok := s.quantities[productID]
	if !ok {
		return 0, ErrNotFound
	}
	s.lockOrder = append(s.lockOrder, productID)
	return qty, nil
}

func (s *memoryDeltaStore) SetQuantity(ctx context.Context, productID, quantity int64, updatedAt time.Time) error {
	s.quantities[productID] = quantity
	return nil
}

func TestApplyDeltas(t *testing.T) {
	ctx := context.Background()
	store := newMemoryDeltaStore(map[int64]int64{1: 10, 2: 5})

	err := ApplyDeltas(ctx, store, map[int64]int64{1: -3, 2: 2})
	require.NoError(t, err)
	require.Equal(t, int64(7), store.quantities[1])
	require.Equal(t, int64(7), store.quantities[2])
}

func TestApplyDeltasInsufficient(t *testing.T) {
	ctx := context.Background()
	store := newMemoryDeltaStore(map[int64]int64{1: 3})

	err := ApplyDeltas(ctx, store, map[int64]int64{1: -5})
	require.ErrorIs(t, err, ErrInsufficient)
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	require.Equal(t, int64(3), store.quantities[1])
}

func TestApplyDeltasUnknownProduct(t *testing.T) {
	ctx := context.Background()
	store := newMemoryDeltaStore(map[int64]int64{1: 3})

	err := ApplyDeltas(ctx, store, map[int64]int64{99: -1})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestApplyDeltasSkipsZero(t *testing.T) {
	ctx := context.Background()
	store := newMemoryDeltaStore(map[int64]int64{1: 3, 2: 4})

	err := ApplyDeltas(ctx, store, map[int64]int64{1: 0, 2: 1})
	require.NoError(t, err)
	require.Equal(t, []int64{2}, store.lockOrder)
	require.Equal(t, int64(3), store.quantities[1])
	require.Equal(t, int64(5), store.quantities[2])
}

func TestApplyDeltasLocksInAscendingOrder(t *testing.T) {
	ctx := context.Background()
	store := newMemoryDeltaStore(map[int64]int64{5: 1, 1: 1, 9: 1, 3: 1})

	err := ApplyDeltas(ctx, store, map[int64]int64{9: 1, 1: 1, 5: 1, 3: 1})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 3, 5, 9}, store.lockOrder)
}
