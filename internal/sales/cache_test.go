package sales

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*SummaryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSummaryCache(client, time.Minute), mr
}

func TestSummaryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rows := []SummaryRow{{ID: 1, Date: from, Total: d("99.00")}}

	_, ok := cache.Get(ctx, &from, nil)
	require.False(t, ok)

	cache.Set(ctx, &from, nil, rows)
	got, ok := cache.Get(ctx, &from, nil)
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Equal(t, int64(1), got[0].ID)
	require.True(t, got[0].Total.Equal(d("99.00")))
}

func TestSummaryCacheKeysByRange(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	other := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	cache.Set(ctx, &from, nil, []SummaryRow{{ID: 1}})

	_, ok := cache.Get(ctx, &other, nil)
	require.False(t, ok)
}

func TestSummaryCacheExpires(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	cache.Set(ctx, &from, nil, []SummaryRow{{ID: 1}})
	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx, &from, nil)
	require.False(t, ok)
}
