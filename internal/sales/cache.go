package sales

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// SummaryCache keeps summary rows in redis for a short TTL. The summary joins
// three tables and backs a dashboard that polls aggressively; staleness up to
// the TTL is acceptable there.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache builds SummaryCache.
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

func summaryKey(from, to *time.Time) string {
	key := "sales:summary:"
	if from != nil {
		key += from.Format("2006-01-02")
	}
	key += ":"
	if to != nil {
		key += to.Format("2006-01-02")
	}
	return key
}

// Get returns cached rows and whether the key was present. Redis errors are
// treated as misses.
func (c *SummaryCache) Get(ctx context.Context, from, to *time.Time) ([]SummaryRow, bool) {
	data, err := c.client.Get(ctx, summaryKey(from, to)).Bytes()
	if err != nil {
		return nil, false
	}
	var rows []SummaryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

// Set stores rows under the range key. Failures are ignored; the next read
// falls through to the database.
func (c *SummaryCache) Set(ctx context.Context, from, to *time.Time, rows []SummaryRow) {
	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	c.client.Set(ctx, summaryKey(from, to), data, c.ttl)
}
