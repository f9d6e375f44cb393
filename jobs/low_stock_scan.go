package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LowStockScanJob sweeps the stock table for products at or below a threshold.
type LowStockScanJob struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
}

// NewLowStockScanJob initialises the low-stock sweep handler.
func NewLowStockScanJob(pool *pgxpool.Pool, logger *slog.Logger) *LowStockScanJob {
	return &LowStockScanJob{Pool: pool, Logger: logger}
}

type lowStockRow struct {
	ProductID   int64
	ProductName string
	Quantity    int64
}

// Handle executes the low-stock sweep.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("low stock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Threshold <= 0 {
		payload.Threshold = 5
	}

	start := time.Now().UTC()
	logger := j.logger().With(slog.Int("threshold", payload.Threshold))
	logger.Info("starting low stock scan")

	rows, err := j.Pool.Query(ctx, `
		SELECT s.product_id, COALESCE(p.name, ''), s.quantity
		FROM stock s
		LEFT JOIN products p ON p.id = s.product_id
		WHERE s.quantity <= GREATEST(s.min_quantity, $1)
		ORDER BY s.quantity, s.product_id`,
		payload.Threshold,
	)
	if err != nil {
		logger.Error("scan failed", slog.Any("error", err))
		return err
	}
	defer rows.Close()

	var low []lowStockRow
	for rows.Next() {
		var r lowStockRow
		if err := rows.Scan(&r.ProductID, &r.ProductName, &r.Quantity); err != nil {
			return err
		}
		low = append(low, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, r := range low {
		logger.Warn("product below stock threshold",
			slog.Int64("product_id", r.ProductID),
			slog.String("product", r.ProductName),
			slog.Int64("quantity", r.Quantity),
		)
	}

	logger.Info("completed low stock scan",
		slog.Int("flagged", len(low)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *LowStockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskStockLowScan))
	}
	return slog.Default().With(slog.String("job", TaskStockLowScan))
}
