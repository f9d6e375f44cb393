package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// OverdueScanJob sweeps open receivables older than a cutoff and reports them.
type OverdueScanJob struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
	clock  func() time.Time
}

// NewOverdueScanJob initialises the overdue receivables sweep handler.
func NewOverdueScanJob(pool *pgxpool.Pool, logger *slog.Logger) *OverdueScanJob {
	return &OverdueScanJob{
		Pool:   pool,
		Logger: logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

type overdueRow struct {
	ID         int64
	ClientName string
	Balance    decimal.Decimal
	CreatedAt  time.Time
}

// Handle executes the overdue receivables sweep.
func (j *OverdueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("overdue scan: handler not configured")
	}
	var payload OverdueScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.AfterDays <= 0 {
		payload.AfterDays = 30
	}

	start := j.now()
	cutoff := start.AddDate(0, 0, -payload.AfterDays)
	logger := j.logger().With(slog.Int("after_days", payload.AfterDays))
	logger.Info("starting overdue receivables scan")

	rows, err := j.Pool.Query(ctx, `
		SELECT r.id, COALESCE(c.name, ''), r.balance, r.created_at
		FROM receivables r
		LEFT JOIN clients c ON c.id = r.client_id
		WHERE r.status IN ('PENDING', 'PARTIAL') AND r.created_at < $1
		ORDER BY r.created_at`,
		cutoff,
	)
	if err != nil {
		logger.Error("scan failed", slog.Any("error", err))
		return err
	}
	defer rows.Close()

	var overdue []overdueRow
	outstanding := decimal.Zero
	for rows.Next() {
		var r overdueRow
		if err := rows.Scan(&r.ID, &r.ClientName, &r.Balance, &r.CreatedAt); err != nil {
			return err
		}
		overdue = append(overdue, r)
		outstanding = outstanding.Add(r.Balance)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, r := range overdue {
		logger.Warn("receivable overdue",
			slog.Int64("receivable_id", r.ID),
			slog.String("client", r.ClientName),
			slog.String("balance", r.Balance.StringFixed(2)),
			slog.Int("age_days", int(start.Sub(r.CreatedAt).Hours()/24)),
		)
	}

	logger.Info("completed overdue receivables scan",
		slog.Int("flagged", len(overdue)),
		slog.String("outstanding", outstanding.StringFixed(2)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *OverdueScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReceivablesOverdueScan))
	}
	return slog.Default().With(slog.String("job", TaskReceivablesOverdueScan))
}

func (j *OverdueScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
