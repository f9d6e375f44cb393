// Package dashboard aggregates the figures the front counter keeps on
// screen: today's sales, open receivables and products running low.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/vertice-pos/vertice-pos/internal/platform/httpx"
	"github.com/vertice-pos/vertice-pos/internal/receivables"
	"github.com/vertice-pos/vertice-pos/internal/sales"
	"github.com/vertice-pos/vertice-pos/internal/stock"
)

// SalesService supplies the per-sale summary rows.
type SalesService interface {
	Summary(ctx context.Context, from, to *time.Time) ([]sales.SummaryRow, error)
}

// ReceivablesService lists receivables by status.
type ReceivablesService interface {
	List(ctx context.Context, filter receivables.ListFilter) ([]receivables.Receivable, error)
}

// StockService lists products at or below their minimum quantity.
type StockService interface {
	ListLow(ctx context.Context) ([]stock.Record, error)
}

// Overview is the aggregate response.
type Overview struct {
	Date          time.Time          `json:"date"`
	SalesCount    int                `json:"sales_count"`
	SalesTotal    decimal.Decimal    `json:"sales_total"`
	Sales         []sales.SummaryRow `json:"sales"`
	OpenCount     int                `json:"open_receivables"`
	Outstanding   decimal.Decimal    `json:"outstanding"`
	LowStockCount int                `json:"low_stock_count"`
	LowStock      []stock.Record     `json:"low_stock"`
}

// Handler serves the dashboard endpoint.
type Handler struct {
	logger      *slog.Logger
	sales       SalesService
	receivables ReceivablesService
	stock       StockService
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, salesSvc SalesService, recvSvc ReceivablesService, stockSvc StockService) *Handler {
	return &Handler{logger: logger, sales: salesSvc, receivables: recvSvc, stock: stockSvc}
}

// MountRoutes registers the dashboard route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.overview)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var (
		rows    []sales.SummaryRow
		open    []receivables.Receivable
		partial []receivables.Receivable
		low     []stock.Record
	)

	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		var err error
		rows, err = h.sales.Summary(ctx, &dayStart, &dayEnd)
		return err
	})

	g.Go(func() error {
		pending := receivables.StatusPending
		var err error
		open, err = h.receivables.List(ctx, receivables.ListFilter{Status: &pending})
		return err
	})

	g.Go(func() error {
		st := receivables.StatusPartial
		var err error
		partial, err = h.receivables.List(ctx, receivables.ListFilter{Status: &st})
		return err
	})

	g.Go(func() error {
		var err error
		low, err = h.stock.ListLow(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		h.logger.Error("dashboard overview", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Total)
	}
	outstanding := decimal.Zero
	open = append(open, partial...)
	for _, rec := range open {
		outstanding = outstanding.Add(rec.Balance)
	}

	httpx.JSON(w, http.StatusOK, Overview{
		Date:          dayStart,
		SalesCount:    len(rows),
		SalesTotal:    total,
		Sales:         rows,
		OpenCount:     len(open),
		Outstanding:   outstanding,
		LowStockCount: len(low),
		LowStock:      low,
	})
}
