package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vertice-pos/vertice-pos/internal/receivables"
	"github.com/vertice-pos/vertice-pos/internal/sales"
	"github.com/vertice-pos/vertice-pos/internal/stock"
)

type fakeSales struct {
	rows []sales.SummaryRow
}

func (f fakeSales) Summary(ctx context.Context, from, to *time.Time) ([]sales.SummaryRow, error) {
	return f.rows, nil
}

type fakeReceivables struct {
	byStatus map[receivables.Status][]receivables.Receivable
}

func (f fakeReceivables) List(ctx context.Context, filter receivables.ListFilter) ([]receivables.Receivable, error) {
	if filter.Status == nil {
		return nil, nil
	}
	return f.byStatus[*filter.Status], nil
}

type fakeStock struct {
	low []stock.Record
}

func (f fakeStock) ListLow(ctx context.Context) ([]stock.Record, error) {
	return f.low, nil
}

func TestOverviewAggregates(t *testing.T) {
	d := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	salesSvc := fakeSales{rows: []sales.SummaryRow{
		{ID: 1, Total: d("25.00")},
		{ID: 2, Total: d("10.50")},
	}}
	recvSvc := fakeReceivables{byStatus: map[receivables.Status][]receivables.Receivable{
		receivables.StatusPending: {{ID: 1, Balance: d("40.00")}},
		receivables.StatusPartial: {{ID: 2, Balance: d("12.25")}},
	}}
	stockSvc := fakeStock{low: []stock.Record{{ProductID: 7, Quantity: 1, MinQuantity: 5}}}

	h := NewHandler(slog.New(slog.DiscardHandler), salesSvc, recvSvc, stockSvc)
	r := chi.NewRouter()
	h.MountRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 2, got.SalesCount)
	require.True(t, got.SalesTotal.Equal(d("35.50")))
	require.Equal(t, 2, got.OpenCount)
	require.True(t, got.Outstanding.Equal(d("52.25")))
	require.Equal(t, 1, got.LowStockCount)
}
