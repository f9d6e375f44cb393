package sales

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vertice-pos/vertice-pos/internal/shared"
	"github.com/vertice-pos/vertice-pos/internal/stock"
)

type memorySaleRepo struct {
	sales       map[int64]*Sale
	stockQty    map[int64]int64
	receivables map[int64]int64
	nextSaleID  int64
	nextLineID  int64
	nextRecID   int64
	nextInvoice int64
}

func newMemorySaleRepo() *memorySaleRepo {
	return &memorySaleRepo{
		sales:       make(map[int64]*Sale),
		stockQty:    make(map[int64]int64),
		receivables: make(map[int64]int64),
	}
}

func (r *memorySaleRepo) snapshot() *memorySaleRepo {
	copied := &memorySaleRepo{
		sales:       make(map[int64]*Sale, len(r.sales)),
		stockQty:    make(map[int64]int64, len(r.stockQty)),
		receivables: make(map[int64]int64, len(r.receivables)),
		nextSaleID:  r.nextSaleID,
		nextLineID:  r.nextLineID,
		nextRecID:   r.nextRecID,
		nextInvoice: r.nextInvoice,
	}
	for id, s := range r.sales {
		dup := *s
		dup.Lines = append([]Line(nil), s.Lines...)
		copied.sales[id] = &dup
	}
	for id, q := range r.stockQty {
		copied.stockQty[id] = q
	}
	for id, rec := range r.receivables {
		copied.receivables[id] = rec
	}
	return copied
}

func (r *memorySaleRepo) WithTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error {
	saved := r.snapshot()
	if err := fn(ctx, r); err != nil {
		*r = *saved
		return err
	}
	return nil
}

func (r *memorySaleRepo) Insert(ctx context.Context, sale Sale, lines []Line) (*Sale, error) {
	r.nextSaleID++
	sale.ID = r.nextSaleID
	if sale.InvoiceNumber == nil || *sale.InvoiceNumber == "" {
		r.nextInvoice++
		invoice := fmt.Sprintf(invoicePrefix, r.nextInvoice)
		sale.InvoiceNumber = &invoice
	}
	sale.Lines = nil
	for _, line := range lines {
		r.nextLineID++
		line.ID = r.nextLineID
		line.SaleID = sale.ID
		sale.Lines = append(sale.Lines, line)
	}
	r.sales[sale.ID] = &sale
	return r.Get(ctx, sale.ID)
}

func (r *memorySaleRepo) Get(ctx context.Context, id int64) (*Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, ErrNotFound
	}
	dup := *s
	dup.Lines = append([]Line(nil), s.Lines...)
	return &dup, nil
}

func (r *memorySaleRepo) List(ctx context.Context) ([]Sale, error) {
	var out []Sale
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memorySaleRepo) Search(ctx context.Context, term string) ([]Sale, error) {
	return r.List(ctx)
}

func (r *memorySaleRepo) Summary(ctx context.Context, from, to *time.Time) ([]SummaryRow, error) {
	var out []SummaryRow
	for _, s := range r.sales {
		out = append(out, SummaryRow{
			ID:            s.ID,
			Date:          s.Date,
			InvoiceNumber: s.InvoiceNumber,
			Total:         s.Total,
			IsCredit:      s.IsCredit,
		})
	}
	return out, nil
}

func (r *memorySaleRepo) UpdateHeader(ctx context.Context, sale Sale) error {
	current, ok := r.sales[sale.ID]
	if !ok {
		return ErrNotFound
	}
	sale.Lines = current.Lines
	r.sales[sale.ID] = &sale
	return nil
}

func (r *memorySaleRepo) ReplaceLines(ctx context.Context, saleID int64, lines []Line) error {
	s, ok := r.sales[saleID]
	if !ok {
		return ErrNotFound
	}
	s.Lines = nil
	for _, line := range lines {
		r.nextLineID++
		line.ID = r.nextLineID
		line.SaleID = saleID
		s.Lines = append(s.Lines, line)
	}
	return nil
}

func (r *memorySaleRepo) SetActive(ctx context.Context, id int64, active bool) error {
	s, ok := r.sales[id]
	if !ok {
		return ErrNotFound
	}
	s.Active = active
	return nil
}

type memoryDeltaStore struct {
	qty map[int64]int64
}

func (s memoryDeltaStore) GetQuantityForUpdate(ctx context.Context, productID int64) (int64, error) {
	q, ok := s.qty[productID]
	if !ok {
		return 0, fmt.Errorf("%w: product %d", stock.ErrNotFound, productID)
	}
	return q, nil
}

func (s memoryDeltaStore) SetQuantity(ctx context.Context, productID, quantity int64, updatedAt time.Time) error {
	s.qty[productID] = quantity
	return nil
}

func (r *memorySaleRepo) ApplyStockDeltas(ctx context.Context, deltas map[int64]int64) error {
	return stock.ApplyDeltas(ctx, memoryDeltaStore{qty: r.stockQty}, deltas)
}

func (r *memorySaleRepo) EnsureReceivable(ctx context.Context, saleID int64, clientID *uuid.UUID, total decimal.Decimal) (int64, error) {
	if id, ok := r.receivables[saleID]; ok {
		return id, nil
	}
	r.nextRecID++
	r.receivables[saleID] = r.nextRecID
	return r.nextRecID, nil
}

func newTestService(repo *memorySaleRepo) *Service {
	return NewService(repo, nil, nil)
}

func createRequest(lines ...LineRequest) CreateRequest {
	cash := "cash"
	return CreateRequest{PaymentMethod: &cash, Lines: lines}
}

func TestCreateSaleComputesTotals(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySaleRepo()
	svc := newTestService(repo)

	req := createRequest(
		LineRequest{ProductID: 1, Quantity: 2, UnitPrice: d("10.00")},
	)
	req.Tax = d("2.00")
	req.Discount = d("1.00")

	sale, err := svc.Create(ctx, req)
	require.NoError(t, err)
	require.True(t, sale.Subtotal.Equal(d("20.00")))
	require.True(t, sale.Total.Equal(d("21.00")))
	require.False(t, sale.IsCredit)
	require.True(t, sale.Active)
	require.NotNil(t, sale.InvoiceNumber)
	require.Equal(t, "POS-000001", *sale.InvoiceNumber)
	require.Len(t, sale.Lines, 1)
}

func TestCreateSaleWithoutMethodBecomesCredit(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySaleRepo()
	svc := newTestService(repo)

	sale, err := svc.Create(ctx, CreateRequest{
		Lines: []LineRequest{{ProductID: 1, Quantity: 1, UnitPrice: d("50.00")}},
	})
	require.NoError(t, err)
	require.True(t, sale.IsCredit)
	require.Contains(t, repo.receivables, sale.ID)
}

func TestCreateCashSaleWithEmptyMethodFails(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemorySaleRepo())

	empty := ""
	_, err := svc.Create(ctx, CreateRequest{
		PaymentMethod: &empty,
		Lines:         []LineRequest{{ProductID: 1, Quantity: 1, UnitPrice: d("10.00")}},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateSaleLeavesStockUntouched(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySaleRepo()
	repo.stockQty[1] = 10
	svc := newTestService(repo)

	_, err := svc.Create(ctx, createRequest(
		LineRequest{ProductID: 1, Quantity: 4, UnitPrice: d("10.00")},
	))
	require.NoError(t, err)
	require.Equal(t, int64(10), repo.stockQty[1])
}

func TestCreateSaleWithDecrementPolicy(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySaleRepo()
	repo.stockQty[1] = 10
	svc := NewService(repo, DecrementOnCreate{}, nil)

	_, err := svc.Create(ctx, createRequest(
		LineRequest{ProductID: 1, Quantity: 4, UnitPrice: d("10.00")},
	))
	require.NoError(t, err)
	require.Equal(t, int64(6), repo.stockQty[1])
}

func TestUpdateLinesRescalesTax(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySaleRepo()
	repo.stockQty[1] = 100
	svc := newTestService(repo)

	req := createRequest(LineRequest{ProductID: 1, Quantity: 2, UnitPrice: d("10.00")})
	req.Tax = d("2.00")
	sale, err := svc.Create(ctx, req)
	require.NoError(t, err)

	updated, err := svc.UpdateLines(ctx, sale.ID, LinesRequest{
		Lines: []LineRequest{{ProductID: 1, Quantity: 3, UnitPrice: d("10.00")}},
	})
	require.NoError(t, err)
	require.True(t, updated.Subtotal.Equal(d("30.00")))
	require.True(t, updated.Tax.Equal(d("3.00")))
	require.True(t, updated.Total.Equal(d("33.00")))
	// Line grew by one unit, so one unit of stock was consumed.
	require.Equal(t, int64(99), repo.stockQty[1])
}

func TestUpdateInsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySaleRepo()
	repo.stockQty[1] = 2
	svc := newTestService(repo)

	req := createRequest(LineRequest{ProductID: 1, Quantity: 2, UnitPrice: d("10.00")})
	req.Tax = d("2.00")
	sale, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.UpdateLines(ctx, sale.ID, LinesRequest{
		Lines: []LineRequest{{ProductID: 1, Quantity: 10, UnitPrice: d("10.00")}},
	})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	after, err := svc.Get(ctx, sale.ID)
	require.NoError(t, err)
	require.True(t, after.Subtotal.Equal(d("20.00")))
	require.True(t, after.Tax.Equal(d("2.00")))
	require.Len(t, after.Lines, 1)
	require.Equal(t, int64(2), after.Lines[0].Quantity)
	require.Equal(t, int64(2), repo.stockQty[1])
}

func TestUpdateTaxOnlyLeavesLinesUntouched(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySaleRepo()
	svc := newTestService(repo)

	sale, err := svc.Create(ctx, createRequest(
		LineRequest{ProductID: 1, Quantity: 2, UnitPrice: d("10.00")},
	))
	require.NoError(t, err)

	tax := d("5.00")
	updated, err := svc.Update(ctx, sale.ID, UpdateRequest{Tax: &tax})
	require.NoError(t, err)
	require.True(t, updated.Subtotal.Equal(d("20.00")))
	require.True(t, updated.Tax.Equal(d("5.00")))
	require.True(t, updated.Total.Equal(d("25.00")))
	require.Len(t, updated.Lines, 1)
}

func TestUpdateNullPaymentMethodForcesCredit(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySaleRepo()
	svc := newTestService(repo)

	sale, err := svc.Create(ctx, createRequest(
		LineRequest{ProductID: 1, Quantity: 1, UnitPrice: d("10.00")},
	))
	require.NoError(t, err)
	require.False(t, sale.IsCredit)

	var req UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"payment_method": null}`), &req))
	require.True(t, req.PaymentMethod.Set)
	require.False(t, req.PaymentMethod.Valid)

	updated, err := svc.Update(ctx, sale.ID, req)
	require.NoError(t, err)
	require.Nil(t, updated.PaymentMethod)
	require.True(t, updated.IsCredit)
	require.Contains(t, repo.receivables, sale.ID)
}

func TestUpdateOmittedFieldsKeepCurrentValues(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySaleRepo()
	svc := newTestService(repo)

	sale, err := svc.Create(ctx, createRequest(
		LineRequest{ProductID: 1, Quantity: 1, UnitPrice: d("10.00")},
	))
	require.NoError(t, err)

	var req UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"note": "updated"}`), &req))
	require.False(t, req.PaymentMethod.Set)
	require.False(t, req.IsCredit.Set)

	updated, err := svc.Update(ctx, sale.ID, req)
	require.NoError(t, err)
	require.NotNil(t, updated.PaymentMethod)
	require.Equal(t, "cash", *updated.PaymentMethod)
	require.False(t, updated.IsCredit)
	require.Equal(t, "updated", *updated.Note)
}

func TestEnsureReceivableIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySaleRepo()
	svc := newTestService(repo)

	sale, err := svc.Create(ctx, CreateRequest{
		IsCredit: true,
		Lines:    []LineRequest{{ProductID: 1, Quantity: 1, UnitPrice: d("10.00")}},
	})
	require.NoError(t, err)
	first := repo.receivables[sale.ID]

	note := "still credit"
	_, err = svc.Update(ctx, sale.ID, UpdateRequest{Note: &note})
	require.NoError(t, err)
	require.Equal(t, first, repo.receivables[sale.ID])
	require.Len(t, repo.receivables, 1)
}

func TestDeleteLineAbsentProductIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySaleRepo()
	svc := newTestService(repo)

	sale, err := svc.Create(ctx, createRequest(
		LineRequest{ProductID: 1, Quantity: 2, UnitPrice: d("10.00")},
	))
	require.NoError(t, err)

	result, err := svc.DeleteLine(ctx, sale.ID, 999)
	require.NoError(t, err)
	require.Len(t, result.Lines, 1)
	require.True(t, result.Subtotal.Equal(d("20.00")))
}

func TestDeleteLastLineZeroesSale(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySaleRepo()
	repo.stockQty[1] = 5
	svc := newTestService(repo)

	req := createRequest(LineRequest{ProductID: 1, Quantity: 2, UnitPrice: d("10.00")})
	req.Tax = d("2.00")
	req.Discount = d("1.00")
	sale, err := svc.Create(ctx, req)
	require.NoError(t, err)

	result, err := svc.DeleteLine(ctx, sale.ID, 1)
	require.NoError(t, err)
	require.Empty(t, result.Lines)
	require.True(t, result.Subtotal.IsZero())
	require.True(t, result.Tax.IsZero())
	require.True(t, result.Discount.IsZero())
	require.True(t, result.Total.IsZero())
	// Both units returned to stock.
	require.Equal(t, int64(7), repo.stockQty[1])
}

func TestUpdateStatusVoidsSale(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySaleRepo()
	svc := newTestService(repo)

	sale, err := svc.Create(ctx, createRequest(
		LineRequest{ProductID: 1, Quantity: 1, UnitPrice: d("10.00")},
	))
	require.NoError(t, err)

	voided, err := svc.UpdateStatus(ctx, sale.ID, StatusRequest{Active: false})
	require.NoError(t, err)
	require.False(t, voided.Active)
	// Money fields untouched.
	require.True(t, voided.Total.Equal(sale.Total))
}

func TestUpdateMissingSale(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemorySaleRepo())

	_, err := svc.Update(ctx, 42, UpdateRequest{})
	require.ErrorIs(t, err, shared.ErrNotFound)
}
