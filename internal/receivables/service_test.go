package receivables

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vertice-pos/vertice-pos/internal/finance"
	"github.com/vertice-pos/vertice-pos/internal/shared"
)

type memoryReceivableRepo struct {
	receivables map[int64]*Receivable
	payments    []Payment
	movements   []finance.Movement
	nextRecID   int64
	nextPayID   int64
	nextMoveID  int64
}

func newMemoryReceivableRepo() *memoryReceivableRepo {
	return &memoryReceivableRepo{receivables: make(map[int64]*Receivable)}
}

func (r *memoryReceivableRepo) snapshot() *memoryReceivableRepo {
	copied := &memoryReceivableRepo{
		receivables: make(map[int64]*Receivable, len(r.receivables)),
		payments:    append([]Payment(nil), r.payments...),
		movements:   append([]finance.Movement(nil), r.movements...),
		nextRecID:   r.nextRecID,
		nextPayID:   r.nextPayID,
		nextMoveID:  r.nextMoveID,
	}
	for id, rec := range r.receivables {
		dup := *rec
		copied.receivables[id] = &dup
	}
	return copied
}

func (r *memoryReceivableRepo) WithTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error {
	saved := r.snapshot()
	if err := fn(ctx, r); err != nil {
		*r = *saved
		return err
	}
	return nil
}

func (r *memoryReceivableRepo) Create(ctx context.Context, rec Receivable) (*Receivable, error) {
	r.nextRecID++
	rec.ID = r.nextRecID
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	r.receivables[rec.ID] = &rec
	dup := rec
	return &dup, nil
}

func (r *memoryReceivableRepo) Get(ctx context.Context, id int64) (*Receivable, error) {
	rec, ok := r.receivables[id]
	if !ok {
		return nil, ErrNotFound
	}
	dup := *rec
	return &dup, nil
}

func (r *memoryReceivableRepo) GetForUpdate(ctx context.Context, id int64) (*Receivable, error) {
	return r.Get(ctx, id)
}

func (r *memoryReceivableRepo) GetBySale(ctx context.Context, saleID int64) (*Receivable, error) {
	for _, rec := range r.receivables {
		if rec.SaleID != nil && *rec.SaleID == saleID {
			dup := *rec
			return &dup, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryReceivableRepo) List(ctx context.Context, filter ListFilter) ([]Receivable, error) {
	var out []Receivable
	for _, rec := range r.receivables {
		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (r *memoryReceivableRepo) Update(ctx context.Context, rec Receivable) (*Receivable, error) {
	if _, ok := r.receivables[rec.ID]; !ok {
		return nil, ErrNotFound
	}
	rec.UpdatedAt = time.Now()
	r.receivables[rec.ID] = &rec
	dup := rec
	return &dup, nil
}

func (r *memoryReceivableRepo) SetBalance(ctx context.Context, id int64, balance decimal.Decimal, status Status) error {
	rec, ok := r.receivables[id]
	if !ok {
		return ErrNotFound
	}
	rec.Balance = balance
	rec.Status = status
	rec.UpdatedAt = time.Now()
	return nil
}

func (r *memoryReceivableRepo) RecordPayment(ctx context.Context, p Payment, m finance.Movement) (*Payment, error) {
	r.nextMoveID++
	m.ID = r.nextMoveID
	r.movements = append(r.movements, m)

	r.nextPayID++
	p.ID = r.nextPayID
	p.MovementID = m.ID
	p.CreatedAt = time.Now()
	r.payments = append(r.payments, p)
	dup := p
	return &dup, nil
}

func (r *memoryReceivableRepo) ListPayments(ctx context.Context, receivableID int64) ([]Payment, error) {
	var out []Payment
	for _, p := range r.payments {
		if p.ReceivableID == receivableID {
			out = append(out, p)
		}
	}
	return out, nil
}

func seedReceivable(t *testing.T, repo *memoryReceivableRepo, total string) *Receivable {
	t.Helper()
	saleID := int64(11)
	amount := decimal.RequireFromString(total)
	rec, err := repo.Create(context.Background(), Receivable{
		SaleID:  &saleID,
		Total:   amount,
		Balance: amount,
		Status:  StatusPending,
	})
	require.NoError(t, err)
	return rec
}

func payment(amount string) PaymentInput {
	return PaymentInput{Amount: decimal.RequireFromString(amount), CashboxID: 1}
}

func TestApplyPaymentLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryReceivableRepo()
	svc := NewService(repo)
	rec := seedReceivable(t, repo, "100.00")

	result, err := svc.ApplyPayment(ctx, rec.ID, payment("40.00"))
	require.NoError(t, err)
	require.Equal(t, StatusPartial, result.Receivable.Status)
	require.True(t, result.Receivable.Balance.Equal(decimal.RequireFromString("60.00")))

	result, err = svc.ApplyPayment(ctx, rec.ID, payment("60.00"))
	require.NoError(t, err)
	require.Equal(t, StatusPaid, result.Receivable.Status)
	require.True(t, result.Receivable.Balance.IsZero())

	_, err = svc.ApplyPayment(ctx, rec.ID, payment("10.00"))
	require.ErrorIs(t, err, shared.ErrAlreadySettled)

	payments, err := svc.ListPayments(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
}

func TestApplyPaymentRecordsIncomeMovement(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryReceivableRepo()
	svc := NewService(repo)
	rec := seedReceivable(t, repo, "100.00")

	result, err := svc.ApplyPayment(ctx, rec.ID, payment("25.00"))
	require.NoError(t, err)

	require.Len(t, repo.movements, 1)
	m := repo.movements[0]
	require.Equal(t, finance.MovementIncome, m.Type)
	require.True(t, m.Amount.Equal(decimal.RequireFromString("25.00")))
	require.Equal(t, defaultPaymentConcept, m.Concept)
	require.NotNil(t, m.SaleID)
	require.Equal(t, *rec.SaleID, *m.SaleID)
	require.Equal(t, m.ID, result.Payment.MovementID)
}

func TestApplyPaymentExcessLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryReceivableRepo()
	svc := NewService(repo)
	rec := seedReceivable(t, repo, "60.00")

	_, err := svc.ApplyPayment(ctx, rec.ID, payment("150.00"))
	require.ErrorIs(t, err, shared.ErrExcessPayment)

	after, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	require.True(t, after.Balance.Equal(decimal.RequireFromString("60.00")))
	require.Equal(t, StatusPending, after.Status)
	require.Empty(t, repo.payments)
	require.Empty(t, repo.movements)
}

func TestApplyPaymentValidationOrder(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryReceivableRepo()
	svc := NewService(repo)

	_, err := svc.ApplyPayment(ctx, 999, payment("10.00"))
	require.ErrorIs(t, err, shared.ErrNotFound)

	rec := seedReceivable(t, repo, "50.00")
	void := StatusVoid
	_, err = svc.Patch(ctx, rec.ID, Patch{Status: &void})
	require.NoError(t, err)

	// A void receivable rejects even an invalid amount with the state error.
	_, err = svc.ApplyPayment(ctx, rec.ID, payment("0"))
	require.ErrorIs(t, err, shared.ErrInvalidState)

	open := seedReceivable(t, repo, "50.00")
	_, err = svc.ApplyPayment(ctx, open.ID, payment("0"))
	require.ErrorIs(t, err, shared.ErrInvalidAmount)

	_, err = svc.ApplyPayment(ctx, open.ID, payment("-5.00"))
	require.ErrorIs(t, err, shared.ErrInvalidAmount)
}

func TestPatchRejectsBalanceAboveTotal(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryReceivableRepo()
	svc := NewService(repo)
	rec := seedReceivable(t, repo, "80.00")

	balance := decimal.RequireFromString("90.00")
	_, err := svc.Patch(ctx, rec.ID, Patch{Balance: &balance})
	require.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestPatchDerivesStatusFromBalance(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryReceivableRepo()
	svc := NewService(repo)
	rec := seedReceivable(t, repo, "80.00")

	balance := decimal.RequireFromString("30.00")
	updated, err := svc.Patch(ctx, rec.ID, Patch{Balance: &balance})
	require.NoError(t, err)
	require.Equal(t, StatusPartial, updated.Status)

	zero := decimal.Zero
	updated, err = svc.Patch(ctx, rec.ID, Patch{Balance: &zero})
	require.NoError(t, err)
	require.Equal(t, StatusPaid, updated.Status)
}

func TestCreateRejectsNonPositiveTotal(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryReceivableRepo())

	clientID := uuid.New()
	_, err := svc.Create(ctx, CreateInput{ClientID: &clientID, Total: decimal.Zero})
	require.ErrorIs(t, err, shared.ErrInvalidAmount)
}

func TestDeriveStatus(t *testing.T) {
	total := decimal.RequireFromString("100.00")
	require.Equal(t, StatusPending, DeriveStatus(total, total))
	require.Equal(t, StatusPartial, DeriveStatus(total, decimal.RequireFromString("0.01")))
	require.Equal(t, StatusPaid, DeriveStatus(total, decimal.Zero))
	require.Equal(t, StatusPaid, DeriveStatus(total, decimal.RequireFromString("-0.01")))
}
