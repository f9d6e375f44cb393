package finance

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vertice-pos/vertice-pos/internal/shared"
)

type memoryFinanceRepo struct {
	movements map[int64]*Movement
	nextID    int64
}

func newMemoryFinanceRepo() *memoryFinanceRepo {
	return &memoryFinanceRepo{movements: make(map[int64]*Movement)}
}

func (r *memoryFinanceRepo) Insert(ctx context.Context, m Movement) (*Movement, error) {
	r.nextID++
	m.ID = r.nextID
	m.CreatedAt = time.Now()
	m.SupplierID = normalizeSupplier(m.Type, m.SupplierID)
	r.movements[m.ID] = &m
	return &m, nil
}

func (r *memoryFinanceRepo) Get(ctx context.Context, id int64) (*Movement, error) {
	m, ok := r.movements[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *memoryFinanceRepo) List(ctx context.Context, filter ListFilter) ([]Movement, error) {
	var out []Movement
	for _, m := range r.movements {
		if filter.Type != nil && m.Type != *filter.Type {
			continue
		}
		if filter.CashboxID != nil && m.CashboxID != *filter.CashboxID {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (r *memoryFinanceRepo) Update(ctx context.Context, m Movement) (*Movement, error) {
	if _, ok := r.movements[m.ID]; !ok {
		return nil, ErrNotFound
	}
	m.SupplierID = normalizeSupplier(m.Type, m.SupplierID)
	r.movements[m.ID] = &m
	copied := m
	return &copied, nil
}

func (r *memoryFinanceRepo) SumByCashbox(ctx context.Context, cashboxID int64, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	income, expense := decimal.Zero, decimal.Zero
	for _, m := range r.movements {
		if m.CashboxID != cashboxID || m.Date.Before(from) || m.Date.After(to) {
			continue
		}
		if m.Type == MovementIncome {
			income = income.Add(m.Amount)
		} else {
			expense = expense.Add(m.Amount)
		}
	}
	return income, expense, nil
}

func TestCreateMovementDropsSupplierOnIncome(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryFinanceRepo())

	supplier := int64(7)
	m, err := svc.Create(ctx, MovementInput{
		Date:       time.Now(),
		Type:       MovementIncome,
		Amount:     decimal.RequireFromString("50.00"),
		Concept:    "cash sale",
		SupplierID: &supplier,
		CashboxID:  1,
	})
	require.NoError(t, err)
	require.Nil(t, m.SupplierID)
}

func TestCreateMovementKeepsSupplierOnExpense(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryFinanceRepo())

	supplier := int64(7)
	m, err := svc.Create(ctx, MovementInput{
		Date:       time.Now(),
		Type:       MovementExpense,
		Amount:     decimal.RequireFromString("25.00"),
		Concept:    "restock",
		SupplierID: &supplier,
		CashboxID:  1,
	})
	require.NoError(t, err)
	require.NotNil(t, m.SupplierID)
	require.Equal(t, supplier, *m.SupplierID)
}

func TestCreateMovementRejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryFinanceRepo())

	_, err := svc.Create(ctx, MovementInput{
		Date:      time.Now(),
		Type:      MovementIncome,
		Amount:    decimal.Zero,
		Concept:   "bad",
		CashboxID: 1,
	})
	require.ErrorIs(t, err, shared.ErrInvalidAmount)
}

func TestPatchMovementRenormalizesSupplier(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryFinanceRepo()
	svc := NewService(repo)

	supplier := int64(3)
	m, err := svc.Create(ctx, MovementInput{
		Date:       time.Now(),
		Type:       MovementExpense,
		Amount:     decimal.RequireFromString("10.00"),
		Concept:    "restock",
		SupplierID: &supplier,
		CashboxID:  1,
	})
	require.NoError(t, err)

	income := MovementIncome
	patched, err := svc.Patch(ctx, m.ID, MovementPatch{Type: &income})
	require.NoError(t, err)
	require.Equal(t, MovementIncome, patched.Type)
	require.Nil(t, patched.SupplierID)
}
