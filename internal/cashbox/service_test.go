package cashbox

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vertice-pos/vertice-pos/internal/shared"
)

type memoryCashboxRepo struct {
	boxes         map[int64]*Cashbox
	closures      map[int64]*Closure
	nextBoxID     int64
	nextClosureID int64
}

func newMemoryCashboxRepo() *memoryCashboxRepo {
	return &memoryCashboxRepo{
		boxes:    make(map[int64]*Cashbox),
		closures: make(map[int64]*Closure),
	}
}

func (r *memoryCashboxRepo) Create(ctx context.Context, c Cashbox) (*Cashbox, error) {
	r.nextBoxID++
	c.ID = r.nextBoxID
	c.CreatedAt = time.Now()
	r.boxes[c.ID] = &c
	dup := c
	return &dup, nil
}

func (r *memoryCashboxRepo) Get(ctx context.Context, id int64) (*Cashbox, error) {
	c, ok := r.boxes[id]
	if !ok {
		return nil, ErrNotFound
	}
	dup := *c
	return &dup, nil
}

func (r *memoryCashboxRepo) List(ctx context.Context) ([]Cashbox, error) {
	var out []Cashbox
	for _, c := range r.boxes {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memoryCashboxRepo) Update(ctx context.Context, c Cashbox) (*Cashbox, error) {
	if _, ok := r.boxes[c.ID]; !ok {
		return nil, ErrNotFound
	}
	r.boxes[c.ID] = &c
	dup := c
	return &dup, nil
}

func (r *memoryCashboxRepo) InsertClosure(ctx context.Context, c Closure) (*Closure, error) {
	r.nextClosureID++
	c.ID = r.nextClosureID
	c.TotalIncome = decimal.Zero
	c.TotalExpense = decimal.Zero
	c.CreatedAt = time.Now()
	r.closures[c.ID] = &c
	dup := c
	return &dup, nil
}

func (r *memoryCashboxRepo) GetClosure(ctx context.Context, id int64) (*Closure, error) {
	c, ok := r.closures[id]
	if !ok {
		return nil, ErrClosureNotFound
	}
	dup := *c
	return &dup, nil
}

func (r *memoryCashboxRepo) GetOpenClosure(ctx context.Context, cashboxID int64) (*Closure, error) {
	for _, c := range r.closures {
		if c.CashboxID == cashboxID && c.ClosedAt == nil {
			dup := *c
			return &dup, nil
		}
	}
	return nil, ErrClosureNotFound
}

func (r *memoryCashboxRepo) ListClosures(ctx context.Context, cashboxID int64) ([]Closure, error) {
	var out []Closure
	for _, c := range r.closures {
		if c.CashboxID == cashboxID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memoryCashboxRepo) UpdateClosure(ctx context.Context, c Closure) (*Closure, error) {
	if _, ok := r.closures[c.ID]; !ok {
		return nil, ErrClosureNotFound
	}
	r.closures[c.ID] = &c
	dup := c
	return &dup, nil
}

type fixedSummer struct {
	income  decimal.Decimal
	expense decimal.Decimal
}

func (s fixedSummer) SumByCashbox(ctx context.Context, cashboxID int64, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	return s.income, s.expense, nil
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryCashboxRepo()
	svc := NewService(repo, fixedSummer{income: d("500.00"), expense: d("120.00")})

	box, err := svc.Create(ctx, CreateInput{Name: "front desk", OpeningBalance: d("100.00")})
	require.NoError(t, err)

	closure, err := svc.OpenSession(ctx, box.ID, OpenInput{})
	require.NoError(t, err)
	require.Nil(t, closure.ClosedAt)
	require.True(t, closure.OpeningBalance.Equal(d("100.00")))

	closed, err := svc.CloseSession(ctx, box.ID, closure.ID, CloseInput{})
	require.NoError(t, err)
	require.NotNil(t, closed.ClosedAt)
	require.True(t, closed.TotalIncome.Equal(d("500.00")))
	require.True(t, closed.TotalExpense.Equal(d("120.00")))
	require.True(t, closed.ClosingBalance.Equal(d("480.00")))
}

func TestOpenSessionRejectsSecondOpen(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryCashboxRepo()
	svc := NewService(repo, fixedSummer{})

	box, err := svc.Create(ctx, CreateInput{Name: "front desk"})
	require.NoError(t, err)

	_, err = svc.OpenSession(ctx, box.ID, OpenInput{})
	require.NoError(t, err)

	_, err = svc.OpenSession(ctx, box.ID, OpenInput{})
	require.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestCloseSessionTwiceFails(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryCashboxRepo()
	svc := NewService(repo, fixedSummer{})

	box, err := svc.Create(ctx, CreateInput{Name: "front desk"})
	require.NoError(t, err)
	closure, err := svc.OpenSession(ctx, box.ID, OpenInput{})
	require.NoError(t, err)

	_, err = svc.CloseSession(ctx, box.ID, closure.ID, CloseInput{})
	require.NoError(t, err)

	_, err = svc.CloseSession(ctx, box.ID, closure.ID, CloseInput{})
	require.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestCloseSessionWrongCashbox(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryCashboxRepo()
	svc := NewService(repo, fixedSummer{})

	box, err := svc.Create(ctx, CreateInput{Name: "front desk"})
	require.NoError(t, err)
	other, err := svc.Create(ctx, CreateInput{Name: "back office"})
	require.NoError(t, err)
	closure, err := svc.OpenSession(ctx, box.ID, OpenInput{})
	require.NoError(t, err)

	_, err = svc.CloseSession(ctx, other.ID, closure.ID, CloseInput{})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateRejectsNegativeOpeningBalance(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryCashboxRepo(), fixedSummer{})

	_, err := svc.Create(ctx, CreateInput{Name: "front desk", OpeningBalance: d("-1.00")})
	require.ErrorIs(t, err, shared.ErrValidation)
}
