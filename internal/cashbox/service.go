package cashbox

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vertice-pos/vertice-pos/internal/money"
	"github.com/vertice-pos/vertice-pos/internal/shared"
)

// MovementSummer totals the cash movements of one register over a window.
// The finance repository satisfies it.
type MovementSummer interface {
	SumByCashbox(ctx context.Context, cashboxID int64, from, to time.Time) (income, expense decimal.Decimal, err error)
}

// Service handles cashbox and register-session logic.
type Service struct {
	repo   Repository
	summer MovementSummer
}

// NewService builds Service.
func NewService(repo Repository, summer MovementSummer) *Service {
	return &Service{repo: repo, summer: summer}
}

// Create registers a cashbox.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Cashbox, error) {
	if err := money.Check(input.OpeningBalance); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, Cashbox{
		Name:           input.Name,
		OpeningBalance: money.Quantize(input.OpeningBalance),
	})
}

// Get returns one cashbox.
func (s *Service) Get(ctx context.Context, id int64) (*Cashbox, error) {
	return s.repo.Get(ctx, id)
}

// List returns all cashboxes.
func (s *Service) List(ctx context.Context) ([]Cashbox, error) {
	return s.repo.List(ctx)
}

// Patch applies partial cashbox changes.
func (s *Service) Patch(ctx context.Context, id int64, patch Patch) (*Cashbox, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *current
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.OpeningBalance != nil {
		if err := money.Check(*patch.OpeningBalance); err != nil {
			return nil, err
		}
		next.OpeningBalance = money.Quantize(*patch.OpeningBalance)
	}
	return s.repo.Update(ctx, next)
}

// OpenSession starts a register session. Only one open session per cashbox.
// The opening balance defaults to the cashbox's configured one.
func (s *Service) OpenSession(ctx context.Context, cashboxID int64, input OpenInput) (*Closure, error) {
	box, err := s.repo.Get(ctx, cashboxID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetOpenClosure(ctx, cashboxID); err == nil {
		return nil, ErrSessionOpen
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	openedAt := time.Now().UTC()
	if input.OpenedAt != nil {
		openedAt = *input.OpenedAt
	}
	opening := box.OpeningBalance
	if input.OpeningBalance != nil {
		if err := money.Check(*input.OpeningBalance); err != nil {
			return nil, err
		}
		opening = money.Quantize(*input.OpeningBalance)
	}
	return s.repo.InsertClosure(ctx, Closure{
		CashboxID:      cashboxID,
		OpenedAt:       openedAt,
		OpeningBalance: opening,
	})
}

// CloseSession ends a register session, totalling the movements recorded
// between open and close. Closing balance = opening + income - expense.
func (s *Service) CloseSession(ctx context.Context, cashboxID, closureID int64, input CloseInput) (*Closure, error) {
	closure, err := s.repo.GetClosure(ctx, closureID)
	if err != nil {
		return nil, err
	}
	if closure.CashboxID != cashboxID {
		return nil, ErrClosureNotFound
	}
	if closure.ClosedAt != nil {
		return nil, ErrAlreadyClosed
	}

	closedAt := time.Now().UTC()
	if input.ClosedAt != nil {
		closedAt = *input.ClosedAt
	}
	income, expense, err := s.summer.SumByCashbox(ctx, cashboxID, closure.OpenedAt, closedAt)
	if err != nil {
		return nil, err
	}
	closing := money.Quantize(closure.OpeningBalance.Add(income).Sub(expense))

	closure.ClosedAt = &closedAt
	closure.ClosingBalance = &closing
	closure.TotalIncome = money.Quantize(income)
	closure.TotalExpense = money.Quantize(expense)
	if input.Note != nil {
		closure.Note = input.Note
	}
	return s.repo.UpdateClosure(ctx, *closure)
}

// ListClosures returns a cashbox's sessions, newest first.
func (s *Service) ListClosures(ctx context.Context, cashboxID int64) ([]Closure, error) {
	if _, err := s.repo.Get(ctx, cashboxID); err != nil {
		return nil, err
	}
	return s.repo.ListClosures(ctx, cashboxID)
}
