package receivables

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vertice-pos/vertice-pos/internal/finance"
	"github.com/vertice-pos/vertice-pos/internal/money"
)

// defaultPaymentConcept labels the cash movement when the caller gives none.
const defaultPaymentConcept = "Receivable payment"

// Service handles receivable business logic.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create opens a receivable by hand. The balance starts at the full total.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Receivable, error) {
	if err := money.CheckPositive(input.Total); err != nil {
		return nil, err
	}
	total := money.Quantize(input.Total)
	return s.repo.Create(ctx, Receivable{
		SaleID:   input.SaleID,
		ClientID: input.ClientID,
		Total:    total,
		Balance:  total,
		Status:   StatusPending,
	})
}

// Get returns one receivable.
func (s *Service) Get(ctx context.Context, id int64) (*Receivable, error) {
	return s.repo.Get(ctx, id)
}

// GetBySale returns the receivable opened for a sale, if any.
func (s *Service) GetBySale(ctx context.Context, saleID int64) (*Receivable, error) {
	return s.repo.GetBySale(ctx, saleID)
}

// List returns receivables matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Receivable, error) {
	return s.repo.List(ctx, filter)
}

// ListPayments returns the payments applied to a receivable, oldest first.
func (s *Service) ListPayments(ctx context.Context, receivableID int64) ([]Payment, error) {
	if _, err := s.repo.Get(ctx, receivableID); err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, receivableID)
}

// ApplyPayment records one abono. Checks run in a fixed order against the
// locked row: existence, not void, positive amount, balance still open, and
// amount within the balance. The cash movement, the payment, and the balance
// update commit in one transaction.
func (s *Service) ApplyPayment(ctx context.Context, receivableID int64, input PaymentInput) (*PaymentResult, error) {
	var result PaymentResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		rec, err := tx.GetForUpdate(ctx, receivableID)
		if err != nil {
			return err
		}
		if rec.Status == StatusVoid {
			return ErrVoid
		}
		if err := money.CheckPositive(input.Amount); err != nil {
			return err
		}
		amount := money.Quantize(input.Amount)
		if rec.Balance.LessThanOrEqual(decimal.Zero) {
			return ErrAlreadySettled
		}
		if amount.GreaterThan(rec.Balance) {
			return fmt.Errorf("%w: amount %s exceeds balance %s",
				ErrExcessPayment, amount, rec.Balance)
		}

		date := time.Now().UTC()
		if input.Date != nil {
			date = *input.Date
		}
		concept := input.Concept
		if concept == "" {
			concept = defaultPaymentConcept
		}
		saleID := input.SaleID
		if saleID == nil {
			saleID = rec.SaleID
		}

		payment, err := tx.RecordPayment(ctx, Payment{
			ReceivableID: rec.ID,
			Amount:       amount,
			Date:         date,
		}, finance.Movement{
			Date:      date,
			Type:      finance.MovementIncome,
			Amount:    amount,
			Concept:   concept,
			Note:      input.Note,
			UserID:    input.UserID,
			SaleID:    saleID,
			CashboxID: input.CashboxID,
		})
		if err != nil {
			return err
		}

		balance := rec.Balance.Sub(amount)
		status := DeriveStatus(rec.Total, balance)
		if err := tx.SetBalance(ctx, rec.ID, balance, status); err != nil {
			return err
		}

		rec.Balance = balance
		rec.Status = status
		result = PaymentResult{Payment: *payment, Receivable: *rec}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Patch applies partial changes; nil fields keep current values. The balance
// may never exceed the total, and the status follows the balance unless the
// patch voids the receivable outright.
func (s *Service) Patch(ctx context.Context, id int64, patch Patch) (*Receivable, error) {
	var updated *Receivable
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		current, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		next := *current
		if patch.ClientID != nil {
			next.ClientID = patch.ClientID
		}
		if patch.Total != nil {
			if err := money.CheckPositive(*patch.Total); err != nil {
				return err
			}
			next.Total = money.Quantize(*patch.Total)
		}
		if patch.Balance != nil {
			if err := money.Check(*patch.Balance); err != nil {
				return err
			}
			next.Balance = money.Quantize(*patch.Balance)
		}
		if next.Balance.GreaterThan(next.Total) {
			return fmt.Errorf("%w: balance %s, total %s",
				ErrBalanceExceedsTotal, next.Balance, next.Total)
		}
		if patch.Status != nil && *patch.Status == StatusVoid {
			next.Status = StatusVoid
		} else if current.Status == StatusVoid && patch.Status == nil {
			next.Status = StatusVoid
		} else {
			next.Status = DeriveStatus(next.Total, next.Balance)
		}
		updated, err = tx.Update(ctx, next)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
