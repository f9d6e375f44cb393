package sales

import (
	"context"
	"time"

	"github.com/vertice-pos/vertice-pos/internal/money"
)

// StockPolicy decides which stock deltas a brand-new sale applies. Stock
// consumption on create is currently switched off and only line replacements
// on update move stock; DecrementOnCreate exists for when that changes.
type StockPolicy interface {
	DeltasForCreate(lines []Line) map[int64]int64
}

// NoStockOnCreate is the active policy: creating a sale leaves stock alone.
type NoStockOnCreate struct{}

// DeltasForCreate returns no deltas.
func (NoStockOnCreate) DeltasForCreate([]Line) map[int64]int64 { return nil }

// DecrementOnCreate consumes stock for every line of a new sale.
type DecrementOnCreate struct{}

// DeltasForCreate returns one negative delta per product.
func (DecrementOnCreate) DeltasForCreate(lines []Line) map[int64]int64 {
	deltas := make(map[int64]int64, len(lines))
	for _, line := range lines {
		deltas[line.ProductID] -= line.Quantity
	}
	return deltas
}

// Service coordinates sales with their lines, stock deltas, and receivables.
// Every mutation runs inside one repository transaction: header, lines, stock
// and receivable all commit or none do.
type Service struct {
	repo   Repository
	policy StockPolicy
	cache  *SummaryCache
}

// NewService builds Service. A nil policy defaults to NoStockOnCreate; a nil
// cache disables summary caching.
func NewService(repo Repository, policy StockPolicy, cache *SummaryCache) *Service {
	if policy == nil {
		policy = NoStockOnCreate{}
	}
	return &Service{repo: repo, policy: policy, cache: cache}
}

// Create records a new sale.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Sale, error) {
	method, isCredit, err := ClassifyPayment(req.PaymentMethod, req.IsCredit)
	if err != nil {
		return nil, err
	}
	subtotal, lines, err := BuildLines(req.Lines)
	if err != nil {
		return nil, err
	}
	if err := money.Check(req.Tax); err != nil {
		return nil, err
	}
	if err := money.Check(req.Discount); err != nil {
		return nil, err
	}
	tax := money.Quantize(req.Tax)
	discount := money.Quantize(req.Discount)
	total, err := Total(subtotal, tax, discount)
	if err != nil {
		return nil, err
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = *req.Date
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	var created *Sale
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		created, err = tx.Insert(ctx, Sale{
			Date:          date,
			Subtotal:      subtotal,
			Tax:           tax,
			Discount:      discount,
			Total:         total,
			PaymentMethod: method,
			IsCredit:      isCredit,
			Active:        active,
			Note:          req.Note,
			InvoiceNumber: req.InvoiceNumber,
			ClientID:      req.ClientID,
			UserID:        req.UserID,
		}, lines)
		if err != nil {
			return err
		}
		if deltas := s.policy.DeltasForCreate(created.Lines); len(deltas) > 0 {
			if err := tx.ApplyStockDeltas(ctx, deltas); err != nil {
				return err
			}
		}
		if isCredit {
			if _, err := tx.EnsureReceivable(ctx, created.ID, created.ClientID, total); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies partial header changes and optionally replaces the full line
// set. Replaced lines produce stock deltas of old minus new quantity per
// product, applied in the same transaction.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Sale, error) {
	var updated *Sale
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		current, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}

		subtotal := current.Subtotal
		var newLines []Line
		var deltas map[int64]int64
		if req.Lines != nil {
			subtotal, newLines, err = BuildLines(*req.Lines)
			if err != nil {
				return err
			}
			deltas = lineDeltas(current.Lines, newLines)
		}

		tax := current.Tax
		if req.Tax != nil {
			if err := money.Check(*req.Tax); err != nil {
				return err
			}
			tax = money.Quantize(*req.Tax)
		}
		discount := current.Discount
		if req.Discount != nil {
			if err := money.Check(*req.Discount); err != nil {
				return err
			}
			discount = money.Quantize(*req.Discount)
		}
		total, err := Total(subtotal, tax, discount)
		if err != nil {
			return err
		}

		method := current.PaymentMethod
		if req.PaymentMethod.Set {
			method = req.PaymentMethod.Ptr()
		}
		isCredit := current.IsCredit
		if req.IsCredit.Set && req.IsCredit.Valid {
			isCredit = req.IsCredit.Value
		}
		method, isCredit, err = ClassifyPayment(method, isCredit)
		if err != nil {
			return err
		}

		next := *current
		next.Subtotal = subtotal
		next.Tax = tax
		next.Discount = discount
		next.Total = total
		next.PaymentMethod = method
		next.IsCredit = isCredit
		if req.Date != nil {
			next.Date = *req.Date
		}
		if req.Active != nil {
			next.Active = *req.Active
		}
		if req.Note != nil {
			next.Note = req.Note
		}
		if req.InvoiceNumber != nil {
			next.InvoiceNumber = req.InvoiceNumber
		}
		if req.ClientID != nil {
			next.ClientID = req.ClientID
		}
		if req.UserID != nil {
			next.UserID = req.UserID
		}

		if err := tx.UpdateHeader(ctx, next); err != nil {
			return err
		}
		if req.Lines != nil {
			if err := tx.ReplaceLines(ctx, id, newLines); err != nil {
				return err
			}
			if err := tx.ApplyStockDeltas(ctx, deltas); err != nil {
				return err
			}
		}
		if isCredit {
			if _, err := tx.EnsureReceivable(ctx, id, next.ClientID, total); err != nil {
				return err
			}
		}
		updated, err = tx.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateLines replaces the full line set and rescales tax and discount so
// their share of the subtotal stays constant.
func (s *Service) UpdateLines(ctx context.Context, id int64, req LinesRequest) (*Sale, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	newSubtotal, _, err := BuildLines(req.Lines)
	if err != nil {
		return nil, err
	}
	tax, discount := RescaleTaxDiscount(current.Subtotal, current.Tax, current.Discount, newSubtotal)
	lines := req.Lines
	return s.Update(ctx, id, UpdateRequest{
		Lines:    &lines,
		Tax:      &tax,
		Discount: &discount,
	})
}

// DeleteLine removes every line referencing a product. Removing an absent
// product is a no-op returning the sale unchanged. Stock, tax and discount
// follow from the line replacement.
func (s *Service) DeleteLine(ctx context.Context, id, productID int64) (*Sale, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	remaining := make([]LineRequest, 0, len(current.Lines))
	for _, line := range current.Lines {
		if line.ProductID == productID {
			continue
		}
		subtotal := line.Subtotal
		remaining = append(remaining, LineRequest{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  &subtotal,
		})
	}
	if len(remaining) == len(current.Lines) {
		return current, nil
	}
	return s.UpdateLines(ctx, id, LinesRequest{Lines: remaining})
}

// UpdateStatus voids or reactivates a sale without touching its money fields.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req StatusRequest) (*Sale, error) {
	if err := s.repo.SetActive(ctx, id, req.Active); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Get returns one sale with its lines.
func (s *Service) Get(ctx context.Context, id int64) (*Sale, error) {
	return s.repo.Get(ctx, id)
}

// List returns all sales, newest first.
func (s *Service) List(ctx context.Context) ([]Sale, error) {
	return s.repo.List(ctx)
}

// Search matches sales by invoice number or note.
func (s *Service) Search(ctx context.Context, term string) ([]Sale, error) {
	return s.repo.Search(ctx, term)
}

// Summary returns date-filtered summary rows, served from the cache when one
// is configured and fresh.
func (s *Service) Summary(ctx context.Context, from, to *time.Time) ([]SummaryRow, error) {
	if s.cache != nil {
		if rows, ok := s.cache.Get(ctx, from, to); ok {
			return rows, nil
		}
	}
	rows, err := s.repo.Summary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, from, to, rows)
	}
	return rows, nil
}

// lineDeltas computes old minus new quantity per product across both line
// sets. Positive deltas return stock, negative ones consume it.
func lineDeltas(oldLines, newLines []Line) map[int64]int64 {
	deltas := make(map[int64]int64)
	for _, line := range oldLines {
		deltas[line.ProductID] += line.Quantity
	}
	for _, line := range newLines {
		deltas[line.ProductID] -= line.Quantity
	}
	return deltas
}
