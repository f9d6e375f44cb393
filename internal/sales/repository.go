package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vertice-pos/vertice-pos/internal/platform/db"
	"github.com/vertice-pos/vertice-pos/internal/receivables"
	"github.com/vertice-pos/vertice-pos/internal/stock"
)

// invoicePrefix and invoiceSeq produce auto-assigned invoice numbers like
// POS-000042 when the caller supplies none.
const (
	invoicePrefix = "POS-%06d"
	invoiceSeq    = "sale_invoice_seq"
)

// Repository defines data access for sales. The coordinator runs every
// mutation through WithTx; the stock and receivable helpers execute on the
// same connection so the whole call commits or rolls back as one.
type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error
	Insert(ctx context.Context, sale Sale, lines []Line) (*Sale, error)
	Get(ctx context.Context, id int64) (*Sale, error)
	List(ctx context.Context) ([]Sale, error)
	Search(ctx context.Context, term string) ([]Sale, error)
	Summary(ctx context.Context, from, to *time.Time) ([]SummaryRow, error)
	UpdateHeader(ctx context.Context, sale Sale) error
	ReplaceLines(ctx context.Context, saleID int64, lines []Line) error
	SetActive(ctx context.Context, id int64, active bool) error
	ApplyStockDeltas(ctx context.Context, deltas map[int64]int64) error
	EnsureReceivable(ctx context.Context, saleID int64, clientID *uuid.UUID, total decimal.Decimal) (int64, error)
}

type repository struct {
	db   db.Querier
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func (r *repository) Insert(ctx context.Context, sale Sale, lines []Line) (*Sale, error) {
	invoice := sale.InvoiceNumber
	if invoice == nil || *invoice == "" {
		var next int64
		if err := r.db.QueryRow(ctx,
			fmt.Sprintf(`SELECT nextval('%s')`, invoiceSeq)).Scan(&next); err != nil {
			return nil, fmt.Errorf("sales: next invoice number: %w", err)
		}
		n := fmt.Sprintf(invoicePrefix, next)
		invoice = &n
	}
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO sales
			(date, subtotal, tax, discount, total, payment_method, is_credit,
			 active, note, invoice_number, client_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		sale.Date, sale.Subtotal, sale.Tax, sale.Discount, sale.Total,
		sale.PaymentMethod, sale.IsCredit, sale.Active, sale.Note,
		invoice, sale.ClientID, sale.UserID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("sales: insert: %w", err)
	}
	if err := r.insertLines(ctx, id, lines); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *repository) insertLines(ctx context.Context, saleID int64, lines []Line) error {
	for _, line := range lines {
		_, err := r.db.Exec(ctx, `
			INSERT INTO sale_lines (sale_id, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5)`,
			saleID, line.ProductID, line.Quantity, line.UnitPrice, line.Subtotal)
		if err != nil {
			return fmt.Errorf("sales: insert line for product %d: %w", line.ProductID, err)
		}
	}
	return nil
}

const saleColumns = `id, date, subtotal, tax, discount, total, payment_method,
	is_credit, active, note, invoice_number, client_id, user_id`

func (r *repository) Get(ctx context.Context, id int64) (*Sale, error) {
	var s Sale
	err := r.db.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM sales WHERE id = $1`, saleColumns), id,
	).Scan(&s.ID, &s.Date, &s.Subtotal, &s.Tax, &s.Discount, &s.Total,
		&s.PaymentMethod, &s.IsCredit, &s.Active, &s.Note, &s.InvoiceNumber,
		&s.ClientID, &s.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	lines, err := r.linesFor(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Lines = lines
	return &s, nil
}

func (r *repository) linesFor(ctx context.Context, saleID int64) ([]Line, error) {
	rows, err := r.db.Query(ctx, `
		SELECT l.id, l.sale_id, l.product_id, l.quantity, l.unit_price, l.subtotal, p.name
		FROM sale_lines l
		LEFT JOIN products p ON p.id = l.product_id
		WHERE l.sale_id = $1
		ORDER BY l.id`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []Line{}
	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.ID, &line.SaleID, &line.ProductID, &line.Quantity,
			&line.UnitPrice, &line.Subtotal, &line.ProductName); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *repository) List(ctx context.Context) ([]Sale, error) {
	return r.querySales(ctx, fmt.Sprintf(
		`SELECT %s FROM sales ORDER BY date DESC`, saleColumns))
}

func (r *repository) Search(ctx context.Context, term string) ([]Sale, error) {
	return r.querySales(ctx, fmt.Sprintf(`
		SELECT %s FROM sales
		WHERE invoice_number ILIKE $1 OR note ILIKE $1
		ORDER BY date DESC`, saleColumns), "%"+term+"%")
}

func (r *repository) querySales(ctx context.Context, sql string, args ...any) ([]Sale, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.Date, &s.Subtotal, &s.Tax, &s.Discount, &s.Total,
			&s.PaymentMethod, &s.IsCredit, &s.Active, &s.Note, &s.InvoiceNumber,
			&s.ClientID, &s.UserID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		lines, err := r.linesFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Lines = lines
	}
	return out, nil
}

func (r *repository) Summary(ctx context.Context, from, to *time.Time) ([]SummaryRow, error) {
	query := `
		SELECT s.id, s.date, s.invoice_number, s.total, s.is_credit, c.name, u.name
		FROM sales s
		LEFT JOIN clients c ON c.id = s.client_id
		LEFT JOIN users u ON u.id = s.user_id
		WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if from != nil {
		query += " AND s.date >= " + arg(*from)
	}
	if to != nil {
		query += " AND s.date <= " + arg(*to)
	}
	query += " ORDER BY s.date DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var row SummaryRow
		if err := rows.Scan(&row.ID, &row.Date, &row.InvoiceNumber, &row.Total,
			&row.IsCredit, &row.ClientName, &row.UserName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *repository) UpdateHeader(ctx context.Context, sale Sale) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE sales
		SET date = $1, subtotal = $2, tax = $3, discount = $4, total = $5,
		    payment_method = $6, is_credit = $7, active = $8, note = $9,
		    invoice_number = $10, client_id = $11, user_id = $12
		WHERE id = $13`,
		sale.Date, sale.Subtotal, sale.Tax, sale.Discount, sale.Total,
		sale.PaymentMethod, sale.IsCredit, sale.Active, sale.Note,
		sale.InvoiceNumber, sale.ClientID, sale.UserID, sale.ID)
	if err != nil {
		return fmt.Errorf("sales: update header: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ReplaceLines(ctx context.Context, saleID int64, lines []Line) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM sale_lines WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("sales: delete lines: %w", err)
	}
	return r.insertLines(ctx, saleID, lines)
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE sales SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("sales: set active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ApplyStockDeltas(ctx context.Context, deltas map[int64]int64) error {
	return stock.ApplyDeltas(ctx, stock.StoreFor(r.db), deltas)
}

func (r *repository) EnsureReceivable(ctx context.Context, saleID int64, clientID *uuid.UUID, total decimal.Decimal) (int64, error) {
	return receivables.EnsureForSale(ctx, r.db, saleID, clientID, total)
}
