package receivables

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vertice-pos/vertice-pos/internal/finance"
	"github.com/vertice-pos/vertice-pos/internal/platform/db"
)

// EnsureForSale opens a receivable for a credit sale inside the caller's
// transaction, or returns the existing one. A sale carries at most one
// receivable, so re-running a sale update never duplicates the debt.
func EnsureForSale(ctx context.Context, q db.Querier, saleID int64, clientID *uuid.UUID, total decimal.Decimal) (int64, error) {
	var id int64
	err := q.QueryRow(ctx,
		`SELECT id FROM receivables WHERE sale_id = $1`, saleID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("receivables: lookup by sale: %w", err)
	}
	now := time.Now().UTC()
	err = q.QueryRow(ctx, `
		INSERT INTO receivables (sale_id, client_id, total, balance, status, created_at, updated_at)
		VALUES ($1, $2, $3, $3, $4, $5, $5)
		RETURNING id`,
		saleID, clientID, total, StatusPending, now,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("receivables: create for sale: %w", err)
	}
	return id, nil
}

// Repository defines data access for receivables and their payments.
type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error
	Create(ctx context.Context, rec Receivable) (*Receivable, error)
	Get(ctx context.Context, id int64) (*Receivable, error)
	GetForUpdate(ctx context.Context, id int64) (*Receivable, error)
	GetBySale(ctx context.Context, saleID int64) (*Receivable, error)
	List(ctx context.Context, filter ListFilter) ([]Receivable, error)
	Update(ctx context.Context, rec Receivable) (*Receivable, error)
	SetBalance(ctx context.Context, id int64, balance decimal.Decimal, status Status) error
	RecordPayment(ctx context.Context, p Payment, m finance.Movement) (*Payment, error)
	ListPayments(ctx context.Context, receivableID int64) ([]Payment, error)
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

const receivableColumns = `r.id, r.sale_id, r.client_id, r.total, r.balance, r.status,
	r.created_at, r.updated_at, c.name, s.invoice_number`

const receivableJoins = `FROM receivables r
	LEFT JOIN clients c ON c.id = r.client_id
	LEFT JOIN sales s ON s.id = r.sale_id`

func scanReceivable(row pgx.Row) (*Receivable, error) {
	var rec Receivable
	err := row.Scan(&rec.ID, &rec.SaleID, &rec.ClientID, &rec.Total, &rec.Balance,
		&rec.Status, &rec.CreatedAt, &rec.UpdatedAt, &rec.ClientName, &rec.InvoiceNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *repository) Create(ctx context.Context, rec Receivable) (*Receivable, error) {
	now := time.Now().UTC()
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO receivables (sale_id, client_id, total, balance, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id`,
		rec.SaleID, rec.ClientID, rec.Total, rec.Balance, rec.Status, now,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("receivables: create: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *repository) Get(ctx context.Context, id int64) (*Receivable, error) {
	return scanReceivable(r.db.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s %s WHERE r.id = $1`, receivableColumns, receivableJoins), id))
}

func (r *repository) GetForUpdate(ctx context.Context, id int64) (*Receivable, error) {
	var rec Receivable
	err := r.db.QueryRow(ctx, `
		SELECT id, sale_id, client_id, total, balance, status, created_at, updated_at
		FROM receivables WHERE id = $1 FOR UPDATE`, id,
	).Scan(&rec.ID, &rec.SaleID, &rec.ClientID, &rec.Total, &rec.Balance,
		&rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *repository) GetBySale(ctx context.Context, saleID int64) (*Receivable, error) {
	return scanReceivable(r.db.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s %s WHERE r.sale_id = $1`, receivableColumns, receivableJoins), saleID))
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Receivable, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE 1=1`, receivableColumns, receivableJoins)
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.ClientID != nil {
		query += " AND r.client_id = " + arg(*filter.ClientID)
	}
	if filter.SaleID != nil {
		query += " AND r.sale_id = " + arg(*filter.SaleID)
	}
	if filter.Status != nil {
		query += " AND r.status = " + arg(*filter.Status)
	}
	query += " ORDER BY r.created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Receivable
	for rows.Next() {
		var rec Receivable
		if err := rows.Scan(&rec.ID, &rec.SaleID, &rec.ClientID, &rec.Total, &rec.Balance,
			&rec.Status, &rec.CreatedAt, &rec.UpdatedAt, &rec.ClientName, &rec.InvoiceNumber); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *repository) Update(ctx context.Context, rec Receivable) (*Receivable, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE receivables
		SET client_id = $1, total = $2, balance = $3, status = $4, updated_at = $5
		WHERE id = $6`,
		rec.ClientID, rec.Total, rec.Balance, rec.Status, time.Now().UTC(), rec.ID)
	if err != nil {
		return nil, fmt.Errorf("receivables: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, rec.ID)
}

func (r *repository) SetBalance(ctx context.Context, id int64, balance decimal.Decimal, status Status) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE receivables SET balance = $1, status = $2, updated_at = $3 WHERE id = $4`,
		balance, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("receivables: set balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordPayment writes the cash movement and the payment on the same
// connection, so inside WithTx both commit or roll back together.
func (r *repository) RecordPayment(ctx context.Context, p Payment, m finance.Movement) (*Payment, error) {
	movementID, err := finance.InsertMovement(ctx, r.db, m)
	if err != nil {
		return nil, err
	}
	err = r.db.QueryRow(ctx, `
		INSERT INTO receivable_payments (receivable_id, movement_id, amount, date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		p.ReceivableID, movementID, p.Amount, p.Date, time.Now().UTC(),
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("receivables: record payment: %w", err)
	}
	p.MovementID = movementID
	return &p, nil
}

func (r *repository) ListPayments(ctx context.Context, receivableID int64) ([]Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, receivable_id, movement_id, amount, date, created_at
		FROM receivable_payments
		WHERE receivable_id = $1
		ORDER BY date ASC, id ASC`, receivableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.ReceivableID, &p.MovementID, &p.Amount, &p.Date, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
