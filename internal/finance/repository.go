package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vertice-pos/vertice-pos/internal/platform/db"
)

// InsertMovement writes one movement inside the caller's transaction and
// returns its id. The receivable ledger uses it so the payment and its
// movement commit or roll back together.
func InsertMovement(ctx context.Context, q db.Querier, m Movement) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO financial_movements
			(date, type, amount, concept, note, user_id, sale_id, supplier_id, cashbox_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		m.Date, m.Type, m.Amount, m.Concept, m.Note, m.UserID, m.SaleID,
		normalizeSupplier(m.Type, m.SupplierID), m.CashboxID, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("finance: insert movement: %w", err)
	}
	return id, nil
}

// Repository defines data access for financial movements.
type Repository interface {
	Insert(ctx context.Context, m Movement) (*Movement, error)
	Get(ctx context.Context, id int64) (*Movement, error)
	List(ctx context.Context, filter ListFilter) ([]Movement, error)
	Update(ctx context.Context, m Movement) (*Movement, error)
	SumByCashbox(ctx context.Context, cashboxID int64, from, to time.Time) (income, expense decimal.Decimal, err error)
}

type repository struct {
	db   db.Querier
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

const movementColumns = `id, date, type, amount, concept, note, user_id, sale_id,
	supplier_id, cashbox_id, created_at`

func scanMovement(row pgx.Row) (*Movement, error) {
	var m Movement
	err := row.Scan(&m.ID, &m.Date, &m.Type, &m.Amount, &m.Concept, &m.Note,
		&m.UserID, &m.SaleID, &m.SupplierID, &m.CashboxID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) Insert(ctx context.Context, m Movement) (*Movement, error) {
	id, err := InsertMovement(ctx, r.db, m)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *repository) Get(ctx context.Context, id int64) (*Movement, error) {
	return scanMovement(r.db.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM financial_movements WHERE id = $1`, movementColumns), id))
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Movement, error) {
	query := fmt.Sprintf(`SELECT %s FROM financial_movements WHERE 1=1`, movementColumns)
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.From != nil {
		query += " AND date >= " + arg(*filter.From)
	}
	if filter.To != nil {
		query += " AND date <= " + arg(*filter.To)
	}
	if filter.CashboxID != nil {
		query += " AND cashbox_id = " + arg(*filter.CashboxID)
	}
	if filter.Type != nil {
		query += " AND type = " + arg(*filter.Type)
	}
	if filter.SupplierID != nil {
		query += " AND supplier_id = " + arg(*filter.SupplierID)
	}
	if filter.UserID != nil {
		query += " AND user_id = " + arg(*filter.UserID)
	}
	if filter.SaleID != nil {
		query += " AND sale_id = " + arg(*filter.SaleID)
	}
	query += " ORDER BY date DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.Date, &m.Type, &m.Amount, &m.Concept, &m.Note,
			&m.UserID, &m.SaleID, &m.SupplierID, &m.CashboxID, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repository) Update(ctx context.Context, m Movement) (*Movement, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE financial_movements
		SET date = $1, type = $2, amount = $3, concept = $4, note = $5,
		    user_id = $6, sale_id = $7, supplier_id = $8, cashbox_id = $9
		WHERE id = $10`,
		m.Date, m.Type, m.Amount, m.Concept, m.Note, m.UserID, m.SaleID,
		normalizeSupplier(m.Type, m.SupplierID), m.CashboxID, m.ID)
	if err != nil {
		return nil, fmt.Errorf("finance: update movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, m.ID)
}

func (r *repository) SumByCashbox(ctx context.Context, cashboxID int64, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	var income, expense decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'INCOME'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'EXPENSE'), 0)
		FROM financial_movements
		WHERE cashbox_id = $1 AND date >= $2 AND date <= $3`,
		cashboxID, from, to,
	).Scan(&income, &expense)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return income, expense, nil
}
