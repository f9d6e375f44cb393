package cashbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vertice-pos/vertice-pos/internal/platform/db"
)

// Repository defines data access for cashboxes and their closures.
type Repository interface {
	Create(ctx context.Context, c Cashbox) (*Cashbox, error)
	Get(ctx context.Context, id int64) (*Cashbox, error)
	List(ctx context.Context) ([]Cashbox, error)
	Update(ctx context.Context, c Cashbox) (*Cashbox, error)
	InsertClosure(ctx context.Context, c Closure) (*Closure, error)
	GetClosure(ctx context.Context, id int64) (*Closure, error)
	GetOpenClosure(ctx context.Context, cashboxID int64) (*Closure, error)
	ListClosures(ctx context.Context, cashboxID int64) ([]Closure, error)
	UpdateClosure(ctx context.Context, c Closure) (*Closure, error)
}

type repository struct {
	db db.Querier
}

// NewRepository builds the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

func (r *repository) Create(ctx context.Context, c Cashbox) (*Cashbox, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO cashboxes (name, opening_balance, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`,
		c.Name, c.OpeningBalance, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("cashbox: insert: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *repository) Get(ctx context.Context, id int64) (*Cashbox, error) {
	var c Cashbox
	err := r.db.QueryRow(ctx, `
		SELECT id, name, opening_balance, created_at FROM cashboxes WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.OpeningBalance, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]Cashbox, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, opening_balance, created_at FROM cashboxes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Cashbox
	for rows.Next() {
		var c Cashbox
		if err := rows.Scan(&c.ID, &c.Name, &c.OpeningBalance, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) Update(ctx context.Context, c Cashbox) (*Cashbox, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE cashboxes SET name = $1, opening_balance = $2 WHERE id = $3`,
		c.Name, c.OpeningBalance, c.ID)
	if err != nil {
		return nil, fmt.Errorf("cashbox: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, c.ID)
}

const closureColumns = `id, cashbox_id, opened_at, closed_at, opening_balance,
	closing_balance, total_income, total_expense, note, created_at`

func scanClosure(row pgx.Row) (*Closure, error) {
	var c Closure
	err := row.Scan(&c.ID, &c.CashboxID, &c.OpenedAt, &c.ClosedAt, &c.OpeningBalance,
		&c.ClosingBalance, &c.TotalIncome, &c.TotalExpense, &c.Note, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClosureNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) InsertClosure(ctx context.Context, c Closure) (*Closure, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO cashbox_closures
			(cashbox_id, opened_at, opening_balance, total_income, total_expense, created_at)
		VALUES ($1, $2, $3, 0, 0, $4)
		RETURNING id`,
		c.CashboxID, c.OpenedAt, c.OpeningBalance, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("cashbox: insert closure: %w", err)
	}
	return r.GetClosure(ctx, id)
}

func (r *repository) GetClosure(ctx context.Context, id int64) (*Closure, error) {
	return scanClosure(r.db.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM cashbox_closures WHERE id = $1`, closureColumns), id))
}

func (r *repository) GetOpenClosure(ctx context.Context, cashboxID int64) (*Closure, error) {
	return scanClosure(r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM cashbox_closures
		WHERE cashbox_id = $1 AND closed_at IS NULL
		ORDER BY opened_at DESC LIMIT 1`, closureColumns), cashboxID))
}

func (r *repository) ListClosures(ctx context.Context, cashboxID int64) ([]Closure, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM cashbox_closures
		WHERE cashbox_id = $1 ORDER BY opened_at DESC`, closureColumns), cashboxID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Closure
	for rows.Next() {
		var c Closure
		if err := rows.Scan(&c.ID, &c.CashboxID, &c.OpenedAt, &c.ClosedAt, &c.OpeningBalance,
			&c.ClosingBalance, &c.TotalIncome, &c.TotalExpense, &c.Note, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) UpdateClosure(ctx context.Context, c Closure) (*Closure, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE cashbox_closures
		SET closed_at = $1, closing_balance = $2, total_income = $3,
		    total_expense = $4, note = $5
		WHERE id = $6`,
		c.ClosedAt, c.ClosingBalance, c.TotalIncome, c.TotalExpense, c.Note, c.ID)
	if err != nil {
		return nil, fmt.Errorf("cashbox: update closure: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrClosureNotFound
	}
	return r.GetClosure(ctx, c.ID)
}
