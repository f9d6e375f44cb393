package suppliers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vertice-pos/vertice-pos/internal/platform/db"
)

// Repository defines data access for suppliers.
type Repository interface {
	Create(ctx context.Context, s Supplier) (*Supplier, error)
	Get(ctx context.Context, id int64) (*Supplier, error)
	List(ctx context.Context) ([]Supplier, error)
	Update(ctx context.Context, s Supplier) (*Supplier, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db db.Querier
}

// NewRepository builds the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

func (r *repository) Create(ctx context.Context, s Supplier) (*Supplier, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO suppliers (name, phone, email, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		s.Name, s.Phone, s.Email, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("suppliers: insert: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *repository) Get(ctx context.Context, id int64) (*Supplier, error) {
	var s Supplier
	err := r.db.QueryRow(ctx,
		`SELECT id, name, phone, email, created_at FROM suppliers WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Phone, &s.Email, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context) ([]Supplier, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, phone, email, created_at FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Phone, &s.Email, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) Update(ctx context.Context, s Supplier) (*Supplier, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE suppliers SET name = $1, phone = $2, email = $3 WHERE id = $4`,
		s.Name, s.Phone, s.Email, s.ID)
	if err != nil {
		return nil, fmt.Errorf("suppliers: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, s.ID)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("suppliers: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
