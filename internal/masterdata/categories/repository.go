package categories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vertice-pos/vertice-pos/internal/platform/db"
)

// Repository defines data access for categories.
type Repository interface {
	Create(ctx context.Context, c Category) (*Category, error)
	Get(ctx context.Context, id int64) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, c Category) (*Category, error)
}

type repository struct {
	db db.Querier
}

// NewRepository builds the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const categoryColumns = `id, name, description, active, created_by, updated_by,
	created_at, updated_at`

func (r *repository) Create(ctx context.Context, c Category) (*Category, error) {
	now := time.Now().UTC()
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (name, description, active, created_by, created_at, updated_at)
		VALUES ($1, $2, TRUE, $3, $4, $4)
		RETURNING id`,
		c.Name, c.Description, c.CreatedBy, now,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("categories: insert: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *repository) Get(ctx context.Context, id int64) (*Category, error) {
	var c Category
	err := r.db.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM categories WHERE id = $1`, categoryColumns), id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.Active, &c.CreatedBy, &c.UpdatedBy,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM categories ORDER BY name`, categoryColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Active, &c.CreatedBy,
			&c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) Update(ctx context.Context, c Category) (*Category, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE categories
		SET name = $1, description = $2, active = $3, updated_by = $4, updated_at = $5
		WHERE id = $6`,
		c.Name, c.Description, c.Active, c.UpdatedBy, time.Now().UTC(), c.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("categories: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, c.ID)
}
