package products

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

// Repository defines data access for products.
type Repository interface {
	Create(ctx context.Context, p Product) (*Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Search(ctx context.Context, term string) ([]Product, error)
	Update(ctx context.Context, p Product) (*Product, error)
}

type repository struct {
	db db.Querier
}

// NewRepository builds the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const productColumns = `id, barcode, name, sale_price, cost, margin, tax, active,
	category_id, created_by, updated_by, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Barcode, &p.Name, &p.SalePrice, &p.Cost, &p.Margin,
		&p.Tax, &p.Active, &p.CategoryID, &p.CreatedBy, &p.UpdatedBy,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p Product) (*Product, error) {
	now := time.Now().UTC()
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO products
			(barcode, name, sale_price, cost, margin, tax, active, category_id,
			 created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8, $9, $9)
		RETURNING id`,
		p.Barcode, p.Name, p.SalePrice, p.Cost, p.Margin, p.Tax,
		p.CategoryID, p.CreatedBy, now,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateBarcode
		}
		return nil, fmt.Errorf("products: insert: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *repository) Get(ctx context.Context, id int64) (*Product, error) {
	return scanProduct(r.db.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM products WHERE id = $1`, productColumns), id))
}

func (r *repository) GetByBarcode(ctx context.Context, barcode string) (*Product, error) {
	return scanProduct(r.db.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM products WHERE barcode = $1`, productColumns), barcode))
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	return r.query(ctx, fmt.Sprintf(
		`SELECT %s FROM products ORDER BY name`, productColumns))
}

func (r *repository) Search(ctx context.Context, term string) ([]Product, error) {
	return r.query(ctx, fmt.Sprintf(`
		SELECT %s FROM products
		WHERE name ILIKE $1 OR barcode ILIKE $1
		ORDER BY name`, productColumns), "%"+term+"%")
}

func (r *repository) Update(ctx context.Context, p Product) (*Product, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET barcode = $1, name = $2, sale_price = $3, cost = $4, margin = $5,
		    tax = $6, active = $7, category_id = $8, updated_by = $9, updated_at = $10
		WHERE id = $11`,
		p.Barcode, p.Name, p.SalePrice, p.Cost, p.Margin, p.Tax, p.Active,
		p.CategoryID, p.UpdatedBy, time.Now().UTC(), p.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateBarcode
		}
		return nil, fmt.Errorf("products: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, p.ID)
}

func (r *repository) query(ctx context.Context, sql string, args ...any) ([]Product, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Barcode, &p.Name, &p.SalePrice, &p.Cost,
			&p.Margin, &p.Tax, &p.Active, &p.CategoryID, &p.CreatedBy, &p.UpdatedBy,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
