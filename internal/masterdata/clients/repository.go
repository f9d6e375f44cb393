package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vertice-pos/vertice-pos/internal/platform/db"
)

// Repository defines data access for clients.
type Repository interface {
	Create(ctx context.Context, c Client) (*Client, error)
	Get(ctx context.Context, id uuid.UUID) (*Client, error)
	GetByNormalizedName(ctx context.Context, name string) (*Client, error)
	List(ctx context.Context) ([]Client, error)
	Search(ctx context.Context, term string) ([]Client, error)
	Update(ctx context.Context, c Client) (*Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db db.Querier
}

// NewRepository builds the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const clientColumns = `id, name, normalized_name, phone, email,
	discount_amount, discount_percent, created_at`

func scanClient(row pgx.Row) (*Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.NormalizedName, &c.Phone, &c.Email,
		&c.DiscountAmount, &c.DiscountPercent, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, c Client) (*Client, error) {
	id := uuid.New()
	_, err := r.db.Exec(ctx, `
		INSERT INTO clients
			(id, name, normalized_name, phone, email, discount_amount, discount_percent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, c.Name, c.NormalizedName, c.Phone, c.Email,
		c.DiscountAmount, c.DiscountPercent, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("clients: insert: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	return scanClient(r.db.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM clients WHERE id = $1`, clientColumns), id))
}

func (r *repository) GetByNormalizedName(ctx context.Context, name string) (*Client, error) {
	return scanClient(r.db.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s FROM clients WHERE normalized_name = $1`, clientColumns), name))
}

func (r *repository) List(ctx context.Context) ([]Client, error) {
	return r.query(ctx, fmt.Sprintf(
		`SELECT %s FROM clients ORDER BY normalized_name`, clientColumns))
}

func (r *repository) Search(ctx context.Context, term string) ([]Client, error) {
	return r.query(ctx, fmt.Sprintf(`
		SELECT %s FROM clients
		WHERE normalized_name ILIKE $1 ORDER BY normalized_name`, clientColumns),
		"%"+Normalize(term)+"%")
}

func (r *repository) Update(ctx context.Context, c Client) (*Client, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE clients
		SET name = $1, normalized_name = $2, phone = $3, email = $4,
		    discount_amount = $5, discount_percent = $6
		WHERE id = $7`,
		c.Name, c.NormalizedName, c.Phone, c.Email,
		c.DiscountAmount, c.DiscountPercent, c.ID)
	if err != nil {
		return nil, fmt.Errorf("clients: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, c.ID)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("clients: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) query(ctx context.Context, sql string, args ...any) ([]Client, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.NormalizedName, &c.Phone, &c.Email,
			&c.DiscountAmount, &c.DiscountPercent, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
