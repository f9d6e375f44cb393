package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vertice-pos/vertice-pos/internal/platform/db"
)

// Repository defines data access for stock records.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Create(ctx context.Context, input CreateInput) (*Record, error)
	Get(ctx context.Context, id int64) (*Record, error)
	GetByProduct(ctx context.Context, productID int64) (*Record, error)
	List(ctx context.Context) ([]Record, error)
	Search(ctx context.Context, term string) ([]Record, error)
	ListLow(ctx context.Context) ([]Record, error)
	ApplyDeltas(ctx context.Context, deltas map[int64]int64) error
}

type repository struct {
	db   db.Querier
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const recordColumns = `s.id, s.product_id, s.quantity, s.min_quantity, s.updated_at,
	s.updated_by, s.created_by, p.name`

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.ProductID, &rec.Quantity, &rec.MinQuantity,
		&rec.UpdatedAt, &rec.UpdatedBy, &rec.CreatedBy, &rec.ProductName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *repository) Create(ctx context.Context, input CreateInput) (*Record, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO stock (product_id, quantity, min_quantity, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		input.ProductID, input.Quantity, input.MinQuantity, time.Now().UTC(), input.CreatedBy,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("stock: insert: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *repository) Get(ctx context.Context, id int64) (*Record, error) {
	return scanRecord(r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM stock s JOIN products p ON p.id = s.product_id
		WHERE s.id = $1`, recordColumns), id))
}

func (r *repository) GetByProduct(ctx context.Context, productID int64) (*Record, error) {
	return scanRecord(r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM stock s JOIN products p ON p.id = s.product_id
		WHERE s.product_id = $1`, recordColumns), productID))
}

func (r *repository) List(ctx context.Context) ([]Record, error) {
	return r.query(ctx, fmt.Sprintf(`
		SELECT %s FROM stock s JOIN products p ON p.id = s.product_id
		ORDER BY p.name`, recordColumns))
}

func (r *repository) Search(ctx context.Context, term string) ([]Record, error) {
	return r.query(ctx, fmt.Sprintf(`
		SELECT %s FROM stock s JOIN products p ON p.id = s.product_id
		WHERE p.name ILIKE $1 ORDER BY p.name`, recordColumns), "%"+term+"%")
}

func (r *repository) ListLow(ctx context.Context) ([]Record, error) {
	return r.query(ctx, fmt.Sprintf(`
		SELECT %s FROM stock s JOIN products p ON p.id = s.product_id
		WHERE s.quantity <= s.min_quantity ORDER BY s.quantity`, recordColumns))
}

func (r *repository) ApplyDeltas(ctx context.Context, deltas map[int64]int64) error {
	return ApplyDeltas(ctx, StoreFor(r.db), deltas)
}

// StoreFor binds a DeltaStore to q, letting other repositories apply stock
// deltas inside their own transactions.
func StoreFor(q db.Querier) DeltaStore {
	return querierStore{q: q}
}

type querierStore struct {
	q db.Querier
}

func (s querierStore) GetQuantityForUpdate(ctx context.Context, productID int64) (int64, error) {
	var quantity int64
	err := s.q.QueryRow(ctx,
		`SELECT quantity FROM stock WHERE product_id = $1 FOR UPDATE`,
		productID,
	).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return 0, fmt.Errorf("stock: lock product %d: %w", productID, err)
	}
	return quantity, nil
}

func (s querierStore) SetQuantity(ctx context.Context, productID, quantity int64, updatedAt time.Time) error {
	_, err := s.q.Exec(ctx,
		`UPDATE stock SET quantity = $1, updated_at = $2 WHERE product_id = $3`,
		quantity, updatedAt, productID)
	return err
}

func (r *repository) query(ctx context.Context, sql string, args ...any) ([]Record, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.Quantity, &rec.MinQuantity,
			&rec.UpdatedAt, &rec.UpdatedBy, &rec.CreatedBy, &rec.ProductName); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
