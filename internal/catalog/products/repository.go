package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/catalog-api/internal/platform/db"
	"github.com/noah-isme/catalog-api/internal/shared"
)

// Repository provides access to product rows and their category join rows,
// both in the default schema.
type Repository interface {
	List(ctx context.Context, maxPrice *decimal.Decimal) ([]Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	Search(ctx context.Context, fragment string) ([]Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	AddCategory(ctx context.Context, productID, categoryID int64) error
	RemoveCategory(ctx context.Context, productID, categoryID int64) error
}

type repository struct {
	db        db.Session
	pool      *pgxpool.Pool
	table     string
	joinTable string
}

// NewRepository builds a Repository with table names qualified through the
// schema router.
func NewRepository(pool *pgxpool.Pool, schemas *db.SchemaRouter) Repository {
	return &repository{
		db:        pool,
		pool:      pool,
		table:     schemas.Qualify(schemas.DefaultSchema(), "products"),
		joinTable: schemas.Qualify(schemas.DefaultSchema(), "product_categories"),
	}
}

const productColumns = "id, name, description, price, sku, created_at, updated_at"

func (r *repository) List(ctx context.Context, maxPrice *decimal.Decimal) ([]Product, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", productColumns, r.table)
	var args []any
	if maxPrice != nil {
		query += " WHERE price <= $1"
		args = append(args, *maxPrice)
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *repository) Get(ctx context.Context, id int64) (*Product, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", productColumns, r.table)
	return r.one(ctx, query, id)
}

func (r *repository) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE sku = $1", productColumns, r.table)
	return r.one(ctx, query, sku)
}

func (r *repository) Search(ctx context.Context, fragment string) ([]Product, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE name ILIKE $1 ORDER BY id", productColumns, r.table)
	rows, err := r.db.Query(ctx, query, "%"+fragment+"%")
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, description, price, sku, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id, created_at, updated_at
	`, r.table)
	desc := pgtype.Text{String: derefString(p.Description), Valid: p.Description != nil}

	var createdAt, updatedAt pgtype.Timestamptz
	err := r.db.QueryRow(ctx, query, p.Name, desc, p.Price, p.SKU).Scan(&p.ID, &createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	return nil
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, price = $3, sku = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at
	`, r.table)
	desc := pgtype.Text{String: derefString(p.Description), Valid: p.Description != nil}

	var updatedAt pgtype.Timestamptz
	err := r.db.QueryRow(ctx, query, p.Name, desc, p.Price, p.SKU, p.ID).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.ErrNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	p.UpdatedAt = updatedAt.Time
	return nil
}

// Delete removes the join rows referencing the product and then the product
// itself, in that order, inside one transaction. The store defines no
// referential cascade, so the sequencing is load-bearing.
func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		joinDelete := fmt.Sprintf("DELETE FROM %s WHERE product_id = $1", r.joinTable)
		if _, err := tx.Exec(ctx, joinDelete, id); err != nil {
			return fmt.Errorf("delete product associations: %w", err)
		}

		rowDelete := fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table)
		tag, err := tx.Exec(ctx, rowDelete, id)
		if err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// AddCategory inserts the join row. Inserting an existing link is a no-op;
// concurrent inserts of the same pair are resolved by the store's conflict
// handling, not application locks.
func (r *repository) AddCategory(ctx context.Context, productID, categoryID int64) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (product_id, category_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, r.joinTable)
	if _, err := r.db.Exec(ctx, query, productID, categoryID); err != nil {
		return fmt.Errorf("add product category: %w", err)
	}
	return nil
}

// RemoveCategory deletes the join row if present. A missing link is not an
// error.
func (r *repository) RemoveCategory(ctx context.Context, productID, categoryID int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE product_id = $1 AND category_id = $2", r.joinTable)
	if _, err := r.db.Exec(ctx, query, productID, categoryID); err != nil {
		return fmt.Errorf("remove product category: %w", err)
	}
	return nil
}

func (r *repository) one(ctx context.Context, query string, arg any) (*Product, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	defer rows.Close()

	found, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, shared.ErrNotFound
	}
	return &found[0], nil
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	out := []Product{}
	for rows.Next() {
		var p Product
		var desc pgtype.Text
		var createdAt, updatedAt pgtype.Timestamptz

		if err := rows.Scan(&p.ID, &p.Name, &desc, &p.Price, &p.SKU, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if desc.Valid {
			val := desc.String
			p.Description = &val
		}
		p.CreatedAt = createdAt.Time
		p.UpdatedAt = updatedAt.Time
		out = append(out, p)
	}
	return out, rows.Err()
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
