package categories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/catalog-api/internal/platform/db"
	"github.com/noah-isme/catalog-api/internal/shared"
)

// Repository provides access to category rows in the master schema and to the
// join rows that reference them in the default schema.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int64) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	Search(ctx context.Context, fragment string) ([]Category, error)
	ListByProduct(ctx context.Context, productID int64) ([]Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db        db.Session
	pool      *pgxpool.Pool
	table     string
	joinTable string
}

// NewRepository builds a Repository with table names qualified through the
// schema router: categories in the master schema, product_categories in the
// default schema.
func NewRepository(pool *pgxpool.Pool, schemas *db.SchemaRouter) Repository {
	return &repository{
		db:        pool,
		pool:      pool,
		table:     schemas.Qualify(schemas.MasterSchema(), "categories"),
		joinTable: schemas.Qualify(schemas.DefaultSchema(), "product_categories"),
	}
}

const categoryColumns = "id, name, description, created_at, updated_at"

func (r *repository) List(ctx context.Context) ([]Category, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY name", categoryColumns, r.table)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	return scanCategories(rows)
}

func (r *repository) Get(ctx context.Context, id int64) (*Category, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", categoryColumns, r.table)
	return r.one(ctx, query, id)
}

func (r *repository) GetByName(ctx context.Context, name string) (*Category, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE name = $1", categoryColumns, r.table)
	return r.one(ctx, query, name)
}

func (r *repository) Search(ctx context.Context, fragment string) ([]Category, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE name ILIKE $1 ORDER BY name", categoryColumns, r.table)
	rows, err := r.db.Query(ctx, query, "%"+fragment+"%")
	if err != nil {
		return nil, fmt.Errorf("search categories: %w", err)
	}
	defer rows.Close()
	return scanCategories(rows)
}

func (r *repository) ListByProduct(ctx context.Context, productID int64) ([]Category, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.name, c.description, c.created_at, c.updated_at
		FROM %s c
		JOIN %s pc ON c.id = pc.category_id
		WHERE pc.product_id = $1
		ORDER BY c.name
	`, r.table, r.joinTable)
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list categories by product: %w", err)
	}
	defer rows.Close()
	return scanCategories(rows)
}

func (r *repository) Create(ctx context.Context, c *Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, description, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		RETURNING id, created_at, updated_at
	`, r.table)
	desc := pgtype.Text{String: derefString(c.Description), Valid: c.Description != nil}

	var createdAt, updatedAt pgtype.Timestamptz
	err := r.db.QueryRow(ctx, query, c.Name, desc).Scan(&c.ID, &createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time
	return nil
}

func (r *repository) Update(ctx context.Context, c *Category) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, updated_at = now()
		WHERE id = $3
		RETURNING updated_at
	`, r.table)
	desc := pgtype.Text{String: derefString(c.Description), Valid: c.Description != nil}

	var updatedAt pgtype.Timestamptz
	err := r.db.QueryRow(ctx, query, c.Name, desc, c.ID).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.ErrNotFound
		}
		return fmt.Errorf("update category: %w", err)
	}
	c.UpdatedAt = updatedAt.Time
	return nil
}

// Delete removes the join rows referencing the category and then the category
// itself, in that order, inside one transaction.
func (r *repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		joinDelete := fmt.Sprintf("DELETE FROM %s WHERE category_id = $1", r.joinTable)
		if _, err := tx.Exec(ctx, joinDelete, id); err != nil {
			return fmt.Errorf("delete category associations: %w", err)
		}

		rowDelete := fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table)
		tag, err := tx.Exec(ctx, rowDelete, id)
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *repository) one(ctx context.Context, query string, arg any) (*Category, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	defer rows.Close()

	found, err := scanCategories(rows)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, shared.ErrNotFound
	}
	return &found[0], nil
}

func scanCategories(rows pgx.Rows) ([]Category, error) {
	out := []Category{}
	for rows.Next() {
		var c Category
		var desc pgtype.Text
		var createdAt, updatedAt pgtype.Timestamptz

		if err := rows.Scan(&c.ID, &c.Name, &desc, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if desc.Valid {
			val := desc.String
			c.Description = &val
		}
		c.CreatedAt = createdAt.Time
		c.UpdatedAt = updatedAt.Time
		out = append(out, c)
	}
	return out, rows.Err()
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
