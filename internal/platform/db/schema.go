package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SchemaRouter resolves logical schema names and scopes query execution to a
// schema. All tables live in one of two namespaces: the default schema owns
// the catalog tables, the master schema owns shared reference data.
//
// Schema-scoped execution always runs inside a transaction: the search_path
// statement and the statements that follow it must hit the same physical
// connection, and a pool checkout between them would break that. SET LOCAL
// also resets the path when the transaction ends, so a pooled connection never
// carries a stale search_path into an unrelated request.
type SchemaRouter struct {
	pool          *pgxpool.Pool
	defaultSchema string
	masterSchema  string
}

// NewSchemaRouter builds a router over the pool with the two configured
// schema names.
func NewSchemaRouter(pool *pgxpool.Pool, defaultSchema, masterSchema string) *SchemaRouter {
	return &SchemaRouter{
		pool:          pool,
		defaultSchema: defaultSchema,
		masterSchema:  masterSchema,
	}
}

// DefaultSchema returns the schema holding the catalog tables.
func (r *SchemaRouter) DefaultSchema() string {
	return r.defaultSchema
}

// MasterSchema returns the schema holding shared reference data.
func (r *SchemaRouter) MasterSchema() string {
	return r.masterSchema
}

// Qualify returns the schema-qualified, quoted form of a table name.
func (r *SchemaRouter) Qualify(schema, table string) string {
	return pgx.Identifier{schema, table}.Sanitize()
}

// WithSchema runs fn on a session whose search_path is set to the given
// schema. The session is a single transaction-pinned connection.
func (r *SchemaRouter) WithSchema(ctx context.Context, schema string, fn func(Session) error) error {
	return WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return runInSchema(ctx, tx, schema, fn)
	})
}

// runInSchema sets the session search_path and then invokes fn on the same
// session. Split out of WithSchema so the ordering contract is testable
// without a live database.
func runInSchema(ctx context.Context, sess Session, schema string, fn func(Session) error) error {
	setPath := "SET LOCAL search_path TO " + pgx.Identifier{schema}.Sanitize()
	if _, err := sess.Exec(ctx, setPath); err != nil {
		return fmt.Errorf("platform/db: set search_path %q: %w", schema, err)
	}
	return fn(sess)
}

// QueryInSchema executes an ad hoc statement with the search_path set to the
// given schema and returns the rows as generic column maps.
func (r *SchemaRouter) QueryInSchema(ctx context.Context, schema, sql string, args ...any) ([]map[string]any, error) {
	var out []map[string]any
	err := r.WithSchema(ctx, schema, func(sess Session) error {
		rows, err := sess.Query(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("platform/db: query in schema %q: %w", schema, err)
		}
		out, err = pgx.CollectRows(rows, pgx.RowToMap)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
