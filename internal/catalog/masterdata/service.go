// Package masterdata exposes read-only ad hoc queries against reference
// tables in the master schema. Tables are resolved through the session
// search_path set by the schema router, not by qualifying names inline.
package masterdata

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/catalog-api/internal/shared"
)

// Querier is the slice of the schema router this service needs.
type Querier interface {
	MasterSchema() string
	QueryInSchema(ctx context.Context, schema, sql string, args ...any) ([]map[string]any, error)
}

type Service struct {
	q Querier
}

func NewService(q Querier) *Service {
	return &Service{q: q}
}

// maxRows caps ad hoc reads; reference tables are small and this endpoint is
// not a pagination surface.
const maxRows = 500

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ListTable reads all rows of a master-schema table. The table name cannot be
// a bind parameter, so it is restricted to a plain lowercase identifier and
// quoted before interpolation.
func (s *Service) ListTable(ctx context.Context, table string) ([]map[string]any, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, &shared.ValidationError{Fields: []shared.FieldError{
			{Field: "table", Reason: "must be a lowercase identifier"},
		}}
	}

	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", pgx.Identifier{table}.Sanitize(), maxRows)
	rows, err := s.q.QueryInSchema(ctx, s.q.MasterSchema(), query)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list %s: %w", table, err)
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	return rows, nil
}
