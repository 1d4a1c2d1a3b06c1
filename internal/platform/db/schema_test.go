package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

// recordingSession captures every statement issued against it so tests can
// assert that the search_path statement and the payload statements run on the
// same handle, in order. Two independent pool checkouts would silently break
// schema scoping, which is why the ordering contract matters.
type recordingSession struct {
	stmts   []string
	execErr error
}

func (s *recordingSession) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.stmts = append(s.stmts, sql)
	return pgconn.CommandTag{}, s.execErr
}

func (s *recordingSession) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	s.stmts = append(s.stmts, sql)
	return nil, errors.New("recording session returns no rows")
}

func (s *recordingSession) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	s.stmts = append(s.stmts, sql)
	return nil
}

func TestRunInSchemaSetsSearchPathBeforeQueries(t *testing.T) {
	sess := &recordingSession{}

	err := runInSchema(context.Background(), sess, "master", func(s Session) error {
		_, err := s.Exec(context.Background(), "SELECT 1")
		return err
	})
	require.NoError(t, err)

	require.Len(t, sess.stmts, 2)
	require.Equal(t, `SET LOCAL search_path TO "master"`, sess.stmts[0])
	require.Equal(t, "SELECT 1", sess.stmts[1])
}

func TestRunInSchemaQuotesSchemaName(t *testing.T) {
	sess := &recordingSession{}

	err := runInSchema(context.Background(), sess, `evil"; DROP SCHEMA master`, func(s Session) error {
		return nil
	})
	require.NoError(t, err)

	require.Len(t, sess.stmts, 1)
	require.Equal(t, `SET LOCAL search_path TO "evil""; DROP SCHEMA master"`, sess.stmts[0])
}

func TestRunInSchemaAbortsWhenSearchPathFails(t *testing.T) {
	sess := &recordingSession{execErr: errors.New("boom")}
	ran := false

	err := runInSchema(context.Background(), sess, "master", func(s Session) error {
		ran = true
		return nil
	})
	require.Error(t, err)
	require.ErrorContains(t, err, `set search_path "master"`)
	require.False(t, ran, "callback must not run when search_path was not set")
}

func TestSchemaRouterNames(t *testing.T) {
	r := NewSchemaRouter(nil, "catalog", "master")

	require.Equal(t, "catalog", r.DefaultSchema())
	require.Equal(t, "master", r.MasterSchema())
	require.Equal(t, `"master"."categories"`, r.Qualify("master", "categories"))
	require.Equal(t, `"catalog"."products"`, r.Qualify(r.DefaultSchema(), "products"))
}
