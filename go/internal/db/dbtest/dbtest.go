// Package dbtest opens throwaway SQLite databases for package tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/alexmeckes/draftagent/go/internal/db"
)

// NewSQLite returns a migrated in-memory database. It is closed when the test ends.
func NewSQLite(t *testing.T) (*sql.DB, *db.Queries) {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.Migrate(context.Background(), conn, db.SQLite))
	return conn, db.New(conn, db.SQLite)
}
