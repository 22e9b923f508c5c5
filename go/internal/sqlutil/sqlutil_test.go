package sqlutil

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestNullStringRoundTrip(t *testing.T) {
	assert.False(t, ToSqlString("").Valid)
	assert.Equal(t, "x", FromSqlString(ToSqlString("x"), "default"))
	assert.Equal(t, "default", FromSqlString(sql.NullString{}, "default"))
}

func TestUnixMillis(t *testing.T) {
	ts := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	assert.True(t, ts.Equal(FromUnixMillis(ToUnixMillis(ts))))
}

func TestNullRawMessage(t *testing.T) {
	msg, err := ToNullRawMessage(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(FromNullRawMessage(msg)))

	empty, err := ToNullRawMessage(nil)
	require.NoError(t, err)
	assert.Nil(t, FromNullRawMessage(empty))
}

type counter struct{ tx *sql.Tx }

func TestRunRollsBackOnError(t *testing.T) {
	conn, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	defer conn.Close()

	ctx := context.Background()
	_, err = conn.ExecContext(ctx, `CREATE TABLE n (v INTEGER)`)
	require.NoError(t, err)

	newQueries := func(tx *sql.Tx) *counter { return &counter{tx: tx} }

	boom := errors.New("boom")
	err = Run(ctx, conn, newQueries, func(q *counter) error {
		_, err := q.tx.ExecContext(ctx, `INSERT INTO n (v) VALUES (1)`)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, Run(ctx, conn, newQueries, func(q *counter) error {
		_, err := q.tx.ExecContext(ctx, `INSERT INTO n (v) VALUES (2)`)
		return err
	}))

	var total int
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT COALESCE(SUM(v), 0) FROM n`).Scan(&total))
	assert.Equal(t, 2, total)
}
