package db

import (
	"context"
	"fmt"

	"github.com/sqlc-dev/pqtype"
)

const upsertAnalysisCache = `
INSERT INTO analysis_cache (id, player_id, draft_id, user_id, draft_context, result, created_at, expires_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    draft_context = excluded.draft_context,
    result = excluded.result,
    created_at = excluded.created_at,
    expires_at = excluded.expires_at`

type UpsertAnalysisCacheParams struct {
	ID           string
	PlayerID     string
	DraftID      string
	UserID       string
	DraftContext pqtype.NullRawMessage
	Result       pqtype.NullRawMessage
	CreatedAt    int64
	ExpiresAt    int64
}

func (q *Queries) UpsertAnalysisCache(ctx context.Context, arg UpsertAnalysisCacheParams) error {
	_, err := q.db.ExecContext(ctx, q.rebind(upsertAnalysisCache),
		arg.ID,
		arg.PlayerID,
		arg.DraftID,
		arg.UserID,
		arg.DraftContext,
		arg.Result,
		arg.CreatedAt,
		arg.ExpiresAt,
	)
	return err
}

const getLiveAnalysisCache = `
SELECT id, player_id, draft_id, user_id, draft_context, result, created_at, expires_at
FROM analysis_cache
WHERE id = ? AND expires_at > ?`

// GetLiveAnalysisCache only returns an entry that has not expired at now.
func (q *Queries) GetLiveAnalysisCache(ctx context.Context, id string, now int64) (AnalysisCache, error) {
	row := q.db.QueryRowContext(ctx, q.rebind(getLiveAnalysisCache), id, now)
	var i AnalysisCache
	err := row.Scan(
		&i.ID,
		&i.PlayerID,
		&i.DraftID,
		&i.UserID,
		&i.DraftContext,
		&i.Result,
		&i.CreatedAt,
		&i.ExpiresAt,
	)
	return i, err
}

// DeleteExpiredAnalysisCacheSQL is exported for tools that talk to Postgres
// without database/sql.
const DeleteExpiredAnalysisCacheSQL = `DELETE FROM analysis_cache WHERE expires_at <= ?`

func (q *Queries) DeleteExpiredAnalysisCache(ctx context.Context, now int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, q.rebind(DeleteExpiredAnalysisCacheSQL), now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func sprintfIn(query string, n int) string {
	return fmt.Sprintf(query, placeholders(n))
}
