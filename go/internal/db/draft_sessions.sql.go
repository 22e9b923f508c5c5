package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const upsertDraftSession = `
INSERT INTO draft_sessions (user_id, draft_id, league_id, status, draft_data, last_synced_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, draft_id) DO UPDATE SET
    league_id = excluded.league_id,
    status = excluded.status,
    draft_data = excluded.draft_data,
    last_synced_at = excluded.last_synced_at`

type UpsertDraftSessionParams struct {
	UserID       uuid.UUID
	DraftID      string
	LeagueID     string
	Status       string
	DraftData    pqtype.NullRawMessage
	LastSyncedAt int64
}

func (q *Queries) UpsertDraftSession(ctx context.Context, arg UpsertDraftSessionParams) error {
	_, err := q.db.ExecContext(ctx, q.rebind(upsertDraftSession),
		arg.UserID,
		arg.DraftID,
		arg.LeagueID,
		arg.Status,
		arg.DraftData,
		arg.LastSyncedAt,
	)
	return err
}

const draftSessionColumns = `user_id, draft_id, league_id, status, draft_data, last_synced_at`

const getDraftSession = `SELECT ` + draftSessionColumns + ` FROM draft_sessions WHERE user_id = ? AND draft_id = ?`

func (q *Queries) GetDraftSession(ctx context.Context, userID uuid.UUID, draftID string) (DraftSession, error) {
	row := q.db.QueryRowContext(ctx, q.rebind(getDraftSession), userID, draftID)
	return scanDraftSession(row)
}

const listDraftSessionsByUser = `SELECT ` + draftSessionColumns + ` FROM draft_sessions WHERE user_id = ? ORDER BY last_synced_at DESC`

func (q *Queries) ListDraftSessionsByUser(ctx context.Context, userID uuid.UUID) ([]DraftSession, error) {
	rows, err := q.db.QueryContext(ctx, q.rebind(listDraftSessionsByUser), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []DraftSession
	for rows.Next() {
		i, err := scanDraftSession(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanDraftSession(row rowScanner) (DraftSession, error) {
	var i DraftSession
	err := row.Scan(
		&i.UserID,
		&i.DraftID,
		&i.LeagueID,
		&i.Status,
		&i.DraftData,
		&i.LastSyncedAt,
	)
	return i, err
}
