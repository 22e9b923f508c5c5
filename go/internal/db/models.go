package db

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// Timestamps are unix milliseconds so both dialects compare them the same way.

type User struct {
	ID            uuid.UUID
	SleeperUserID string
	Username      string
	DisplayName   sql.NullString
	Avatar        sql.NullString
	CreatedAt     int64
	UpdatedAt     int64
}

type DraftSession struct {
	UserID       uuid.UUID
	DraftID      string
	LeagueID     string
	Status       string
	DraftData    pqtype.NullRawMessage
	LastSyncedAt int64
}

type AnalysisCache struct {
	ID           string
	PlayerID     string
	DraftID      string
	UserID       string
	DraftContext pqtype.NullRawMessage
	Result       pqtype.NullRawMessage
	CreatedAt    int64
	ExpiresAt    int64
}
