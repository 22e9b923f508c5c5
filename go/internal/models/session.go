package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DraftSession is the last snapshot of a draft recorded for a local user.
type DraftSession struct {
	UserID       uuid.UUID       `json:"user_id"`
	DraftID      string          `json:"draft_id"`
	LeagueID     string          `json:"league_id"`
	Status       DraftStatus     `json:"status"`
	DraftData    json.RawMessage `json:"draft_data"`
	LastSyncedAt time.Time       `json:"last_synced_at"`
}
