package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a locally known user linked to a remote source account.
type User struct {
	ID            uuid.UUID `json:"id"`
	SleeperUserID string    `json:"sleeper_user_id"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"display_name"`
	Avatar        string    `json:"avatar,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SleeperUser is a user record as returned by the remote source.
type SleeperUser struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	IsBot       bool   `json:"is_bot,omitempty"`
}
