package db

import (
	"context"
	"fmt"
	"strings"
)

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS users (
    id              %[1]s PRIMARY KEY,
    sleeper_user_id TEXT NOT NULL UNIQUE,
    username        TEXT NOT NULL,
    display_name    TEXT,
    avatar          TEXT,
    created_at      BIGINT NOT NULL,
    updated_at      BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS draft_sessions (
    user_id        %[1]s NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    draft_id       TEXT NOT NULL,
    league_id      TEXT NOT NULL DEFAULT '',
    status         TEXT NOT NULL,
    draft_data     %[2]s,
    last_synced_at BIGINT NOT NULL,
    PRIMARY KEY (user_id, draft_id)
);

CREATE TABLE IF NOT EXISTS analysis_cache (
    id            TEXT PRIMARY KEY,
    player_id     TEXT NOT NULL,
    draft_id      TEXT NOT NULL,
    user_id       TEXT NOT NULL,
    draft_context %[2]s,
    result        %[2]s NOT NULL,
    created_at    BIGINT NOT NULL,
    expires_at    BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analysis_cache_expires_at ON analysis_cache (expires_at);
`

// Schema returns the DDL for the given dialect.
func Schema(dialect Dialect) string {
	uuidType, jsonType := "TEXT", "BLOB"
	if dialect == Postgres {
		uuidType, jsonType = "UUID", "JSONB"
	}
	return fmt.Sprintf(schemaTemplate, uuidType, jsonType)
}

// Statements splits the schema into individually executable statements.
func Statements(dialect Dialect) []string {
	var out []string
	for _, stmt := range strings.Split(Schema(dialect), ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, conn DBTX, dialect Dialect) error {
	for _, stmt := range Statements(dialect) {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
