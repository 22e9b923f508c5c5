package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/alexmeckes/draftagent/go/internal/db"
	"github.com/alexmeckes/draftagent/go/internal/dbconfig"
)

func setupDatabase(ctx context.Context, cfg dbconfig.Config) (*sql.DB, db.Dialect, error) {
	dialect, err := cfg.Dialect()
	if err != nil {
		return nil, "", err
	}

	database, err := sql.Open(string(dialect), cfg.DSN())
	if err != nil {
		return nil, "", fmt.Errorf("failed to create database connection: %w", err)
	}

	if err := database.PingContext(ctx); err != nil {
		_ = database.Close()
		return nil, "", fmt.Errorf("failed to ping database: %w", err)
	}

	if dialect == db.SQLite {
		// pragmas below are per connection
		database.SetMaxOpenConns(1)
		for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
			if _, err := database.ExecContext(ctx, pragma); err != nil {
				_ = database.Close()
				return nil, "", fmt.Errorf("failed to apply %q: %w", pragma, err)
			}
		}
	}

	if err := db.Migrate(ctx, database, dialect); err != nil {
		_ = database.Close()
		return nil, "", fmt.Errorf("failed to migrate database: %w", err)
	}

	if dialect == db.SQLite {
		log.Info().Str("path", cfg.SQLitePath).Msg("Connected to sqlite store")
	} else {
		log.Info().
			Str("host", cfg.Host).
			Int("port", cfg.Port).
			Str("database", cfg.Database).
			Msg("Connected to postgres store")
	}
	return database, dialect, nil
}
