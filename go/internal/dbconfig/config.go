package dbconfig

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alexmeckes/draftagent/go/internal/db"
)

// Driver names accepted in STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds store connection settings.
type Config struct {
	Driver     string
	SQLitePath string

	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// NewConfigFromEnv reads STORE_DRIVER, SQLITE_PATH and DB_* environment
// variables (with defaults).
func NewConfigFromEnv() Config {
	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		port = 5432
	}

	return Config{
		Driver:     getEnv("STORE_DRIVER", DriverPostgres),
		SQLitePath: getEnv("SQLITE_PATH", "draftagent.db"),
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       port,
		User:       getEnv("DB_USER", "postgres"),
		Password:   getEnv("DB_PASSWORD", "postgres"),
		Database:   getEnv("DB_NAME", "draftagent"),
		SSLMode:    getEnv("DB_SSLMODE", "disable"),
	}
}

// Dialect maps the driver onto the query dialect.
func (c Config) Dialect() (db.Dialect, error) {
	switch c.Driver {
	case DriverPostgres, "":
		return db.Postgres, nil
	case DriverSQLite:
		return db.SQLite, nil
	}
	return "", fmt.Errorf("unknown store driver %q", c.Driver)
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if c.Driver == DriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
