// Command migrate applies the store schema to Postgres and prunes expired
// analysis cache rows.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/alexmeckes/draftagent/go/internal/db"
	"github.com/alexmeckes/draftagent/go/internal/dbconfig"
)

func main() {
	prune := flag.Bool("prune", true, "delete expired analysis cache rows")
	flag.Parse()

	_ = godotenv.Load()
	ctx := context.Background()

	// 1) Connect to DB
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 2) Apply schema
	for _, stmt := range db.Statements(db.Postgres) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			fmt.Fprintf(os.Stderr, "apply schema: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("Schema: statements=%d\n", len(db.Statements(db.Postgres)))

	if !*prune {
		return
	}

	// 3) Prune expired cache rows
	tag, err := pool.Exec(ctx, db.Rebind(db.Postgres, db.DeleteExpiredAnalysisCacheSQL), time.Now().UnixMilli())
	if err != nil {
		fmt.Fprintf(os.Stderr, "prune analysis cache: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Analysis cache prune: deleted=%d\n", tag.RowsAffected())
}
