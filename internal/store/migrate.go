package store

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// runMigrations brings db up to the latest schema version using the
// embedded goose migrations, choosing the dialect that matches
// backend. Grounded on
// ferrarinobrakes-valorant-tracker/backend/internal/database/database.go's
// goose.SetBaseFS/goose.Up wiring.
func runMigrations(db *sql.DB, backend Backend) error {
	goose.SetBaseFS(migrationsFS)
	dialect := "sqlite3"
	if backend == BackendPostgres {
		dialect = "postgres"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect %s: %w", dialect, err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
