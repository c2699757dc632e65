// Package store persists per-month aggregate maps and ingestion
// bookkeeping behind a single contract with two interchangeable
// backends: an embedded, pure-Go SQLite file and a remote Postgres
// server (spec §4.4, §6). Both backends are reached through
// database/sql, so one Store implementation and one set of upsert
// statements (spec's ON CONFLICT ... DO UPDATE shape works
// identically in both dialects) serve them; only the driver name, DSN
// and squirrel placeholder format differ.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Backend identifies which SQL dialect a Store talks.
type Backend int

const (
	BackendSQLite Backend = iota
	BackendPostgres
)

// Store is the persister behind the Persister contract (interface.go).
type Store struct {
	db      *sql.DB
	backend Backend
}

var _ Persister = (*Store)(nil)

// Open connects to databaseURL, applies schema migrations and returns
// a ready Store. databaseURL is either "sqlite:<path>" (spec §6's
// embedded backend, e.g. "sqlite:./pgnstat.db" or "sqlite::memory:")
// or a "postgres://" / "postgresql://" DSN (spec §6's remote backend).
func Open(ctx context.Context, databaseURL string, maxConns int) (*Store, error) {
	backend, driver, dsn, err := detect(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db, backend); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, backend: backend}, nil
}

func detect(url string) (backend Backend, driver, dsn string, err error) {
	lower := strings.ToLower(url)
	switch {
	case strings.HasPrefix(lower, "sqlite:"):
		return BackendSQLite, "sqlite", strings.TrimPrefix(url, "sqlite:"), nil
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return BackendPostgres, "pgx", url, nil
	default:
		return 0, "", "", fmt.Errorf("unsupported DATABASE_URL scheme: %q (want sqlite: or postgres(ql)://)", url)
	}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
