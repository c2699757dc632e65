package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// MarkStarted records the beginning of an ingest attempt for month
// (spec §4.4 step 1, §4.6's absent->started transition). It is
// idempotent: retrying after a prior failure overwrites url and
// started_at and resets status to "started".
func (s *Store) MarkStarted(ctx context.Context, month, url string, at time.Time) error {
	query, args, err := sq.Insert("ingestions").
		Columns("month", "url", "started_at", "status").
		Values(month, url, at.UTC().Format(time.RFC3339), "started").
		PlaceholderFormat(s.placeholders()).
		Suffix(`ON CONFLICT (month) DO UPDATE SET url = excluded.url, started_at = excluded.started_at, status = 'started'`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark-started statement: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark ingestion started for %s: %w", month, err)
	}
	return nil
}

// MarkFinished records the outcome of an ingest attempt (spec §4.4
// step 3, §4.6's started->success/failed transition). status is
// "success" or "failed".
func (s *Store) MarkFinished(ctx context.Context, month string, games, durationMs int64, status string, at time.Time) error {
	query, args, err := sq.Update("ingestions").
		Set("games", games).
		Set("duration_ms", durationMs).
		Set("status", status).
		Set("finished_at", at.UTC().Format(time.RFC3339)).
		Where(sq.Eq{"month": month}).
		PlaceholderFormat(s.placeholders()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark-finished statement: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark ingestion %s for %s: %w", status, month, err)
	}
	return nil
}

// AlreadyIngestedMonths returns the set of months whose latest
// attempt succeeded. Remote-mode controller runs use this to skip
// completed months before building their plan (spec §4.4
// "Idempotence", §4.6, §9's deliberate local/remote asymmetry: local
// mode never calls this).
func (s *Store) AlreadyIngestedMonths(ctx context.Context) (map[string]bool, error) {
	query, args, err := sq.Select("month").
		From("ingestions").
		Where(sq.Eq{"status": "success"}).
		PlaceholderFormat(s.placeholders()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build already-ingested query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query already-ingested months: %w", err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var month string
		if err := rows.Scan(&month); err != nil {
			return nil, fmt.Errorf("scan month: %w", err)
		}
		done[month] = true
	}
	return done, rows.Err()
}
