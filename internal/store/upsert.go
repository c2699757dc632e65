package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"

	"github.com/pgnstat/ingest/internal/aggregate"
)

// upsertConflictSuffix implements the additive-merge rule spec §4.4
// requires: a row that already exists gets its counters added to,
// never replaced. Both modernc.org/sqlite and Postgres accept the
// same ON CONFLICT ... DO UPDATE ... excluded.col syntax, so one
// statement shape serves both backends.
const upsertConflictSuffix = `ON CONFLICT (month, eco_group, white_bucket, black_bucket) DO UPDATE SET
	games = aggregates.games + excluded.games,
	white_wins = aggregates.white_wins + excluded.white_wins,
	black_wins = aggregates.black_wins + excluded.black_wins,
	draws = aggregates.draws + excluded.draws`

func (s *Store) placeholders() sq.PlaceholderFormat {
	if s.backend == BackendPostgres {
		return sq.Dollar
	}
	return sq.Question
}

type aggregateRow struct {
	aggregate.Key
	aggregate.Counter
}

// Upsert additively merges m into the aggregates table inside a
// single transaction, batching batchRows rows per statement (spec
// §4.4, §6 "db_batch_rows"). Rows are applied in a deterministic
// order so retries after a partial failure are reproducible.
func (s *Store) Upsert(ctx context.Context, m aggregate.Map, batchRows int) error {
	if len(m) == 0 {
		return nil
	}
	if batchRows <= 0 {
		batchRows = 1000
	}

	rows := sortedRows(m)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert tx: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(rows); start += batchRows {
		end := start + batchRows
		if end > len(rows) {
			end = len(rows)
		}
		if err := s.upsertBatch(ctx, tx, rows[start:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert tx: %w", err)
	}
	return nil
}

func (s *Store) upsertBatch(ctx context.Context, tx *sql.Tx, rows []aggregateRow) error {
	qb := sq.Insert("aggregates").
		Columns("month", "eco_group", "white_bucket", "black_bucket", "games", "white_wins", "black_wins", "draws").
		PlaceholderFormat(s.placeholders())
	for _, r := range rows {
		qb = qb.Values(r.Month, r.EcoGroup, r.WhiteBucket, r.BlackBucket, r.Games, r.WhiteWins, r.BlackWins, r.Draws)
	}
	query, args, err := qb.Suffix(upsertConflictSuffix).ToSql()
	if err != nil {
		return fmt.Errorf("build upsert statement: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("exec upsert batch of %d rows: %w", len(rows), err)
	}
	return nil
}

func sortedRows(m aggregate.Map) []aggregateRow {
	rows := make([]aggregateRow, 0, len(m))
	for k, c := range m {
		rows = append(rows, aggregateRow{Key: k, Counter: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		if a.EcoGroup != b.EcoGroup {
			return a.EcoGroup < b.EcoGroup
		}
		if a.WhiteBucket != b.WhiteBucket {
			return a.WhiteBucket < b.WhiteBucket
		}
		return a.BlackBucket < b.BlackBucket
	})
	return rows
}
