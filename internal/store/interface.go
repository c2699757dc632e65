package store

import (
	"context"
	"time"

	"github.com/pgnstat/ingest/internal/aggregate"
)

// Persister is the contract the controller drives (spec §4.4, §4.6):
// mark an ingest attempt started, additively upsert its aggregate
// map, mark it finished with an outcome, and answer which months are
// already done. Segregated the way the teacher split its store
// package into narrow read/write interfaces, so the controller only
// ever depends on the operations it actually calls.
type Persister interface {
	MarkStarted(ctx context.Context, month, url string, at time.Time) error
	Upsert(ctx context.Context, m aggregate.Map, batchRows int) error
	MarkFinished(ctx context.Context, month string, games, durationMs int64, status string, at time.Time) error
	AlreadyIngestedMonths(ctx context.Context) (map[string]bool, error)
	Close() error
}
