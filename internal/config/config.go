// Package config holds the tunables for the ingest pipeline.
package config

import (
	"os"
	"strconv"
)

// Default values from spec §3, §4.3 and §4.4.
const (
	DefaultBucketSize   = 200
	DefaultBatchSize    = 1000
	DefaultDBBatchRows  = 1000
	DefaultListURL      = "https://database.lichess.org/standard/list.txt"
)

// Config carries the parameters that shape a single ingest run.
type Config struct {
	// BucketSize is the width of the ELO rating bucket used to derive
	// the aggregation key (spec §3).
	BucketSize int
	// BatchSize is the number of games grouped into one unit of work
	// dispatched to an aggregation worker (spec §4.3).
	BatchSize int
	// WorkerCount bounds the aggregation worker pool. Zero means "use
	// the host's CPU count" (spec §5).
	WorkerCount int
	// DBBatchRows bounds how many aggregate rows are folded into a
	// single upsert statement (spec §4.4).
	DBBatchRows int
	// ListURL is the archive list endpoint used by remote mode
	// (spec §6), overridable by --list-url at the CLI layer.
	ListURL string
}

// Load returns a Config populated with spec defaults, overridden by any
// PGNSTAT_* environment variables that are set. This mirrors
// cmd/ingest's CHESSGRAPH_RATING_MIN override in the teacher repo, and
// the Rust original's Config::load falling back to Default::default()
// when nothing overrides it.
func Load() Config {
	cfg := Config{
		BucketSize:  DefaultBucketSize,
		BatchSize:   DefaultBatchSize,
		WorkerCount: 0,
		DBBatchRows: DefaultDBBatchRows,
		ListURL:     DefaultListURL,
	}
	if v := envInt("PGNSTAT_BUCKET_SIZE"); v > 0 {
		cfg.BucketSize = v
	}
	if v := envInt("PGNSTAT_BATCH_SIZE"); v > 0 {
		cfg.BatchSize = v
	}
	if v := envInt("PGNSTAT_WORKER_COUNT"); v > 0 {
		cfg.WorkerCount = v
	}
	if v := envInt("PGNSTAT_DB_BATCH_ROWS"); v > 0 {
		cfg.DBBatchRows = v
	}
	if v := os.Getenv("PGNSTAT_LIST_URL"); v != "" {
		cfg.ListURL = v
	}
	return cfg
}

func envInt(name string) int {
	s := os.Getenv(name)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
