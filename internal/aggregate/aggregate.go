// Package aggregate folds parsed games into per-key counters using a
// bounded pool of parallel workers, per spec §3 and §4.3.
package aggregate

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/pgnstat/ingest/internal/config"
	"github.com/pgnstat/ingest/internal/eco"
	"github.com/pgnstat/ingest/internal/header"
)

// Key uniquely identifies one output row.
type Key struct {
	Month       string
	EcoGroup    string
	WhiteBucket int
	BlackBucket int
}

// Counter is the tuple (games, white_wins, black_wins, draws). The
// invariant Games == WhiteWins+BlackWins+Draws holds for every value
// this package ever produces (spec §3, §8).
type Counter struct {
	Games     uint64
	WhiteWins uint64
	BlackWins uint64
	Draws     uint64
}

func (c *Counter) add(o Counter) {
	c.Games += o.Games
	c.WhiteWins += o.WhiteWins
	c.BlackWins += o.BlackWins
	c.Draws += o.Draws
}

// Map is the mapping from aggregation key to counter for one ingest
// run (one month).
type Map map[Key]Counter

// Merge combines any number of maps by summing counters keyed
// identically. Associative and commutative: the order maps are merged
// in, and the order games were folded into them, never affects the
// result (spec §4.3, §8).
func Merge(maps ...Map) Map {
	out := make(Map)
	for _, m := range maps {
		for k, v := range m {
			c := out[k]
			c.add(v)
			out[k] = c
		}
	}
	return out
}

// Bucket returns the lower bound of the half-open rating interval of
// width size containing elo (spec §3): floor(elo/size)*size. Integer
// division truncates toward zero, which is floor for the non-negative
// ratings this pipeline ever sees.
func Bucket(elo, size int) int {
	if size <= 0 {
		size = config.DefaultBucketSize
	}
	return (elo / size) * size
}

// NextFunc pulls the next framed-and-owned game byte slice from the
// upstream framer, returning (nil, false) once exhausted.
type NextFunc func() ([]byte, bool)

// Run drains next, forming fixed-size batches dispatched to a bounded
// worker pool (spec §4.3, §5): each worker parses its batch's header
// tags and folds them into a worker-local map with no locking on the
// hot path, and the local maps are merged once the stream is
// exhausted. Returns the merged map, the total games seen (every
// successfully framed game, spec §4.2) and the total games counted
// (the sum of Games across the merged map, spec §4.3).
//
// The dispatcher goroutine is the sole reader of next, keeping the
// upstream framer single-threaded as spec §5 requires; only parsing
// and folding run in parallel.
func Run(ctx context.Context, next NextFunc, month string, cfg config.Config) (Map, int64, int64, error) {
	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = config.DefaultBatchSize
	}
	bucketSize := cfg.BucketSize
	if bucketSize <= 0 {
		bucketSize = config.DefaultBucketSize
	}

	g, ctx := errgroup.WithContext(ctx)
	batches := make(chan [][]byte, workerCount)
	var gamesSeen int64

	g.Go(func() error {
		defer close(batches)
		batch := make([][]byte, 0, batchSize)
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			raw, ok := next()
			if !ok {
				if len(batch) > 0 {
					select {
					case batches <- batch:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
				return nil
			}
			atomic.AddInt64(&gamesSeen, 1)
			batch = append(batch, raw)
			if len(batch) >= batchSize {
				select {
				case batches <- batch:
				case <-ctx.Done():
					return ctx.Err()
				}
				batch = make([][]byte, 0, batchSize)
			}
		}
	})

	locals := make([]Map, workerCount)
	for i := 0; i < workerCount; i++ {
		i := i
		locals[i] = make(Map)
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case batch, ok := <-batches:
					if !ok {
						return nil
					}
					for _, raw := range batch {
						fold(locals[i], month, header.Extract(raw), bucketSize)
					}
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, 0, err
	}

	merged := Merge(locals...)
	var gamesCounted int64
	for _, c := range merged {
		gamesCounted += int64(c.Games)
	}
	return merged, atomic.LoadInt64(&gamesSeen), gamesCounted, nil
}

// fold applies the key-derivation and counting rules of spec §3/§4.3
// to a single parsed game.
func fold(m Map, month string, g header.Game, bucketSize int) {
	if g.Result == header.ResultOther {
		return
	}
	if !g.HasWhiteElo || !g.HasBlackElo {
		return
	}
	key := Key{
		Month:       month,
		EcoGroup:    eco.Group(g.ECO),
		WhiteBucket: Bucket(g.WhiteElo, bucketSize),
		BlackBucket: Bucket(g.BlackElo, bucketSize),
	}
	c := m[key]
	c.Games++
	switch g.Result {
	case header.ResultWhiteWin:
		c.WhiteWins++
	case header.ResultBlackWin:
		c.BlackWins++
	case header.ResultDraw:
		c.Draws++
	}
	m[key] = c
}
