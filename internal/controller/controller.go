// Package controller drives the per-month pipeline (source ->
// decompress -> frame -> header extract -> aggregate -> persist
// and/or emit) for both ingest modes (spec §4.6).
package controller

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/pgnstat/ingest/internal/aggregate"
	"github.com/pgnstat/ingest/internal/config"
	"github.com/pgnstat/ingest/internal/decompress"
	"github.com/pgnstat/ingest/internal/framer"
	"github.com/pgnstat/ingest/internal/store"
	"github.com/pgnstat/ingest/internal/tabular"
)

// MonthResult summarizes one month's run, successful or not.
type MonthResult struct {
	Month        string
	URL          string
	GamesSeen    int64
	GamesCounted int64
	FramingErrs  int64
	Elapsed      time.Duration
	Err          error
}

// runMonth executes the pipeline for a single month's compressed
// byte stream, then optionally upserts the result and/or writes a
// tabular file. It never touches the ingestions table itself; local
// and remote mode each apply their own bookkeeping around this call
// (spec §4.4's ingestion record is remote-mode only, §9).
func runMonth(ctx context.Context, cfg config.Config, log zerolog.Logger, month, url string, body io.Reader, persister store.Persister, save bool, outPath string) MonthResult {
	start := time.Now()
	res := MonthResult{Month: month, URL: url}

	dec, err := decompress.New(body)
	if err != nil {
		res.Err = fmt.Errorf("open decompressor for %s: %w", month, err)
		return res
	}
	defer dec.Close()

	fr := framer.New(dec)
	m, gamesSeen, gamesCounted, err := aggregate.Run(ctx, fr.Next, month, cfg)
	res.GamesSeen = gamesSeen
	res.GamesCounted = gamesCounted
	res.FramingErrs = fr.FramingErrors()
	if err != nil {
		res.Err = fmt.Errorf("aggregate %s: %w", month, err)
		return res
	}
	if err := fr.Err(); err != nil {
		res.Err = fmt.Errorf("read archive for %s: %w", month, err)
		return res
	}

	if save {
		if err := persister.Upsert(ctx, m, cfg.DBBatchRows); err != nil {
			res.Err = fmt.Errorf("upsert %s: %w", month, err)
			return res
		}
	}
	if outPath != "" {
		if err := tabular.WriteFile(m, outPath); err != nil {
			res.Err = fmt.Errorf("write tabular output for %s: %w", month, err)
			return res
		}
	}

	res.Elapsed = time.Since(start)
	log.Info().
		Str("month", month).
		Int64("games_seen", res.GamesSeen).
		Int64("games_counted", res.GamesCounted).
		Int64("framing_errors", res.FramingErrs).
		Dur("elapsed", res.Elapsed).
		Msg("month ingested")
	return res
}
