package controller

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/pgnstat/ingest/internal/archiveindex"
	"github.com/pgnstat/ingest/internal/config"
	"github.com/pgnstat/ingest/internal/source"
	"github.com/pgnstat/ingest/internal/store"
)

// RunRemote fetches the archive index, filters out already-succeeded
// months when save is on, and ingests the remainder strictly
// oldest-to-newest (spec §4.6 "Remote mode", §5 "Ordering"). Unlike
// RunLocal, a per-month failure sets that month's ingestion row to
// failed and the run proceeds to the next month (spec §7); only
// context cancellation, a failure fetching the index itself, or (with
// save on) a failure loading the already-ingested months aborts the
// whole run.
func RunRemote(ctx context.Context, cfg config.Config, log zerolog.Logger, persister store.Persister, save bool, listURL, until string, outPath string, outIsDir bool) ([]MonthResult, error) {
	items, err := archiveindex.Fetch(ctx, listURL)
	if err != nil {
		return nil, err
	}

	done := map[string]bool{}
	if save {
		done, err = persister.AlreadyIngestedMonths(ctx)
		if err != nil {
			return nil, err
		}
	}

	plan := archiveindex.Plan(items, done, "", until)
	results := make([]MonthResult, 0, len(plan))

	for _, item := range plan {
		if ctx.Err() != nil {
			break
		}

		if save {
			if err := persister.MarkStarted(ctx, item.Month, item.URL, time.Now()); err != nil {
				log.Error().Str("month", item.Month).Str("url", item.URL).Err(err).Msg("mark started failed")
				results = append(results, MonthResult{Month: item.Month, URL: item.URL, Err: err})
				continue
			}
		}

		body, err := source.Remote(ctx, item.URL)
		if err != nil {
			log.Error().Str("month", item.Month).Str("url", item.URL).Err(err).Msg("fetch failed")
			if save {
				markFinishedFailed(ctx, persister, item.Month, log)
			}
			results = append(results, MonthResult{Month: item.Month, URL: item.URL, Err: err})
			continue
		}

		out := outputPathForMonth(outPath, outIsDir, false, item.Month)
		res := runMonth(ctx, cfg, log, item.Month, item.URL, body, persister, save, out)
		body.Close()
		results = append(results, res)

		if save {
			status := "success"
			if res.Err != nil {
				status = "failed"
			}
			if err := persister.MarkFinished(ctx, item.Month, res.GamesCounted, res.Elapsed.Milliseconds(), status, time.Now()); err != nil {
				log.Error().Str("month", item.Month).Err(err).Msg("failed to record ingestion outcome")
			}
		}

		if res.Err != nil {
			log.Error().Str("month", item.Month).Str("url", item.URL).Err(res.Err).Msg("month failed")
			if errors.Is(res.Err, context.Canceled) || ctx.Err() != nil {
				break
			}
		}
	}
	return results, nil
}

func markFinishedFailed(ctx context.Context, persister store.Persister, month string, log zerolog.Logger) {
	if err := persister.MarkFinished(ctx, month, 0, 0, "failed", time.Now()); err != nil {
		log.Error().Str("month", month).Err(err).Msg("failed to record ingestion outcome")
	}
}
