package controller

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pgnstat/ingest/internal/archiveindex"
	"github.com/pgnstat/ingest/internal/config"
	"github.com/pgnstat/ingest/internal/source"
	"github.com/pgnstat/ingest/internal/store"
)

// RunLocal ingests each local archive file in turn (spec §4.6
// "Local-file mode"). It never touches the ingestions bookkeeping
// table (spec §9's deliberate local/remote asymmetry): with save
// true, only aggregates are upserted, additively, on every run. Any
// abort terminates the whole run (spec §7), so the first per-file
// error stops processing and is returned alongside whatever results
// were already collected.
func RunLocal(ctx context.Context, cfg config.Config, log zerolog.Logger, persister store.Persister, save bool, paths []string, outPath string, outIsDir bool) ([]MonthResult, error) {
	results := make([]MonthResult, 0, len(paths))
	single := len(paths) == 1

	for _, path := range paths {
		month, ok := archiveindex.MonthFromString(path)
		if !ok {
			month = "unknown"
		}

		f, err := source.Local(path)
		if err != nil {
			return results, fmt.Errorf("open %s: %w", path, err)
		}

		out := outputPathForMonth(outPath, outIsDir, single, month)
		res := runMonth(ctx, cfg, log, month, path, f, persister, save, out)
		f.Close()
		results = append(results, res)

		if res.Err != nil {
			return results, res.Err
		}
	}
	return results, nil
}

// outputPathForMonth resolves --out for one month's tabular file.
// A single local file writes directly to outPath. Otherwise outPath
// is either a directory (one "<month>.csv" per month) or a base
// filename from which "<base>-<month>.<ext>" is derived (spec §4.6).
func outputPathForMonth(outPath string, isDir, single bool, month string) string {
	if outPath == "" {
		return ""
	}
	if single && !isDir {
		return outPath
	}
	if isDir {
		return filepath.Join(outPath, month+".csv")
	}
	ext := filepath.Ext(outPath)
	base := strings.TrimSuffix(outPath, ext)
	return fmt.Sprintf("%s-%s%s", base, month, ext)
}

// IsDir reports whether path names an existing directory, used by
// the CLI to decide how to interpret --out before calling RunLocal or
// RunRemote.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
