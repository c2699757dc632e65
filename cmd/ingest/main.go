package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/pgnstat/ingest/internal/archiveindex"
	"github.com/pgnstat/ingest/internal/config"
	"github.com/pgnstat/ingest/internal/controller"
	"github.com/pgnstat/ingest/internal/logx"
	"github.com/pgnstat/ingest/internal/store"
)

func main() {
	_ = godotenv.Load()

	var (
		remote  = flag.Bool("remote", false, "Fetch and ingest the remote archive index instead of local files")
		until   = flag.String("until", "", "Inclusive upper month bound YYYY-MM (remote mode only)")
		out     = flag.String("out", "", "Tabular output file, or directory/base name for multi-month runs")
		listURL = flag.String("list-url", "", "Archive list endpoint (defaults to PGNSTAT_LIST_URL or the built-in list)")
		save    = flag.Bool("save", false, "Persist aggregates to DATABASE_URL (omit for a dry run)")
		verbose = flag.Bool("v", false, "Verbose (debug-level) logging")
	)
	flag.Parse()

	logger := logx.NewLogger(*verbose).With().Str("run_id", uuid.New().String()).Logger()
	cfg := config.Load()
	if *listURL != "" {
		cfg.ListURL = *listURL
	}

	if !*remote && flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: ingest [--remote] [--until YYYY-MM] [--out PATH] [--list-url URL] [--save] [-v] [file.pgn.zst ...]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	untilMonth := *until
	if untilMonth != "" {
		normalized, ok := archiveindex.NormalizeMonth(untilMonth)
		if !ok {
			logger.Fatal().Str("until", untilMonth).Msg("invalid --until month")
		}
		untilMonth = normalized
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var persister store.Persister
	if *save {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			logger.Fatal().Msg("--save requires DATABASE_URL")
		}
		maxConns := 0
		if v := os.Getenv("DB_MAX_CONNECTIONS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				maxConns = n
			}
		}
		s, err := store.Open(ctx, dbURL, maxConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("open store")
		}
		defer s.Close()
		persister = s
	}

	outIsDir := *out != "" && controller.IsDir(*out)
	start := time.Now()

	var (
		results []controller.MonthResult
		err     error
	)
	if *remote {
		logger.Info().Str("list_url", cfg.ListURL).Str("until", untilMonth).Bool("save", *save).Msg("starting remote ingest")
		results, err = controller.RunRemote(ctx, cfg, logger, persister, *save, cfg.ListURL, untilMonth, *out, outIsDir)
	} else {
		logger.Info().Strs("files", flag.Args()).Bool("save", *save).Msg("starting local ingest")
		results, err = controller.RunLocal(ctx, cfg, logger, persister, *save, flag.Args(), *out, outIsDir)
	}

	var gamesSeen, gamesCounted int64
	failed := 0
	for _, r := range results {
		gamesSeen += r.GamesSeen
		gamesCounted += r.GamesCounted
		if r.Err != nil {
			failed++
		}
	}
	logger.Info().
		Int("months", len(results)).
		Int("failed", failed).
		Int64("games_seen", gamesSeen).
		Int64("games_counted", gamesCounted).
		Dur("elapsed", time.Since(start)).
		Msg("ingest run complete")

	if err != nil {
		logger.Fatal().Err(err).Msg("ingest aborted")
	}
	if failed > 0 {
		os.Exit(1)
	}
}
