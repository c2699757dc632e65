package logx

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog logger configured for console output.
// verbose raises the level to Debug, matching the -v CLI flag (spec
// §6). PGNSTAT_LOG_LEVEL, if set to a valid zerolog level name, wins
// over verbose, the same env-overrides-flag precedence
// internal/config.Load applies to PGNSTAT_* variables.
func NewLogger(verbose bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		// Extract just the filename, not the full path
		short := file
		for i := len(file) - 1; i > 0; i-- {
			if file[i] == '/' {
				short = file[i+1:]
				break
			}
		}
		// Pad to 28 characters for alignment
		return fmt.Sprintf("%-28s", fmt.Sprintf("%s:%d", short, line))
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if envLevel, err := zerolog.ParseLevel(os.Getenv("PGNSTAT_LOG_LEVEL")); err == nil {
		level = envLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).With().Timestamp().Caller().Logger()
	return logger
}
