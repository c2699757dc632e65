package framer_test

import (
	"strings"
	"testing"

	"github.com/pgnstat/ingest/internal/framer"
)

func drain(t *testing.T, input string) ([]string, int64) {
	t.Helper()
	f := framer.New(strings.NewReader(input))
	var games []string
	for {
		raw, ok := f.Next()
		if !ok {
			break
		}
		games = append(games, string(raw))
	}
	if err := f.Err(); err != nil {
		t.Fatalf("unexpected I/O error: %v", err)
	}
	return games, f.FramingErrors()
}

const twoGames = `[Event "A"]
[WhiteElo "2000"]

1. e4 e5 2. Nf3 1-0

[Event "B"]
[WhiteElo "1900"]

1. d4 d5 0-1
`

func TestTwoGames(t *testing.T) {
	games, errs := drain(t, twoGames)
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}
	if errs != 0 {
		t.Fatalf("got %d framing errors, want 0", errs)
	}
	if !strings.Contains(games[0], `[Event "A"]`) {
		t.Errorf("game 0 missing expected tag: %q", games[0])
	}
	if !strings.Contains(games[1], `[Event "B"]`) {
		t.Errorf("game 1 missing expected tag: %q", games[1])
	}
}

func TestNoTrailingBlankLine(t *testing.T) {
	input := `[Event "A"]

1. e4 e5 1-0`
	games, errs := drain(t, input)
	if len(games) != 1 {
		t.Fatalf("got %d games, want 1", len(games))
	}
	if errs != 0 {
		t.Fatalf("got %d framing errors, want 0", errs)
	}
}

func TestCommentContainingBlankLine(t *testing.T) {
	input := "[Event \"A\"]\n\n1. e4 {a comment\n\nwith a blank line inside} e5 1-0\n\n"
	games, errs := drain(t, input)
	if len(games) != 1 {
		t.Fatalf("got %d games, want 1", len(games))
	}
	if errs != 0 {
		t.Fatalf("got %d framing errors, want 0", errs)
	}
}

func TestVariationContainingBlankLine(t *testing.T) {
	input := "[Event \"A\"]\n\n1. e4 e5 (1... c5 2. Nf3\n\nNc6) 2. Nf3 1-0\n\n"
	games, errs := drain(t, input)
	if len(games) != 1 {
		t.Fatalf("got %d games, want 1", len(games))
	}
	if errs != 0 {
		t.Fatalf("got %d framing errors, want 0", errs)
	}
}

func TestNestedVariations(t *testing.T) {
	input := "[Event \"A\"]\n\n1. e4 e5 (1... c5 (1... e6 2. d4) 2. Nf3) 2. Nf3 1-0\n\n"
	games, errs := drain(t, input)
	if len(games) != 1 || errs != 0 {
		t.Fatalf("got %d games, %d errs, want 1, 0", len(games), errs)
	}
}

func TestMalformedGameSkippedButStreamContinues(t *testing.T) {
	input := "[Event \"broken\"]\n\n1. e4 e5 *unterminated\n\n[Event \"ok\"]\n\n1. e4 1-0\n\n"
	// The first game's movetext has no result token at all before the
	// blank line: it is dropped as a framing error, but the second
	// game must still be produced.
	games, errs := drain(t, input)
	if len(games) != 1 {
		t.Fatalf("got %d games, want 1", len(games))
	}
	if errs != 1 {
		t.Fatalf("got %d framing errors, want 1", errs)
	}
	if !strings.Contains(games[0], `[Event "ok"]`) {
		t.Errorf("survivor game wrong: %q", games[0])
	}
}

func TestCarriageReturnOnlyLineEndings(t *testing.T) {
	input := "[Event \"A\"]\r\r1. e4 e5 1-0\r\r"
	games, errs := drain(t, input)
	if len(games) != 1 || errs != 0 {
		t.Fatalf("got %d games, %d errs, want 1, 0", len(games), errs)
	}
}

func TestCRLFLineEndings(t *testing.T) {
	input := "[Event \"A\"]\r\n\r\n1. e4 e5 1-0\r\n\r\n"
	games, errs := drain(t, input)
	if len(games) != 1 || errs != 0 {
		t.Fatalf("got %d games, %d errs, want 1, 0", len(games), errs)
	}
}

func TestEmptyStream(t *testing.T) {
	games, errs := drain(t, "")
	if len(games) != 0 || errs != 0 {
		t.Fatalf("got %d games, %d errs, want 0, 0", len(games), errs)
	}
}
