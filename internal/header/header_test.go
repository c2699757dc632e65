package header_test

import (
	"testing"

	"github.com/pgnstat/ingest/internal/header"
)

func game(tags string) []byte {
	return []byte(tags + "\n\n1. e4 e5 2. Nf3 Nc6 1-0\n\n")
}

func TestExtractBasic(t *testing.T) {
	g := header.Extract(game(`[Event "Test"]
[WhiteElo "2105"]
[BlackElo "1998"]
[ECO "B33"]
[Result "1-0"]`))

	if !g.HasWhiteElo || g.WhiteElo != 2105 {
		t.Errorf("WhiteElo = %v/%v, want 2105/true", g.WhiteElo, g.HasWhiteElo)
	}
	if !g.HasBlackElo || g.BlackElo != 1998 {
		t.Errorf("BlackElo = %v/%v, want 1998/true", g.BlackElo, g.HasBlackElo)
	}
	if g.ECO != "B33" {
		t.Errorf("ECO = %q, want B33", g.ECO)
	}
	if g.Result != header.ResultWhiteWin {
		t.Errorf("Result = %v, want ResultWhiteWin", g.Result)
	}
}

func TestExtractDefaults(t *testing.T) {
	cases := []struct {
		name string
		tags string
		want header.Game
	}{
		{
			name: "missing white elo",
			tags: `[BlackElo "1500"]
[Result "1-0"]`,
			want: header.Game{BlackElo: 1500, HasBlackElo: true, Result: header.ResultWhiteWin},
		},
		{
			name: "question mark elo",
			tags: `[WhiteElo "?"]
[BlackElo "1500"]
[Result "1-0"]`,
			want: header.Game{BlackElo: 1500, HasBlackElo: true, Result: header.ResultWhiteWin},
		},
		{
			name: "non integer elo",
			tags: `[WhiteElo "abc"]
[BlackElo "1500"]
[Result "1-0"]`,
			want: header.Game{BlackElo: 1500, HasBlackElo: true, Result: header.ResultWhiteWin},
		},
		{
			name: "star result",
			tags: `[WhiteElo "2000"]
[BlackElo "1500"]
[Result "*"]`,
			want: header.Game{WhiteElo: 2000, HasWhiteElo: true, BlackElo: 1500, HasBlackElo: true, Result: header.ResultOther},
		},
		{
			name: "missing result tag entirely",
			tags: `[WhiteElo "2000"]
[BlackElo "1500"]`,
			want: header.Game{WhiteElo: 2000, HasWhiteElo: true, BlackElo: 1500, HasBlackElo: true, Result: header.ResultOther},
		},
		{
			name: "missing eco",
			tags: `[WhiteElo "1500"]
[BlackElo "1600"]
[Result "1/2-1/2"]`,
			want: header.Game{WhiteElo: 1500, HasWhiteElo: true, BlackElo: 1600, HasBlackElo: true, Result: header.ResultDraw},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := header.Extract(game(c.tags))
			if got != c.want {
				t.Errorf("Extract() = %+v, want %+v", got, c.want)
			}
		})
	}
}

func TestExtractEscapedQuoteInValue(t *testing.T) {
	tags := `[Event "The \"Big\" Open"]
[WhiteElo "2000"]
[BlackElo "1900"]
[ECO "C50"]
[Result "0-1"]`
	g := header.Extract(game(tags))
	if g.WhiteElo != 2000 || g.BlackElo != 1900 || g.ECO != "C50" || g.Result != header.ResultBlackWin {
		t.Errorf("Extract() with escaped quote tag = %+v", g)
	}
}
