package archiveindex

import (
	"strings"
	"testing"
)

func TestParseSortsOldestFirst(t *testing.T) {
	text := strings.Join([]string{
		"https://database.lichess.org/standard/lichess_db_standard_rated_2020-03.pgn.zst",
		"",
		"  https://database.lichess.org/standard/lichess_db_standard_rated_2013-01.pgn.zst  ",
		"not a url with no month",
		"https://database.lichess.org/standard/lichess_db_standard_rated_2015-06.pgn.zst",
	}, "\n")

	items, err := parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3: %+v", len(items), items)
	}
	want := []string{"2013-01", "2015-06", "2020-03"}
	for i, m := range want {
		if items[i].Month != m {
			t.Errorf("items[%d].Month = %q, want %q", i, items[i].Month, m)
		}
	}
}

func TestPlanFiltersDoneAndBounds(t *testing.T) {
	items := []Item{
		{Month: "2013-01", URL: "a"},
		{Month: "2013-02", URL: "b"},
		{Month: "2013-03", URL: "c"},
		{Month: "2013-04", URL: "d"},
	}
	done := map[string]bool{"2013-02": true}

	got := Plan(items, done, "2013-01", "2013-03")
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(got), got)
	}
	if got[0].Month != "2013-01" || got[1].Month != "2013-03" {
		t.Errorf("unexpected plan: %+v", got)
	}
}

// TestMonthFromStringAdversarialShapes is the property test spec §9
// asks for on "unusual URL shapes" feeding the month-parse-from-URL
// regex: double date-like substrings, query strings, and no match at
// all.
func TestMonthFromStringAdversarialShapes(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOk bool
	}{
		{
			in:     "https://database.lichess.org/standard/lichess_db_standard_rated_2013-01.pgn.zst",
			want:   "2013-01",
			wantOk: true,
		},
		{
			// Two date-like substrings: first regex match wins, not the
			// one nearest the filename.
			in:     "https://example.com/archive-1999-12/lichess_db_standard_rated_2020-05.pgn.zst",
			want:   "1999-12",
			wantOk: true,
		},
		{
			// Month embedded in a query string rather than the path.
			in:     "https://example.com/list?since=2020-01&until=2020-12",
			want:   "2020-01",
			wantOk: true,
		},
		{
			// Digits present but not in YYYY-MM shape.
			in:     "https://example.com/archive-20200105.pgn.zst",
			want:   "",
			wantOk: false,
		},
		{
			in:     "/local/path/no-month-here.pgn.zst",
			want:   "",
			wantOk: false,
		},
		{
			in:     "",
			want:   "",
			wantOk: false,
		},
		{
			// The regex only validates shape, not calendar range; that
			// is intentional here (Fetch sorts lexically on whatever
			// comes out, calendar validity is not required).
			in:     "lichess_db_standard_rated_9999-99.pgn.zst",
			want:   "9999-99",
			wantOk: true,
		},
	}
	for _, c := range cases {
		got, ok := MonthFromString(c.in)
		if ok != c.wantOk || got != c.want {
			t.Errorf("MonthFromString(%q) = (%q,%v), want (%q,%v)", c.in, got, ok, c.want, c.wantOk)
		}
	}
}

func TestNormalizeMonth(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOk bool
	}{
		{"2013-01", "2013-01", true},
		{"2013-1", "2013-01", true},
		{"2013/01", "2013-01", true},
		{"2013.1", "2013-01", true},
		{"2013", "", false},
		{"20-01", "", false},
		{"2013-13", "", false},
		{"2013-00", "", false},
		{"abcd-01", "", false},
	}
	for _, c := range cases {
		got, ok := NormalizeMonth(c.in)
		if ok != c.wantOk || got != c.want {
			t.Errorf("NormalizeMonth(%q) = (%q,%v), want (%q,%v)", c.in, got, ok, c.want, c.wantOk)
		}
	}
}
