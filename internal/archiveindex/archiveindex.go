// Package archiveindex fetches and parses the remote archive list
// endpoint (spec §4.6, §6, §9).
package archiveindex

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pgnstat/ingest/internal/source"
)

// Item is one archive entry from the index: a month label and the URL
// to stream it from.
type Item struct {
	Month string // "YYYY-MM"
	URL   string
}

// monthPattern extracts the first YYYY-MM occurrence anywhere in a
// URL or path (not only its filename), per spec §6 ("first regex
// match"), grounded on
// original_source/src/remote.rs::parse_list_to_oldest.
var monthPattern = regexp.MustCompile(`(\d{4}-\d{2})`)

// Fetch retrieves the plain-text archive list and returns its items
// sorted oldest-to-newest (spec §4.6). Lines that don't yield a
// YYYY-MM month label are skipped; blank lines are ignored (spec §6).
func Fetch(ctx context.Context, listURL string) ([]Item, error) {
	body, err := source.Remote(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("fetch archive list: %w", err)
	}
	defer body.Close()
	return parse(body)
}

// MonthFromString extracts the first "YYYY-MM" occurrence from s (a
// URL or a local file path), the same rule Fetch applies to archive
// list lines. Used by local-file mode to label a month without a
// dedicated flag (spec §4.6 is silent on how local mode names its
// month; this reuses the remote-mode convention).
func MonthFromString(s string) (string, bool) {
	m := monthPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func parse(r io.Reader) ([]Item, error) {
	var items []Item
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		m := monthPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		items = append(items, Item{Month: m[1], URL: line})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read archive list: %w", err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Month < items[j].Month })
	return items, nil
}

// Plan filters a fetched, sorted item list down to what a controller
// run should actually process (spec §4.6): months already ingested
// (done) are skipped, and an optional inclusive [since, until] bound
// is applied. since/until may be "" to leave that side unbounded.
// since is a supplement over spec.md's --until (see SPEC_FULL.md):
// the original's build_plan takes both bounds symmetrically.
func Plan(items []Item, done map[string]bool, since, until string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if done[it.Month] {
			continue
		}
		if since != "" && it.Month < since {
			continue
		}
		if until != "" && it.Month > until {
			continue
		}
		out = append(out, it)
	}
	return out
}

// NormalizeMonth accepts "YYYY-MM", "YYYY-M", "YYYY/MM" or "YYYY.MM"
// and returns the canonical "YYYY-MM" form. It returns ("", false)
// unless the first two separator-delimited parts are a four-digit year
// and an all-digit month in 1-12; any further parts (such as a day in
// "2013-01-15") are ignored. Grounded on
// original_source/src/remote.rs::norm_month.
func NormalizeMonth(s string) (string, bool) {
	s = strings.TrimSpace(s)
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '/' || r == '.'
	})
	if len(parts) < 2 {
		return "", false
	}
	y, m := parts[0], parts[1]
	if len(y) != 4 || !allDigits(y) || !allDigits(m) {
		return "", false
	}
	mi, err := strconv.Atoi(m)
	if err != nil || mi < 1 || mi > 12 {
		return "", false
	}
	return fmt.Sprintf("%s-%02d", y, mi), true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
