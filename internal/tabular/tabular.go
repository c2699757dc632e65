// Package tabular writes the per-month aggregate map to a
// deterministic text-tabular file, per spec §4.5 and §6.
package tabular

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/pgnstat/ingest/internal/aggregate"
)

// Header is the literal first line of every emitted file (spec §6).
const Header = "month,eco_group,white_bucket,black_bucket,games,white_wins,black_wins,draws"

// WriteFile renders m to path, sorted ascending by
// (month, eco_group, white_bucket, black_bucket) as spec §4.5
// requires. No field ever needs quoting: months are fixed 7-char
// strings, eco_group is 3 ASCII characters, and every other field is
// a base-10 integer (spec §4.5), so this writer never has to escape
// anything, unlike original_source/src/aggregator.rs::escape_csv.
func WriteFile(m aggregate.Map, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := Write(m, w); err != nil {
		return err
	}
	return w.Flush()
}

// Write renders m to w in the format WriteFile uses; split out so
// callers (and tests) can target an in-memory buffer.
func Write(m aggregate.Map, w *bufio.Writer) error {
	if _, err := w.WriteString(Header); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	for _, k := range sortedKeys(m) {
		c := m[k]
		_, err := fmt.Fprintf(w, "%s,%s,%d,%d,%d,%d,%d,%d\n",
			k.Month, k.EcoGroup, k.WhiteBucket, k.BlackBucket,
			c.Games, c.WhiteWins, c.BlackWins, c.Draws)
		if err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m aggregate.Map) []aggregate.Key {
	keys := make([]aggregate.Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		if a.EcoGroup != b.EcoGroup {
			return a.EcoGroup < b.EcoGroup
		}
		if a.WhiteBucket != b.WhiteBucket {
			return a.WhiteBucket < b.WhiteBucket
		}
		return a.BlackBucket < b.BlackBucket
	})
	return keys
}
