package tabular_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/pgnstat/ingest/internal/aggregate"
	"github.com/pgnstat/ingest/internal/tabular"
)

func TestWriteDeterministicOrder(t *testing.T) {
	m := aggregate.Map{
		{Month: "2013-02", EcoGroup: "B30", WhiteBucket: 2000, BlackBucket: 1800}: {Games: 1, WhiteWins: 1},
		{Month: "2013-01", EcoGroup: "U00", WhiteBucket: 1400, BlackBucket: 1600}: {Games: 1, Draws: 1},
		{Month: "2013-01", EcoGroup: "B30", WhiteBucket: 2000, BlackBucket: 1800}: {Games: 2, WhiteWins: 2},
	}
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := tabular.Write(m, w); err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Flush()

	want := tabular.Header + "\n" +
		"2013-01,B30,2000,1800,2,2,0,0\n" +
		"2013-01,U00,1400,1600,1,0,0,1\n" +
		"2013-02,B30,2000,1800,1,1,0,0\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteEmptyMap(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := tabular.Write(aggregate.Map{}, w); err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Flush()
	if buf.String() != tabular.Header+"\n" {
		t.Errorf("got %q, want just the header line", buf.String())
	}
}
