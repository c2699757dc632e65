// Package framer segments a decompressed PGN byte stream into
// individual game records, per spec §4.1.
package framer

import (
	"bufio"
	"bytes"
	"io"
)

type state int

const (
	stateBetweenGames state = iota
	stateTagSection
	stateMovetext
)

// Framer is a single-pass, non-restartable sequence of framed games.
// Peak memory is bounded by the size of the largest single game, since
// only one game's bytes are buffered at a time.
type Framer struct {
	sc  *bufio.Scanner
	buf bytes.Buffer

	state       state
	braceDepth  int // {} comment nesting
	parenDepth  int // () variation nesting
	sawResult   bool
	eof         bool
	ioErr       error
	framingErrs int64
}

// New wraps r, splitting on any of \n, \r\n or \r line endings.
func New(r io.Reader) *Framer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	sc.Split(scanAnyLineEnding)
	return &Framer{sc: sc}
}

// Next returns the raw bytes of the next well-formed game, or
// (nil, false) once the stream is exhausted (check Err() to
// distinguish clean end-of-stream from an I/O failure). Framing
// errors on individual games are recovered internally: they are
// counted (see FramingErrors) and the scan continues.
func (f *Framer) Next() ([]byte, bool) {
	if f.eof {
		return nil, false
	}
	f.reset()
	for f.sc.Scan() {
		line := f.sc.Bytes()
		blank := len(bytes.TrimSpace(line)) == 0

		switch f.state {
		case stateBetweenGames:
			if blank {
				continue
			}
			f.state = stateTagSection
			f.writeLine(line)

		case stateTagSection:
			f.writeLine(line)
			if blank {
				f.state = stateMovetext
			}

		case stateMovetext:
			f.scanMovetext(line)
			f.writeLine(line)
			if blank {
				depth := f.braceDepth + f.parenDepth
				if f.sawResult && depth == 0 {
					out := append([]byte(nil), f.buf.Bytes()...)
					f.state = stateBetweenGames
					return out, true
				}
				if depth == 0 {
					// Blank line reached at depth 0 without ever
					// seeing a result token: the game is malformed.
					// Drop it and resume scanning for the next game.
					f.framingErrs++
					f.reset()
				}
				// depth > 0: a blank line inside a comment or
				// variation, not a section terminator.
			}
		}
	}

	if err := f.sc.Err(); err != nil {
		f.ioErr = err
		f.eof = true
		return nil, false
	}

	f.eof = true
	if f.state == stateMovetext && f.sawResult && f.braceDepth+f.parenDepth == 0 && f.buf.Len() > 0 {
		// The stream ended right after the result token with no
		// trailing blank line: many archives omit it for the final
		// game. Still a complete game, not a framing error.
		return append([]byte(nil), f.buf.Bytes()...), true
	}
	if f.state != stateBetweenGames {
		// Stream ended mid-game: never reached a closing blank line.
		f.framingErrs++
	}
	return nil, false
}

// Err returns the upstream I/O error, if the stream ended abnormally.
func (f *Framer) Err() error {
	return f.ioErr
}

// FramingErrors returns the number of games dropped because the
// framer could not reach a result token before the stream or the
// section ended (spec §4.1, §7).
func (f *Framer) FramingErrors() int64 {
	return f.framingErrs
}

func (f *Framer) reset() {
	f.buf.Reset()
	f.braceDepth = 0
	f.parenDepth = 0
	f.sawResult = false
	f.state = stateBetweenGames
}

func (f *Framer) writeLine(line []byte) {
	f.buf.Write(line)
	f.buf.WriteByte('\n')
}

// scanMovetext updates comment/variation depth and detects a result
// token appearing outside any comment or variation.
func (f *Framer) scanMovetext(line []byte) {
	i := 0
	for i < len(line) {
		c := line[i]

		if f.braceDepth > 0 {
			if c == '}' {
				f.braceDepth--
			}
			i++
			continue
		}
		switch c {
		case '{':
			f.braceDepth++
			i++
			continue
		case '(':
			f.parenDepth++
			i++
			continue
		case ')':
			if f.parenDepth > 0 {
				f.parenDepth--
			}
			i++
			continue
		}

		if f.parenDepth == 0 {
			if n, ok := matchResultToken(line[i:]); ok {
				boundary := i == 0 || isPGNSpace(line[i-1])
				if boundary {
					f.sawResult = true
				}
				i += n
				continue
			}
		}
		i++
	}
}

var resultTokens = []string{"1/2-1/2", "1-0", "0-1", "*"}

// matchResultToken reports whether b starts with a whitespace-delimited
// result token, returning the number of bytes consumed.
func matchResultToken(b []byte) (int, bool) {
	for _, tok := range resultTokens {
		n := len(tok)
		if len(b) < n || string(b[:n]) != tok {
			continue
		}
		if len(b) == n || isPGNSpace(b[n]) {
			return n, true
		}
	}
	return 0, false
}

func isPGNSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// scanAnyLineEnding is a bufio.SplitFunc treating \n, \r\n and bare \r
// all as line terminators, since archives in the wild mix conventions
// (spec §4.1).
func scanAnyLineEnding(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\n':
			end := i
			if end > 0 && data[end-1] == '\r' {
				end--
			}
			return i + 1, data[:end], nil
		case '\r':
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i], nil
				}
				return i + 1, data[:i], nil
			}
			if atEOF {
				return i + 1, data[:i], nil
			}
			return 0, nil, nil // need more data to know if \n follows
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	if atEOF {
		return 0, nil, nil
	}
	return 0, nil, nil
}
