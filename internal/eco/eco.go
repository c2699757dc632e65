// Package eco derives the coarse opening group used in the aggregation
// key from a game's raw ECO tag value.
package eco

// UnknownGroup is the eco_group used for games whose ECO tag is absent
// or does not match the letter+two-digit shape (spec §3).
const UnknownGroup = "U00"

// Group maps a raw ECO tag value (e.g. "B33") to its coarse group
// (e.g. "B30"): the letter and tens digit are preserved, the units
// digit is replaced with zero. Anything not matching [A-E][0-9]{2}
// exactly (after trimming) maps to UnknownGroup, per spec §3 and the
// shape check in original_source/src/eco.rs (parse_eco_code: exactly
// three characters, uppercase letter A-E, two ASCII digits).
func Group(rawECO string) string {
	code, ok := parse(rawECO)
	if !ok {
		return UnknownGroup
	}
	tens := code[1]
	return string([]byte{code[0], tens, '0'})
}

// parse validates the trimmed value has the shape letter+digit+digit
// with the letter in A-E, returning the three bytes on success.
func parse(raw string) ([3]byte, bool) {
	s := trim(raw)
	var out [3]byte
	if len(s) != 3 {
		return out, false
	}
	letter := s[0]
	if letter < 'A' || letter > 'E' {
		return out, false
	}
	d1, d2 := s[1], s[2]
	if d1 < '0' || d1 > '9' || d2 < '0' || d2 > '9' {
		return out, false
	}
	out[0], out[1], out[2] = letter, d1, d2
	return out, true
}

// trim strips leading/trailing ASCII whitespace without pulling in
// strings.TrimSpace's unicode-aware machinery: ECO tags are always
// plain ASCII in the PGN corpus this pipeline consumes.
func trim(s string) string {
	start := 0
	for start < len(s) && isSpace(s[start]) {
		start++
	}
	end := len(s)
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
