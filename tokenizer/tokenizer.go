// Package tokenizer splits a single input line into bare and quoted
// segments, the way a shell would, so the matcher can feed one segment at a
// time to the grammar.
//
// Ported from nessaid_cli.tokenizer.tokenizer: where the original builds a
// PLY lex/yacc pipeline over three token classes (TEXT, QUOTED_STR,
// QUOTED_INCOMPLETE_STR), this is a hand-written rune-at-a-time scanner
// with an explicit index and no rule table.
package tokenizer

import (
	"strings"

	"github.com/nessaid/gocli/internal/errs"
)

const (
	ErrIllegalChar errs.Kind = "tokenizer.illegal_char"
	ErrBadEscape   errs.Kind = "tokenizer.bad_escape"
)

// Segment is one whitespace- or quote-delimited unit of an input line.
type Segment struct {
	// Raw is the segment's literal source text, quotes and escapes intact.
	Raw string
	// Value is the decoded value: escape sequences resolved, surrounding
	// quotes stripped.
	Value string
	// Quoted is true if the segment was written with surrounding double
	// quotes.
	Quoted bool
	// Incomplete is true if the segment is an unterminated quoted string
	// (the line ends mid-quote, optionally mid-escape) — only possible for
	// the last segment of a line.
	Incomplete bool
	// Offset is the rune offset of Raw within the original line.
	Offset int
}

var escapeDecode = map[rune]rune{
	'\\': '\\',
	'"':  '"',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'b':  '\b',
	'v':  '\v',
	'a':  '\a',
	'0':  0,
}

// Tokenize splits line into segments. An unterminated quoted string at the
// end of the line (including one ending in a lone backslash) becomes a
// single Incomplete segment rather than an error, so a caller doing
// tab-completion on a partial line can still inspect it; any other
// malformed input is reported as an error.
func Tokenize(line string) ([]Segment, error) {
	runes := []rune(line)
	var segments []Segment
	i := 0
	n := len(runes)

	for i < n {
		for i < n && (runes[i] == ' ' || runes[i] == '\t') {
			i++
		}
		if i >= n {
			break
		}

		start := i
		if runes[i] == '"' {
			seg, next, err := scanQuoted(runes, i)
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
			i = next
			continue
		}

		for i < n && !isBareStop(runes[i]) {
			i++
		}
		if i == start {
			return nil, errs.Newf(ErrIllegalChar, "illegal character: %q", runes[i])
		}
		raw := string(runes[start:i])
		segments = append(segments, Segment{Raw: raw, Value: raw, Offset: start})
	}

	return segments, nil
}

func isBareStop(r rune) bool {
	switch r {
	case '"', '\n', '\\', ' ', '\t':
		return true
	default:
		return false
	}
}

// scanQuoted consumes a double-quoted segment starting at runes[start],
// which must be '"'. It mirrors t_QUOTED_STR / t_QUOTED_INCOMPLETE_STR: a
// closing quote ends the segment normally; running off the end of the
// input (optionally on a trailing lone backslash) marks it Incomplete
// instead of erroring.
func scanQuoted(runes []rune, start int) (Segment, int, error) {
	n := len(runes)
	i := start + 1
	var decoded strings.Builder
	var raw strings.Builder
	raw.WriteRune('"')

	for i < n {
		r := runes[i]
		switch r {
		case '"':
			raw.WriteRune(r)
			return Segment{
				Raw:    raw.String(),
				Value:  decoded.String(),
				Quoted: true,
				Offset: start,
			}, i + 1, nil
		case '\n', '\r', '\t', 0:
			return Segment{}, 0, errs.Newf(ErrIllegalChar, "illegal character in quoted token: %q", r)
		case '\\':
			raw.WriteRune(r)
			if i+1 >= n {
				return Segment{
					Raw:        raw.String(),
					Value:      decoded.String(),
					Quoted:     true,
					Incomplete: true,
					Offset:     start,
				}, n, nil
			}
			esc := runes[i+1]
			dec, ok := escapeDecode[esc]
			if !ok {
				return Segment{}, 0, errs.Newf(ErrBadEscape, "unknown escape sequence: \\%c", esc)
			}
			raw.WriteRune(esc)
			decoded.WriteRune(dec)
			i += 2
		default:
			raw.WriteRune(r)
			decoded.WriteRune(r)
			i++
		}
	}

	return Segment{
		Raw:        raw.String(),
		Value:      decoded.String(),
		Quoted:     true,
		Incomplete: true,
		Offset:     start,
	}, n, nil
}
