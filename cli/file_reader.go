package cli

import (
	"bufio"
	"io"
	"strings"
)

// FileReader reads commands from a queued script instead of an interactive
// editor (spec.md §6 "File input"): one line at a time, merging a trailing
// `\` continuation into the next physical line, and dropping `#`-prefixed
// full-line comments. It implements Reader so a Session can't tell the
// difference.
//
// Grounded on the trim/retry-on-empty shape of input.go's ReadCommand loops,
// generalized here to also merge continuation lines before the blank-line
// check runs.
type FileReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// NewFileReader wraps r as a script source.
func NewFileReader(r io.Reader) *FileReader {
	return &FileReader{r: bufio.NewReader(r)}
}

func (fr *FileReader) AllowBlank(allow bool) { fr.blanksAllowed = allow }

func (fr *FileReader) Close() error { return nil }

func (fr *FileReader) ReadCommand() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = fr.readLogicalLine()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			line = ""
			continue
		}

		line = trimmed
		if line == "" && fr.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// readLogicalLine reads one physical line, then keeps appending further
// physical lines for as long as each physical line ends in a backslash
// (the backslash itself is dropped).
func (fr *FileReader) readLogicalLine() (string, error) {
	var b strings.Builder
	for {
		raw, err := fr.r.ReadString('\n')
		raw = strings.TrimRight(raw, "\r\n")

		if strings.HasSuffix(raw, "\\") {
			b.WriteString(strings.TrimSuffix(raw, "\\"))
			if err == io.EOF {
				return b.String(), nil
			}
			continue
		}

		b.WriteString(raw)
		return b.String(), err
	}
}
