// Package cli glues the grammar/matcher/exec core to an actual terminal: a
// Reader abstracts where a line of input comes from, a Session drives the
// read-match-execute loop spec.md §5 describes, and Completer adapts dry-run
// Match results to github.com/chzyer/readline's completion hook.
//
// Ported from cmd/tqi's supporting cast: internal/input/input.go's
// DirectCommandReader/InteractiveCommandReader become Reader implementations
// here, generalized away from game-specific command parsing.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Reader is a source of command lines. Ported from internal/command.Reader,
// widened to not assume a game.Command result — a Session parses the raw
// line itself via the tokenizer/matcher.
type Reader interface {
	// ReadCommand reads a single line, blocking until one is ready. If the
	// line is empty (and blanks are not allowed) ReadCommand keeps reading
	// rather than returning an empty string; at end of input it returns ""
	// and io.EOF.
	ReadCommand() (string, error)

	// AllowBlank sets whether an empty line is returned as-is rather than
	// skipped.
	AllowBlank(allow bool)

	// Close releases any resources (terminal mode, open file) the Reader
	// holds.
	Close() error
}

// DirectReader reads lines from any io.Reader with no line-editing.
// Ported from input.DirectCommandReader.
type DirectReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// NewDirectReader wraps r in a buffered line reader.
func NewDirectReader(r io.Reader) *DirectReader {
	return &DirectReader{r: bufio.NewReader(r)}
}

func (dr *DirectReader) AllowBlank(allow bool) { dr.blanksAllowed = allow }

func (dr *DirectReader) Close() error { return nil }

func (dr *DirectReader) ReadCommand() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = dr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" && dr.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// InteractiveReader reads from stdin through chzyer/readline, giving history,
// line editing, and tab completion through the completer passed to
// NewInteractiveReader.
// Ported from input.InteractiveCommandReader.
type InteractiveReader struct {
	rl            *readline.Instance
	blanksAllowed bool
	prompt        string
}

// NewInteractiveReader starts a readline instance with the given prompt and
// completer. completer may be nil. historyFile, if non-empty, persists
// command history across sessions the way the --config history_file
// preference (SPEC_FULL.md's Configuration section) requests.
func NewInteractiveReader(prompt string, completer readline.AutoCompleter, historyFile string) (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:       prompt,
		AutoComplete: completer,
		HistoryFile:  historyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveReader{rl: rl, prompt: prompt}, nil
}

func (ir *InteractiveReader) AllowBlank(allow bool) { ir.blanksAllowed = allow }

func (ir *InteractiveReader) Close() error { return ir.rl.Close() }

func (ir *InteractiveReader) ReadCommand() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = ir.rl.Readline()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" && ir.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// SetPrompt updates the displayed prompt. Session.SetPrompt forwards to it
// when the Session's Reader is an InteractiveReader.
func (ir *InteractiveReader) SetPrompt(p string) {
	ir.prompt = p
	ir.rl.SetPrompt(p)
}

// GetPrompt returns the currently displayed prompt.
func (ir *InteractiveReader) GetPrompt() string { return ir.prompt }
