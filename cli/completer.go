package cli

import (
	"context"

	"github.com/nessaid/gocli/tokenizer"
)

// Completer adapts a Session's dry-run Match results to
// github.com/chzyer/readline's AutoCompleter interface: on every TAB press
// readline hands it the full buffer and cursor position, and expects back
// the literal runes to splice in after the cursor plus how many of them to
// treat as a single completion unit.
//
// Grounded on spec.md §4.7's "feed buffer to matcher in dry-run mode,
// translate results to completion/help suggestions" and the
// AutoCompleter-hook comment in SPEC_FULL.md §4 attached to
// readline.Config.AutoComplete.
type Completer struct {
	s *Session
}

// NewCompleter builds a Completer bound to s.
func NewCompleter(s *Session) *Completer {
	return &Completer{s: s}
}

// Do implements readline.AutoCompleter. Only the portion of line up to pos
// is considered — gocli completes the word under the cursor, not anything
// typed after it.
func (c *Completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	prefix := string(line[:pos])

	segs, err := tokenizer.Tokenize(prefix)
	if err != nil {
		return nil, 0
	}

	var tokens []string
	lastComplete := true
	for _, seg := range segs {
		tokens = append(tokens, seg.Value)
	}
	if len(tokens) > 0 {
		last := segs[len(segs)-1]
		if last.Incomplete || !endsInSpace(prefix) {
			lastComplete = false
		}
	}

	res, err := c.s.matchDryRun(context.Background(), tokens, lastComplete)
	if err != nil || res == nil {
		return nil, 0
	}

	typed := res.LastTokenInput
	for _, opt := range res.NextTokens {
		if len(opt) < len(typed) || opt[:len(typed)] != typed {
			continue
		}
		newLine = append(newLine, []rune(opt[len(typed):]))
	}
	return newLine, len(typed)
}

func endsInSpace(s string) bool {
	if len(s) == 0 {
		return false
	}
	c := s[len(s)-1]
	return c == ' ' || c == '\t'
}
