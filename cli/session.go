package cli

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/dekarrin/rosed"
	"github.com/google/uuid"
	"github.com/nessaid/gocli/exec"
	"github.com/nessaid/gocli/grammar"
	"github.com/nessaid/gocli/match"
	"github.com/nessaid/gocli/tokenizer"
)

// consoleOutputWidth is the default wrap width for host-printed and
// error-report text, matching engine.go's consoleOutputWidth.
const consoleOutputWidth = 80

// Session is one running instance of a grammar: a matcher bound to one root
// rule, an input Reader, an output stream, and (spec.md §5 "Reentrancy") a
// stack of child Sessions a command handler may push onto to hand control to
// a nested CLI context.
//
// Ported from engine.Engine's read/match/advance loop, generalized away from
// a single hardcoded game state to any compiled grammar.Spec.
type Session struct {
	ID uuid.UUID

	spec     *grammar.Spec
	rootRule *grammar.NamedRule
	matcher  *match.Matcher
	host     exec.Host

	in     Reader
	out    io.Writer
	width  int
	prompt string

	child   *Session
	running bool
}

// NewSession compiles rootRuleName's matcher against spec and wires it to
// in/out. host supplies the Print/ReadInput/Call hooks every binding block
// and builtin needs.
func NewSession(spec *grammar.Spec, rootRuleName string, host exec.Host, in Reader, out io.Writer) (*Session, error) {
	rule, ok := spec.Rule(rootRuleName)
	if !ok {
		return nil, fmt.Errorf("no such rule: %q", rootRuleName)
	}

	return &Session{
		ID:       uuid.New(),
		spec:     spec,
		rootRule: rule,
		matcher:  match.NewMatcher(spec, host),
		host:     host,
		in:       in,
		out:      out,
		width:    consoleOutputWidth,
		prompt:   "> ",
	}, nil
}

// SetWidth sets the console wrap width used for host output and error
// reports. Default is 80, matching engine.go.
func (s *Session) SetWidth(w int) { s.width = w }

// SetReader swaps the Session's input source. Used by a demo binary that
// needs a Completer wired to this Session before it can build the
// InteractiveReader the Completer feeds into — the Session has to exist
// first with a placeholder Reader, then gets swapped to the real one.
func (s *Session) SetReader(in Reader) { s.in = in }

// SetPrompt sets the prompt shown by an InteractiveReader, if s.in is one.
func (s *Session) SetPrompt(p string) {
	s.prompt = p
	if ir, ok := s.in.(*InteractiveReader); ok {
		ir.SetPrompt(p)
	}
}

// PushChild transfers control to child: the active Session while child is
// running is child, not s, so the matcher is never invoked recursively on
// the same grammar instance (spec.md §5 forbids that). Run reads and
// executes each later line through the innermost pushed Session (see
// active); nothing in Session removes a pushed child again.
func (s *Session) PushChild(child *Session) {
	s.child = child
}

// active returns the innermost Session currently accepting input: s itself,
// or (recursively) its child if one is pushed.
func (s *Session) active() *Session {
	if s.child != nil {
		return s.child.active()
	}
	return s
}

// Run starts the read-match-execute loop, first executing any startCommands
// verbatim (as `-c` on the demo binary supplies), then reading from s.in
// until it signals end-of-input or a command sets s.running = false via
// Stop.
func (s *Session) Run(ctx context.Context, startCommands []string) error {
	s.running = true
	defer func() { s.running = false }()

	for _, cmd := range startCommands {
		if err := s.runLine(ctx, cmd); err != nil {
			return err
		}
	}

	for s.running {
		cur := s.active()
		line, err := cur.in.ReadCommand()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read command: %w", err)
		}

		if err := cur.runLine(ctx, line); err != nil {
			return err
		}
	}

	return nil
}

// Stop ends the loop after the current command finishes.
func (s *Session) Stop() { s.running = false }

// Close tears down the Session's Reader (and any still-pushed child's).
// Ported from engine.Engine.Close's "cannot close a running engine" guard.
func (s *Session) Close() error {
	if s.running {
		return fmt.Errorf("cannot close a running session")
	}
	if s.child != nil {
		if err := s.child.Close(); err != nil {
			return err
		}
	}
	return s.in.Close()
}

func (s *Session) runLine(ctx context.Context, line string) error {
	segs, err := tokenizer.Tokenize(line)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %s\n", err.Error())
		return nil
	}

	tokens := make([]string, len(segs))
	for i, seg := range segs {
		tokens[i] = seg.Value
	}

	res, err := s.matcher.Match(ctx, s.rootRule, tokens, false, true, nil)
	if err != nil {
		return fmt.Errorf("match: %w", err)
	}

	s.report(res)
	return nil
}

// matchDryRun runs a non-executing completion probe, used by Completer.
func (s *Session) matchDryRun(ctx context.Context, tokens []string, lastTokenComplete bool) (*match.Result, error) {
	return s.matcher.Match(ctx, s.rootRule, tokens, true, lastTokenComplete, nil)
}

// report prints a Failure/Partial/Ambiguous outcome per spec.md §7's
// "user-visible behavior" table. A Success outcome needs no report here —
// its actions have already run and any output came from the binding code's
// own print() calls.
func (s *Session) report(res *match.Result) {
	switch res.Status {
	case match.Failure:
		msg := fmt.Sprintf("Error: %s (at %q)", res.Error, res.OffendingToken)
		fmt.Fprintln(s.out, rosed.Edit(msg).Wrap(s.width).String())
	case match.Partial:
		fmt.Fprintln(s.out, "Input sequence is not complete")
	case match.Ambiguous:
		fmt.Fprintln(s.out, "Ambiguous command: more than one interpretation matched")
	case match.Success:
		// binding code already printed whatever it wanted to.
	}
}

// HelpTable renders res's live completions as a one-column table, one row
// per entry of res.NextTokens (a completion, or a helpstring for a class
// with nothing to enumerate), the way a `?` keypress or a failed
// TAB-completion would display them. Grounded on internal/tunascript/grammar.go's
// rosed.Edit("").InsertTableOpts(...) usage for its grammar-dump table.
func (s *Session) HelpTable(res *match.Result) string {
	if len(res.NextTokens) == 0 {
		return ""
	}
	data := make([][]string, 0, len(res.NextTokens))
	for _, t := range res.NextTokens {
		data = append(data, []string{t})
	}
	return rosed.Edit("").
		InsertTableOpts(0, data, s.width, rosed.Options{
			NoTrailingLineSeparators: true,
		}).
		String()
}

// logf writes a level-prefixed diagnostic the way cmd/tqserver's use of the
// standard log package does — gocli pulls in no third-party logging library
// either, for the same reason documented in SPEC_FULL.md's Ambient Stack
// section.
func (s *Session) logf(level, format string, args ...any) {
	log.Printf("%s "+format, append([]any{level}, args...)...)
}
