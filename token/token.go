// Package token implements the pluggable terminal-token classes described in
// spec.md §6: the interface the matcher drives (match/complete/value/help)
// plus the predefined classes spec.md's table requires every implementation
// to reproduce.
//
// It is a direct port of the class hierarchy in the original Python
// implementation's nessaid_cli/tokens.py, translated to Go idiom: instead of
// an async/sync-hybrid method triple, every method accepts a context.Context
// so an implementation that must block (filesystem or network lookups, for
// instance) can do so cooperatively and be canceled like any other Go
// blocking call. This sidesteps spec.md §5's "hybrid sync/async" concern
// entirely, since there is only ever one calling convention to mismatch.
package token

import "context"

// MatchResult classifies how a prefix relates to a token class's accepted
// language.
type MatchResult int

const (
	// Success means the input is an exact, complete match.
	Success MatchResult = iota
	// Partial means the input is a valid but possibly-incomplete prefix.
	Partial
	// Failure means the input can never be completed into a match.
	Failure
)

func (m MatchResult) String() string {
	switch m {
	case Success:
		return "success"
	case Partial:
		return "partial"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// TooManyCompletions is returned as a completion count when the number of
// legal completions is unbounded or impractically large to enumerate; no
// suggestions are returned alongside it.
const TooManyCompletions = -1

// nullValue is the sentinel returned by Class.Value when the input string is
// not an acceptable value for the class (as opposed to a legitimate zero
// value such as 0 or "").
type nullValue struct{}

// Null is the sentinel "not acceptable" token value. Compare returned values
// with IsNull rather than testing equality directly, since Null has no
// exported fields to compare against.
var Null any = nullValue{}

// IsNull reports whether v is the Null sentinel.
func IsNull(v any) bool {
	_, ok := v.(nullValue)
	return ok
}

// Class is the interface the matcher requires of every terminal token class,
// per spec.md §6.
type Class interface {
	// Name is the declared name of this token (the grammar-source
	// identifier it was bound to), used for cache keys and diagnostics.
	Name() string

	// Match classifies the current prefix against this class's language.
	Match(ctx context.Context, input string) (MatchResult, error)

	// Complete returns the number of legal completions of input (or
	// TooManyCompletions) and, when bounded, the completions themselves.
	Complete(ctx context.Context, input string) (count int, suggestions []string, err error)

	// Value returns the canonical value for input, or Null if input is not
	// acceptable.
	Value(ctx context.Context, input string) (any, error)

	// Helpstring returns the text to display for this class at the current
	// input.
	Helpstring(ctx context.Context, input string) (string, error)

	// Completable reports whether Complete can usefully enumerate
	// suggestions for this class.
	Completable() bool

	// CaseInsensitive reports whether matching against this class should
	// ignore case.
	CaseInsensitive() bool

	// Cacheable reports whether results of calls to this class may be
	// memoized. The matcher in this module keeps no token-value cache and
	// does not read this flag.
	Cacheable() bool
}
