// Package match implements the online incremental matcher described in
// spec.md §4.4: given a grammar.Spec and a token stream, it classifies the
// stream against the grammar one token at a time, producing completion
// suggestions for an incomplete prefix or a fully-resolved execution result
// for a complete one.
//
// Ported from nessaid_cli.interface.CliInterface.match/fix_sequences — the
// Python original interleaves matching and execution in a single method;
// this port keeps that same two-phase shape (Match drives the frontier,
// then hands a single surviving sequence to exec.RunSequence) but splits it
// across packages along spec.md's module boundary.
package match

import "github.com/nessaid/gocli/action"

// Status classifies the outcome of a Match call.
type Status int

const (
	// Failure means no rule in the grammar can accept the input seen so
	// far; Matcher.Match stops consuming tokens at the offending one.
	Failure Status = iota
	// Partial means every token seen so far is a valid prefix, but more
	// input is required before any rule could complete.
	Partial
	// Ambiguous means the input is complete but more than one rule
	// sequence accepts it, and fix_sequences could not resolve the tie.
	Ambiguous
	// Success means exactly one rule sequence accepts the complete input.
	// If the call was not a dry run, its actions have already run.
	Success
)

func (s Status) String() string {
	switch s {
	case Failure:
		return "failure"
	case Partial:
		return "partial"
	case Ambiguous:
		return "ambiguous"
	case Success:
		return "success"
	default:
		return "unknown"
	}
}

// Result is the outcome of one Matcher.Match call, ported field-for-field
// from nessaid_cli.interface.ParsingResult.
type Result struct {
	Status Status
	Error  string

	// MatchedSequence is the raw input tokens consumed so far, in order.
	MatchedSequence []string
	// MatchedValues is the canonical Value for each token in
	// MatchedSequence, populated only on Success.
	MatchedValues []*action.Value

	// OffendingToken and OffendingTokenPosition identify the first token
	// that broke every remaining candidate, set on Failure.
	OffendingToken         string
	OffendingTokenPosition int

	// NextTokens lists the completions or helpstrings live at the current
	// position, suitable for an interactive completer to show the user.
	NextTokens []string
	// NextConstantToken is set when exactly one completion is possible and
	// it is already a full, unambiguous token — callers can auto-insert it.
	NextConstantToken string
	// LastTokenInput and LastTokenCommonPrefix record the input seen for
	// the still-open final token and the longest prefix shared by every
	// live completion of it, for an interactive completer's "fill in as
	// far as you can" behavior.
	LastTokenInput       string
	LastTokenCommonPrefix string

	// CaseInsensitive is true if any live next-token class ignores case,
	// so a completer can match the user's partial input case-insensitively.
	CaseInsensitive bool
}
