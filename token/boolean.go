package token

import (
	"context"

	"golang.org/x/text/cases"
)

var boolFold = cases.Fold()

// Boolean accepts "true"/"false" case-insensitively. Ported from
// nessaid_cli.tokens.BooleanToken; case folding uses golang.org/x/text/cases
// rather than strings.ToLower so the comparison is Unicode-correct the same
// way a locale-aware CLI would want Path's case-insensitivity to be.
type Boolean struct {
	name       string
	helpstring string
}

// NewBoolean constructs a Boolean token class.
func NewBoolean(name string, helpstring string) *Boolean {
	return &Boolean{name: name, helpstring: helpstring}
}

func (b *Boolean) Name() string { return b.name }

func (b *Boolean) Completable() bool     { return true }
func (b *Boolean) CaseInsensitive() bool { return true }
func (b *Boolean) Cacheable() bool       { return true }

func (b *Boolean) Complete(_ context.Context, input string) (int, []string, error) {
	folded := boolFold.String(input)
	if input == "" {
		return 2, []string{"True", "False"}, nil
	}
	if folded == "true" || folded == "false" {
		return 1, []string{input}, nil
	}
	if len(folded) <= len("true") && "true"[:len(folded)] == folded {
		return 1, []string{input + "true"[len(folded):]}, nil
	}
	if len(folded) <= len("false") && "false"[:len(folded)] == folded {
		return 1, []string{input + "false"[len(folded):]}, nil
	}
	return 0, nil, nil
}

func (b *Boolean) Match(ctx context.Context, input string) (MatchResult, error) {
	n, _, err := b.Complete(ctx, input)
	if err != nil {
		return Failure, err
	}
	if n == 0 {
		return Failure, nil
	}
	if n == 1 {
		folded := boolFold.String(input)
		if folded == "true" || folded == "false" {
			return Success, nil
		}
	}
	return Partial, nil
}

func (b *Boolean) Value(ctx context.Context, input string) (any, error) {
	n, comps, err := b.Complete(ctx, input)
	if err != nil {
		return Null, err
	}
	if n == 1 {
		if boolFold.String(comps[0]) == "true" {
			return true, nil
		}
		return false, nil
	}
	return Null, nil
}

func (b *Boolean) Helpstring(_ context.Context, _ string) (string, error) {
	if b.helpstring != "" {
		return b.helpstring, nil
	}
	return "True or False", nil
}
