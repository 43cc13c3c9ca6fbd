package token

import "context"

// Keyword matches exactly one fixed string, case-sensitively. It is the
// default class for a bare literal keyword declared in grammar source, and
// is also installed for a `token NAME;` declaration with no class name.
//
// Ported from nessaid_cli.tokens.CliToken.
type Keyword struct {
	name       string
	helpstring string
}

// NewKeyword constructs a Keyword token class matching exactly name.
func NewKeyword(name string, helpstring string) *Keyword {
	return &Keyword{name: name, helpstring: helpstring}
}

func (k *Keyword) Name() string { return k.name }

func (k *Keyword) Completable() bool     { return true }
func (k *Keyword) CaseInsensitive() bool { return false }
func (k *Keyword) Cacheable() bool       { return true }

func (k *Keyword) Match(_ context.Context, input string) (MatchResult, error) {
	if k.name == input {
		return Success, nil
	}
	if len(k.name) >= len(input) && k.name[:len(input)] == input {
		return Partial, nil
	}
	return Failure, nil
}

func (k *Keyword) Complete(_ context.Context, input string) (int, []string, error) {
	n, comps := completeFromMultiple([]string{k.name}, input)
	return n, comps, nil
}

func (k *Keyword) Value(ctx context.Context, input string) (any, error) {
	m, err := k.Match(ctx, input)
	if err != nil {
		return Null, err
	}
	if m == Success {
		return input, nil
	}
	return Null, nil
}

func (k *Keyword) Helpstring(_ context.Context, _ string) (string, error) {
	if k.helpstring != "" {
		return k.helpstring, nil
	}
	return k.name, nil
}
