package token

import "context"

// AnyString accepts any string and is never completable. Ported from
// nessaid_cli.tokens.StringToken.
type AnyString struct {
	name       string
	helpstring string
}

// NewAnyString constructs an AnyString token class.
func NewAnyString(name string, helpstring string) *AnyString {
	return &AnyString{name: name, helpstring: helpstring}
}

func (s *AnyString) Name() string { return s.name }

func (s *AnyString) Completable() bool     { return false }
func (s *AnyString) CaseInsensitive() bool { return false }
func (s *AnyString) Cacheable() bool       { return true }

func (s *AnyString) Match(_ context.Context, _ string) (MatchResult, error) {
	return Partial, nil
}

func (s *AnyString) Complete(_ context.Context, _ string) (int, []string, error) {
	return TooManyCompletions, nil, nil
}

func (s *AnyString) Value(_ context.Context, input string) (any, error) {
	return unquoteSimple(input), nil
}

func (s *AnyString) Helpstring(_ context.Context, _ string) (string, error) {
	if s.helpstring != "" {
		return s.helpstring, nil
	}
	return "Any string", nil
}

// unquoteSimple strips a single pair of leading/trailing double quotes, the
// same minimal unwrapping nessaid_cli.tokens.StringToken.get_value performs
// (full escape decoding happens in the tokenizer, not here).
func unquoteSimple(s string) string {
	if len(s) > 0 && s[0] == '"' {
		s = s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == '"' {
		s = s[:len(s)-1]
	}
	return s
}
