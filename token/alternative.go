package token

import (
	"context"
	"fmt"
	"sort"
)

// AlternativeStrings matches one of a fixed set of values, with
// prefix-based completion. Ported from
// nessaid_cli.tokens.AlternativeStringsToken.
type AlternativeStrings struct {
	name         string
	alternatives []string
	helpstring   string
}

// NewAlternativeStrings constructs an AlternativeStrings token class over
// the given values.
func NewAlternativeStrings(name string, values []string, helpstring string) *AlternativeStrings {
	cp := make([]string, len(values))
	copy(cp, values)
	return &AlternativeStrings{name: name, alternatives: cp, helpstring: helpstring}
}

func (a *AlternativeStrings) Name() string { return a.name }

func (a *AlternativeStrings) Completable() bool     { return true }
func (a *AlternativeStrings) CaseInsensitive() bool { return false }
func (a *AlternativeStrings) Cacheable() bool       { return true }

func (a *AlternativeStrings) Match(_ context.Context, input string) (MatchResult, error) {
	return matchFromMultiple(a.alternatives, input), nil
}

func (a *AlternativeStrings) Complete(_ context.Context, input string) (int, []string, error) {
	n, comps := completeFromMultiple(a.alternatives, input)
	return n, comps, nil
}

func (a *AlternativeStrings) Value(ctx context.Context, input string) (any, error) {
	if a.Completable() {
		_, comps, err := a.Complete(ctx, input)
		if err != nil {
			return Null, err
		}
		if len(comps) == 1 {
			return comps[0], nil
		}
		m, err := a.Match(ctx, input)
		if err != nil {
			return Null, err
		}
		if m == Success {
			return input, nil
		}
	}
	return Null, nil
}

func (a *AlternativeStrings) Helpstring(_ context.Context, input string) (string, error) {
	_, comps := completeFromMultiple(a.alternatives, input)
	if len(comps) == 1 {
		return comps[0], nil
	}
	if len(comps) > 0 {
		return "Any one of: " + setString(comps), nil
	}
	if a.helpstring != "" {
		return a.helpstring, nil
	}
	return "Any one of: " + setString(a.alternatives), nil
}

func setString(vals []string) string {
	seen := map[string]bool{}
	var uniq []string
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			uniq = append(uniq, v)
		}
	}
	sort.Strings(uniq)
	return fmt.Sprintf("%v", uniq)
}
