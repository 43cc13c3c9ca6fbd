package token

import (
	"context"
	"fmt"
)

// BoundedString accepts any string whose length falls within an inclusive
// [min, max] range. Ported from nessaid_cli.tokens.RangedStringToken.
type BoundedString struct {
	name       string
	min, max   int
	helpstring string
}

// NewBoundedString constructs a BoundedString token class. min and max are
// normalized so min <= max regardless of argument order, matching the
// original's constructor.
func NewBoundedString(name string, min, max int, helpstring string) (*BoundedString, error) {
	if min < 0 || max < 0 {
		return nil, fmt.Errorf("token %s: negative size", name)
	}
	if min > max {
		min, max = max, min
	}
	return &BoundedString{name: name, min: min, max: max, helpstring: helpstring}, nil
}

func (b *BoundedString) Name() string { return b.name }

func (b *BoundedString) Completable() bool     { return false }
func (b *BoundedString) CaseInsensitive() bool { return false }
func (b *BoundedString) Cacheable() bool       { return true }

func (b *BoundedString) Complete(_ context.Context, _ string) (int, []string, error) {
	return TooManyCompletions, nil, nil
}

func (b *BoundedString) Value(_ context.Context, input string) (any, error) {
	s := unquoteSimple(input)
	if len(s) >= b.min && len(s) <= b.max {
		return s, nil
	}
	return Null, nil
}

func (b *BoundedString) Match(ctx context.Context, input string) (MatchResult, error) {
	s := unquoteSimple(input)
	if len(s) > b.max {
		return Failure, nil
	}
	if len(s) == b.max {
		return Success, nil
	}
	return Partial, nil
}

func (b *BoundedString) Helpstring(_ context.Context, _ string) (string, error) {
	if b.helpstring != "" {
		return b.helpstring, nil
	}
	return fmt.Sprintf("Any string of length (%d-%d)", b.min, b.max), nil
}
