package token

import (
	"context"
	"fmt"
	"strconv"
)

// RangedDecimal matches a floating-point number within an inclusive
// [lo, hi] range. It is never completable, and Match never reports
// Success: any input not ruled out is Partial, and Value decides whether a
// parsed float is in range.
//
// Ported from nessaid_cli.tokens.RangedDecimalToken.
type RangedDecimal struct {
	name       string
	lo, hi     float64
	helpstring string
}

// NewRangedDecimal constructs a RangedDecimal token class over the
// inclusive range [lo, hi] (reordered if given reversed).
func NewRangedDecimal(name string, lo, hi float64, helpstring string) *RangedDecimal {
	if lo > hi {
		lo, hi = hi, lo
	}
	return &RangedDecimal{name: name, lo: lo, hi: hi, helpstring: helpstring}
}

func (r *RangedDecimal) Name() string { return r.name }

func (r *RangedDecimal) Completable() bool     { return false }
func (r *RangedDecimal) CaseInsensitive() bool { return false }
func (r *RangedDecimal) Cacheable() bool       { return true }

func (r *RangedDecimal) Complete(_ context.Context, _ string) (int, []string, error) {
	return 0, nil, nil
}

func (r *RangedDecimal) Match(_ context.Context, input string) (MatchResult, error) {
	if input == "" {
		return Partial, nil
	}
	if input == "-" {
		if r.lo >= 0 {
			return Failure, nil
		}
		return Partial, nil
	}
	decimal, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return Failure, nil
	}
	if decimal > 0 && decimal > r.hi {
		return Failure, nil
	}
	if decimal < 0 && decimal < r.lo {
		return Failure, nil
	}
	return Partial, nil
}

func (r *RangedDecimal) Value(_ context.Context, input string) (any, error) {
	n, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return Null, nil
	}
	if n >= r.lo && n <= r.hi {
		return n, nil
	}
	return Null, nil
}

func (r *RangedDecimal) Helpstring(_ context.Context, _ string) (string, error) {
	if r.helpstring != "" {
		return r.helpstring, nil
	}
	return fmt.Sprintf("A decimal number between %v and %v", r.lo, r.hi), nil
}
