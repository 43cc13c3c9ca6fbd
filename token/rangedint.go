package token

import (
	"context"
	"fmt"
	"strconv"
)

// RangedInt matches an integer within an inclusive [lo, hi] range, with
// numeric-prefix completion: a partial digit string completes to every
// integer in range sharing that prefix, up to maxSuggestions, after which
// completion degrades to a bare count with no enumerated options.
//
// Ported from nessaid_cli.tokens.RangedIntToken, including its digit-length
// based prefix-expansion algorithm and its negation trick for negative
// ranges (complete the absolute value against the mirrored positive range,
// then negate the results).
type RangedInt struct {
	name           string
	lo, hi         int
	maxSuggestions int
	helpstring     string
}

// NewRangedInt constructs a RangedInt token class over the inclusive range
// [lo, hi] (reordered if given reversed), completing at most maxSuggestions
// values before degrading to a bare count. maxSuggestions <= 0 defaults to 10.
func NewRangedInt(name string, lo, hi, maxSuggestions int, helpstring string) *RangedInt {
	if lo > hi {
		lo, hi = hi, lo
	}
	if maxSuggestions <= 0 {
		maxSuggestions = 10
	}
	return &RangedInt{name: name, lo: lo, hi: hi, maxSuggestions: maxSuggestions, helpstring: helpstring}
}

func (r *RangedInt) Name() string { return r.name }

func (r *RangedInt) Completable() bool     { return true }
func (r *RangedInt) CaseInsensitive() bool { return false }
func (r *RangedInt) Cacheable() bool       { return true }

func (r *RangedInt) Helpstring(_ context.Context, _ string) (string, error) {
	if r.helpstring != "" {
		return r.helpstring, nil
	}
	return fmt.Sprintf("An integer between %d and %d", r.lo, r.hi), nil
}

func (r *RangedInt) Value(_ context.Context, input string) (any, error) {
	n, err := strconv.Atoi(input)
	if err != nil {
		return Null, nil
	}
	if n >= r.lo && n <= r.hi {
		return n, nil
	}
	return Null, nil
}

func (r *RangedInt) Match(ctx context.Context, input string) (MatchResult, error) {
	n, _, err := r.Complete(ctx, input)
	if err != nil {
		return Failure, err
	}
	if n > 1 || n == TooManyCompletions {
		return Partial, nil
	}
	if n == 1 {
		return Success, nil
	}
	return Failure, nil
}

// completeDigits enumerates integers in [minLimit, maxLimit] whose decimal
// representation extends the given non-negative number's digit string as a
// prefix, mirroring RangedIntToken._complete exactly.
func (r *RangedInt) completeDigits(minLimit, maxLimit, number int) (int, []int) {
	if number == 0 {
		total := maxLimit - minLimit + 1
		if total > r.maxSuggestions {
			return total, nil
		}
		out := make([]int, 0, total)
		for i := minLimit; i <= maxLimit; i++ {
			out = append(out, i)
		}
		return total, out
	}

	if number > maxLimit {
		return 0, nil
	}

	minLen := len(strconv.Itoa(minLimit))
	maxLen := len(strconv.Itoa(maxLimit))
	numberLen := len(strconv.Itoa(number))

	count := 0
	var completions []int
	minNum := number
	maxNum := number
	numLen := numberLen
	power := 10

	if numLen < minLen {
		for numLen < minLen {
			minNum = minNum * 10
			maxNum = minNum + power - 1
			numLen++
			power *= 10
		}
	}

	if numLen == minLen {
		if numLen == maxLen && (maxNum < minLimit || minNum > maxLimit) {
			return 0, nil
		}
		lowerLimit := minLimit
		if minNum > lowerLimit {
			lowerLimit = minNum
		}
		upperLimit := maxLimit
		if maxNum < upperLimit {
			upperLimit = maxNum
		}
		count = upperLimit - lowerLimit + 1
		if count > r.maxSuggestions {
			return count, nil
		}
		for i := lowerLimit; i <= upperLimit; i++ {
			completions = append(completions, i)
		}
		if numLen == maxLen || count > r.maxSuggestions {
			return count, completions
		}
	} else {
		count = 1
		completions = []int{number}
	}

	numLen++
	minNum = minNum * 10
	maxNum = minNum + power - 1

	for numLen < maxLen {
		count += power
		if count > r.maxSuggestions {
			return count, nil
		}
		for i := minNum; i <= maxNum; i++ {
			completions = append(completions, i)
		}
		numLen++
		power = 1
		for i := 0; i < numLen-numberLen; i++ {
			power *= 10
		}
		minNum = minNum * 10
		maxNum = minNum + power - 1
	}

	if minNum <= maxLimit && numLen == maxLen {
		upper := maxNum
		if maxLimit < upper {
			upper = maxLimit
		}
		count += upper - minNum + 1
		if count > r.maxSuggestions {
			return count, nil
		}
		for i := minNum; i <= upper; i++ {
			completions = append(completions, i)
		}
	}

	return count, completions
}

func (r *RangedInt) Complete(_ context.Context, input string) (int, []string, error) {
	if input == "-" {
		if r.lo >= 0 {
			return 0, nil, nil
		}
		var loArg, hiArg int
		if r.hi >= 0 {
			loArg, hiArg = 0, -r.lo
		} else {
			loArg, hiArg = -r.hi, -r.lo
		}
		n, comps := r.completeDigits(loArg, hiArg, 0)
		if n > 0 && comps == nil {
			return n, nil, nil
		}
		out := make([]string, len(comps))
		for i, c := range comps {
			out[i] = strconv.Itoa(-c)
		}
		return n, out, nil
	}

	if input == "" {
		count := r.hi - r.lo + 1
		if count > r.maxSuggestions {
			return count, nil, nil
		}
		if count == 1 {
			return 1, []string{strconv.Itoa(r.lo)}, nil
		}
		if count <= 0 {
			return 0, nil, nil
		}
		out := make([]string, 0, count)
		for i := r.lo; i <= r.hi; i++ {
			out = append(out, strconv.Itoa(i))
		}
		return count, out, nil
	}

	number, err := strconv.Atoi(input)
	if err != nil {
		return 0, nil, nil
	}

	negative := number < 0 || (len(input) > 0 && input[0] == '-')
	if negative {
		if number == 0 && r.lo == 0 {
			return 1, []string{"0"}, nil
		}
		if r.lo >= 0 {
			return 0, nil, nil
		}
		var loArg, hiArg int
		if r.hi >= 0 {
			loArg, hiArg = 0, -r.lo
		} else {
			loArg, hiArg = -r.hi, -r.lo
		}
		n, comps := r.completeDigits(loArg, hiArg, -number)
		if n > 0 && comps == nil {
			return n, nil, nil
		}
		out := make([]string, len(comps))
		for i, c := range comps {
			out[i] = strconv.Itoa(-c)
		}
		return n, out, nil
	}

	if r.hi < 0 {
		return 0, nil, nil
	}
	loArg := r.lo
	if r.lo <= 0 {
		loArg = 0
	}
	n, comps := r.completeDigits(loArg, r.hi, number)
	if n > 0 && comps == nil {
		return n, nil, nil
	}
	out := make([]string, len(comps))
	for i, c := range comps {
		out[i] = strconv.Itoa(c)
	}
	return n, out, nil
}
