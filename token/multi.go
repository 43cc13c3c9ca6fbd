package token

// completeFromMultiple implements the "complete against a fixed option set"
// logic shared by Keyword and AlternativeStrings, ported from
// nessaid_cli.tokens.CliToken.complete_from_multiple.
func completeFromMultiple(options []string, input string) (int, []string) {
	if input == "" {
		out := make([]string, len(options))
		copy(out, options)
		return len(out), out
	}
	seen := map[string]bool{}
	var comps []string
	for _, o := range options {
		if len(o) >= len(input) && o[:len(input)] == input && !seen[o] {
			seen[o] = true
			comps = append(comps, o)
		}
	}
	return len(comps), comps
}

// matchFromMultiple implements the "match against a fixed option set" logic
// used by AlternativeStrings, ported from
// nessaid_cli.tokens.CliToken.match_from_multiple.
func matchFromMultiple(options []string, input string) MatchResult {
	if input != "" {
		for _, o := range options {
			if o == input {
				return Success
			}
		}
	}
	n, comps := completeFromMultiple(options, input)
	if n == TooManyCompletions {
		return Partial
	}
	if len(comps) == 0 {
		return Failure
	}
	if len(comps) == 1 {
		return Success
	}
	return Partial
}
