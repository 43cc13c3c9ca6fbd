package match

import (
	"context"
	"sort"

	"github.com/nessaid/gocli/action"
	"github.com/nessaid/gocli/exec"
	"github.com/nessaid/gocli/grammar"
	"github.com/nessaid/gocli/internal/errs"
	"github.com/nessaid/gocli/token"
)

// ErrMatch classifies a structural failure in the matcher itself — a
// terminal with no resolvable token class, not a grammar rejection of the
// input (that is reported through Result, not an error).
const ErrMatch errs.Kind = "match"

// endOfInputMarker is the synthetic completion entry standing in for
// nessaid_cli's EndOfInpuToken singleton in a Result's NextTokens list.
const endOfInputMarker = "<end>"

// Matcher drives the online incremental algorithm of spec.md §4.4 against
// one grammar.Spec, optionally executing a uniquely-matched sequence's
// bindings through an exec.Context.
//
// Ported from nessaid_cli.interface.CliInterface.match/fix_sequences. The
// Python original interleaves frontier bookkeeping with a parallel pair of
// lists (matching_sequences/matching_seq_choices) kept in lockstep by
// position; this port folds each (sequence-so-far, next-choices) pair into
// one frontierItem so the two can never drift out of sync.
type Matcher struct {
	spec   *grammar.Spec
	walker *grammar.Walker
	host   exec.Host
}

// NewMatcher builds a Matcher bound to spec. host may be nil if the caller
// only ever runs dry-run matches (e.g. a pure completion engine with no
// execution side).
func NewMatcher(spec *grammar.Spec, host exec.Host) *Matcher {
	return &Matcher{spec: spec, walker: grammar.NewWalker(spec), host: host}
}

// frontierItem is one live candidate: the Positions matched by every token
// consumed so far, plus the Positions legal to test the next token against.
type frontierItem struct {
	seq     []grammar.Position
	choices []grammar.Position
}

// Match classifies tokens against rule, spec.md §4.4's online algorithm.
// lastTokenComplete reports whether the final element of tokens is a fully
// typed token (a trailing space was seen) rather than still being composed;
// dryRun suppresses execution even on a unique Success, per spec.md §4.6's
// distinction between a completion probe and a real command submission.
// rootArgs supplies the root rule's own call-site arguments (e.g. a CLI's
// fixed positional context), mapped the same way a RuleRef's would be.
func (m *Matcher) Match(ctx context.Context, rule *grammar.NamedRule, tokens []string, dryRun bool, lastTokenComplete bool, rootArgs []*action.Value) (*Result, error) {
	res := &Result{}

	start := m.walker.First(rule)
	if len(start) == 0 {
		res.Status = Failure
		res.Error = "no matching start tokens"
		if len(tokens) > 0 {
			res.OffendingToken = tokens[0]
		}
		return res, nil
	}

	if len(tokens) == 0 {
		res.Status = Partial
		res.Error = "no input"
		if err := m.populateNextTokens(ctx, res, start, ""); err != nil {
			return nil, err
		}
		return res, nil
	}

	items := []frontierItem{{choices: start}}

	for idx, tok := range tokens {
		isLastTok := idx == len(tokens)-1
		tokenComplete := !isLastTok || lastTokenComplete

		survivors, ambiguous, err := m.stepToken(ctx, items, tok, dryRun, tokenComplete)
		if err != nil {
			return nil, err
		}
		if ambiguous {
			res.Status = Failure
			res.Error = "ambiguous options matched for the input token"
			res.OffendingToken = tok
			res.OffendingTokenPosition = idx
			return res, nil
		}

		res.MatchedSequence = append(res.MatchedSequence, tok)

		if len(survivors) == 0 {
			res.Status = Failure
			res.Error = "could not match any rule for this sequence"
			res.OffendingToken = tok
			res.OffendingTokenPosition = idx
			return res, nil
		}

		seqComplete := false
		next := make([]frontierItem, len(survivors))
		var frontierUnion []grammar.Position
		for i, sv := range survivors {
			last := sv.seq[len(sv.seq)-1]
			if !tokenComplete {
				// Still composing the final token: keep offering the same
				// class rather than advancing past it, and surface that
				// same class (not its continuation) as the completion
				// frontier.
				next[i] = frontierItem{seq: sv.seq, choices: []grammar.Position{last}}
				frontierUnion = appendUnique(frontierUnion, last)
				continue
			}
			nexts := m.walker.Next(last)
			var choices []grammar.Position
			for _, n := range nexts {
				if n.IsEndOfInput() {
					seqComplete = true
					frontierUnion = appendUnique(frontierUnion, n)
					continue
				}
				choices = appendUnique(choices, n)
				frontierUnion = appendUnique(frontierUnion, n)
			}
			next[i] = frontierItem{seq: sv.seq, choices: choices}
		}
		items = next

		if isLastTok {
			return m.finish(ctx, res, rule, survivors, tokens, rootArgs, dryRun, seqComplete, frontierUnion)
		}
	}

	// Unreachable: the loop above always returns on its last iteration.
	return res, nil
}

// stepToken classifies tok against every live item's current choices,
// exactly as one outer-for-sequence round of CliInterface.match does: full
// matches extend their sequence unconditionally, partial matches extend it
// only if acceptPartials says the ambiguity rules allow it. ambiguous is
// true the moment any single item's partial matches can't be resolved,
// mirroring the original's immediate return from inside the loop.
func (m *Matcher) stepToken(ctx context.Context, items []frontierItem, tok string, dryRun, tokenComplete bool) ([]frontierItem, bool, error) {
	var out []frontierItem
	for _, it := range items {
		var full, partial []grammar.Position
		for _, choice := range it.choices {
			if choice.IsEndOfInput() {
				continue
			}
			cls, err := resolveClass(m.spec, choice.Terminal)
			if err != nil {
				return nil, false, err
			}
			mr, err := cls.Match(ctx, tok)
			if err != nil {
				return nil, false, err
			}
			switch mr {
			case token.Success:
				full = append(full, choice)
			case token.Partial:
				partial = append(partial, choice)
			}
		}

		for _, c := range full {
			out = append(out, frontierItem{seq: appendPos(it.seq, c)})
		}

		if len(partial) > 0 {
			accepted, ambiguous, err := m.acceptPartials(ctx, partial, tok, dryRun, tokenComplete)
			if err != nil {
				return nil, false, err
			}
			if ambiguous {
				return nil, true, nil
			}
			for _, c := range accepted {
				out = append(out, frontierItem{seq: appendPos(it.seq, c)})
			}
		}
	}
	return out, false, nil
}

// acceptPartials decides which of one item's partially-matching choices
// survive into the next round, ported from CliInterface.match's
// completion/partial_matches bookkeeping. tokenComplete false means this is
// the still-being-typed final token of the whole input (a dry-run
// completion probe), which relaxes the usual "must resolve to one value"
// requirement.
func (m *Matcher) acceptPartials(ctx context.Context, partial []grammar.Position, tok string, dryRun, tokenComplete bool) ([]grammar.Position, bool, error) {
	classes := make([]token.Class, len(partial))
	for i, p := range partial {
		cls, err := resolveClass(m.spec, p.Terminal)
		if err != nil {
			return nil, false, err
		}
		classes[i] = cls
	}

	var completions []string
	for _, cls := range classes {
		if !cls.Completable() {
			continue
		}
		_, comps, err := cls.Complete(ctx, tok)
		if err != nil {
			return nil, false, err
		}
		completions = append(completions, comps...)
	}

	var accepted []grammar.Position
	for i, p := range partial {
		cls := classes[i]
		if cls.Completable() {
			switch {
			case len(completions) > 0:
				switch {
				case dryRun && !tokenComplete:
					accepted = append(accepted, p)
				case len(completions) == 1:
					_, comps, err := cls.Complete(ctx, tok)
					if err != nil {
						return nil, false, err
					}
					if len(comps) == 1 {
						accepted = append(accepted, p)
					}
				default:
					v, err := cls.Value(ctx, tok)
					if err != nil {
						return nil, false, err
					}
					if !token.IsNull(v) {
						accepted = append(accepted, p)
					} else {
						return nil, true, nil
					}
				}
			case dryRun && !tokenComplete:
				accepted = append(accepted, p)
			case len(partial) == 1:
				v, err := cls.Value(ctx, tok)
				if err != nil {
					return nil, false, err
				}
				if !token.IsNull(v) {
					accepted = append(accepted, p)
				}
			}
		} else {
			v, err := cls.Value(ctx, tok)
			if err != nil {
				return nil, false, err
			}
			if !token.IsNull(v) {
				accepted = append(accepted, p)
			} else if dryRun && !tokenComplete {
				accepted = append(accepted, p)
			}
		}
	}
	return accepted, false, nil
}

// finish assembles the Result once the final input token has been
// classified: completion info always, plus (for a non-dry-run call) the
// success/ambiguous/failure verdict and, on a unique success, execution.
func (m *Matcher) finish(ctx context.Context, res *Result, rule *grammar.NamedRule, survivors []frontierItem, tokens []string, rootArgs []*action.Value, dryRun, seqComplete bool, frontier []grammar.Position) (*Result, error) {
	promptChoices := frontier
	if seqComplete {
		promptChoices = appendUnique(promptChoices, grammar.Position{})
	}
	curInput := ""
	if len(tokens) > 0 {
		curInput = tokens[len(tokens)-1]
	}
	if err := m.populateNextTokens(ctx, res, promptChoices, curInput); err != nil {
		return nil, err
	}

	if dryRun {
		res.Status = Partial
		return res, nil
	}

	if !seqComplete {
		res.Status = Partial
		res.Error = "input sequence is not complete"
		return res, nil
	}

	sequences := make([][]grammar.Position, len(survivors))
	for i, sv := range survivors {
		sequences[i] = sv.seq
	}
	if len(sequences) > 1 {
		resolved, ok := m.fixSequences(ctx, sequences, tokens)
		if ok {
			sequences = resolved
		}
	}

	if len(sequences) != 1 {
		res.Status = Ambiguous
		res.Error = "multiple ambiguous sequences matched for the input"
		return res, nil
	}

	seq := sequences[0]
	values := make([]*action.Value, len(seq))
	for i, pos := range seq {
		cls, err := resolveClass(m.spec, pos.Terminal)
		if err != nil {
			return nil, err
		}
		v, err := cls.Value(ctx, tokens[i])
		if err != nil {
			return nil, err
		}
		values[i] = action.FromAny(v)
	}
	res.MatchedValues = values

	out, err := exec.NewContext(m.spec, m.host).RunSequence(rule, rootArgs, seq, values)
	if err != nil {
		return nil, err
	}
	for i := range rootArgs {
		if i < len(out) && rootArgs[i] != nil {
			rootArgs[i].Assign(out[i])
		}
	}
	res.Status = Success
	return res, nil
}

// fixSequences narrows a tie between equal-length ambiguous sequences by
// preferring, position by position, a token that MATCH_SUCCESS-classifies
// over one that only partially matches, then a completable class over a
// non-completable one — ported from CliInterface.fix_sequences. ok is false
// if the sequences have mismatched lengths, which the original treats as
// unresolvable.
func (m *Matcher) fixSequences(ctx context.Context, sequences [][]grammar.Position, tokens []string) ([][]grammar.Position, bool) {
	length := len(sequences[0])
	for _, s := range sequences {
		if len(s) != length {
			return nil, false
		}
	}

	keep := map[int]bool{}
	for i := range sequences {
		keep[i] = true
	}

	for i := 0; i < length; i++ {
		if samePositionAcross(sequences, i) {
			continue
		}

		var kinds []token.MatchResult
		for _, seq := range sequences {
			cls, err := resolveClass(m.spec, seq[i].Terminal)
			if err != nil {
				return nil, false
			}
			mr, err := cls.Match(ctx, tokens[i])
			if err != nil {
				return nil, false
			}
			kinds = append(kinds, mr)
		}

		anySuccess := false
		for _, k := range kinds {
			if k == token.Success {
				anySuccess = true
				break
			}
		}
		if anySuccess {
			for j := range sequences {
				if keep[j] && kinds[j] != token.Success {
					delete(keep, j)
				}
			}
			if len(keep) == 1 {
				return [][]grammar.Position{sequences[onlyKey(keep)]}, true
			}
		}

		var completable []bool
		anyCompletable := false
		for _, seq := range sequences {
			cls, err := resolveClass(m.spec, seq[i].Terminal)
			if err != nil {
				return nil, false
			}
			c := cls.Completable()
			completable = append(completable, c)
			if c {
				anyCompletable = true
			}
		}
		if anyCompletable {
			for j := range sequences {
				if keep[j] && !completable[j] {
					delete(keep, j)
				}
			}
			if len(keep) == 1 {
				return [][]grammar.Position{sequences[onlyKey(keep)]}, true
			}
		}
	}

	return sequences, false
}

func samePositionAcross(sequences [][]grammar.Position, i int) bool {
	first := sequences[0][i]
	for _, seq := range sequences[1:] {
		if positionKey(seq[i]) != positionKey(first) {
			return false
		}
	}
	return true
}

func onlyKey(m map[int]bool) int {
	for k := range m {
		return k
	}
	return -1
}

func appendPos(seq []grammar.Position, p grammar.Position) []grammar.Position {
	out := make([]grammar.Position, len(seq), len(seq)+1)
	copy(out, seq)
	return append(out, p)
}

// populateNextTokens fills in the completion-facing fields of res from one
// round's frontier, ported from CliInterface.match's nested set_next_tokens
// closure and ParsingResult.set_next_tokens.
func (m *Matcher) populateNextTokens(ctx context.Context, res *Result, choices []grammar.Position, curInput string) error {
	seen := map[string]bool{}
	var tokens []string
	addEOI := false
	firstCompletable := false
	firstSeen := false

	for _, c := range choices {
		if c.IsEndOfInput() {
			addEOI = true
			continue
		}
		cls, err := resolveClass(m.spec, c.Terminal)
		if err != nil {
			return err
		}
		if !firstSeen {
			firstSeen = true
			firstCompletable = cls.Completable()
		}
		if cls.Completable() {
			_, comps, err := cls.Complete(ctx, curInput)
			if err != nil {
				return err
			}
			if len(comps) == 0 {
				hs, err := cls.Helpstring(ctx, curInput)
				if err != nil {
					return err
				}
				if !seen[hs] {
					seen[hs] = true
					tokens = append(tokens, hs)
				}
				continue
			}
			if cls.CaseInsensitive() {
				res.CaseInsensitive = true
			}
			for _, s := range comps {
				if !seen[s] {
					seen[s] = true
					tokens = append(tokens, s)
				}
			}
		} else {
			hs, err := cls.Helpstring(ctx, curInput)
			if err != nil {
				return err
			}
			if !seen[hs] {
				seen[hs] = true
				tokens = append(tokens, hs)
			}
		}
	}

	sort.Strings(tokens)
	res.NextTokens = tokens

	if addEOI {
		res.NextTokens = append(res.NextTokens, endOfInputMarker)
	} else if curInput != "" {
		cp := commonPrefix(tokens)
		if cp != "" {
			res.LastTokenInput = curInput
			res.LastTokenCommonPrefix = cp
		}
	}

	if len(res.NextTokens) == 1 && res.NextTokens[0] != "" {
		if res.LastTokenCommonPrefix != "" {
			if res.LastTokenInput == res.LastTokenCommonPrefix && firstCompletable {
				res.NextConstantToken = res.LastTokenCommonPrefix
			}
		} else if firstCompletable && len(choices) > 0 {
			cls, err := resolveClass(m.spec, choices[0].Terminal)
			if err == nil {
				_, comps, err := cls.Complete(ctx, "")
				if err == nil && len(comps) == 1 {
					res.NextConstantToken = comps[0]
				}
			}
		}
	}
	return nil
}

// commonPrefix returns the longest prefix shared by every string in ss,
// ported from ParsingResult.common_prefix.
func commonPrefix(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	sorted := append([]string(nil), ss...)
	sort.Strings(sorted)
	first, last := sorted[0], sorted[len(sorted)-1]
	i := 0
	for i < len(first) && i < len(last) && first[i] == last[i] {
		i++
	}
	return first[:i]
}
