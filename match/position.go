package match

import (
	"fmt"

	"github.com/nessaid/gocli/grammar"
	"github.com/nessaid/gocli/token"
)

// positionKey returns a string that identifies pos's structural location in
// the grammar tree: the node it points at plus the exact chain of
// container/index/repetition steps taken to reach it. Two Positions reached
// by different OrderlessSet permutations but denoting the same remaining
// obligations compare equal under this key, which is what spec.md §4.4's
// "OrderlessSet permutation coalescing" requires — walker.Next builds a
// fresh frame chain on every call, so pointer identity alone would treat
// every permutation as a distinct candidate.
func positionKey(pos grammar.Position) string {
	key := fmt.Sprintf("%p", pos.Terminal)
	for _, l := range pos.Chain() {
		key += fmt.Sprintf("|%p:%d:%d", l.Elem, l.Index, l.RepIdx)
	}
	return key
}

// dedupePositions removes structurally-equal Positions, keeping the first
// occurrence of each.
func dedupePositions(positions []grammar.Position) []grammar.Position {
	seen := map[string]bool{}
	var out []grammar.Position
	for _, p := range positions {
		k := positionKey(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}

// appendUnique appends p to positions unless an equal Position (per
// positionKey) is already present.
func appendUnique(positions []grammar.Position, p grammar.Position) []grammar.Position {
	k := positionKey(p)
	for _, existing := range positions {
		if positionKey(existing) == k {
			return positions
		}
	}
	return append(positions, p)
}

// resolveClass returns the token.Class that matches pos.Terminal's input
// language: the declared class for a TokenRef, or an ad-hoc Keyword class
// synthesized from a Literal's fixed text (spec.md §6 requires every bare
// quoted literal to behave exactly like a single-value token class).
func resolveClass(spec *grammar.Spec, term grammar.Element) (token.Class, error) {
	switch t := term.(type) {
	case *grammar.Literal:
		return token.NewKeyword(t.Keyword, t.Helpstring()), nil
	case *grammar.TokenRef:
		cls, ok := spec.TokenClass(t.Name)
		if !ok {
			return nil, fmt.Errorf("match: token %q has no registered class", t.Name)
		}
		return cls, nil
	default:
		return nil, fmt.Errorf("match: position does not point at a terminal (%T)", term)
	}
}
