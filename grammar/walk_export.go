package grammar

// Walker is the exported face of walker, handed to the matcher so it can
// drive the online algorithm (spec.md §4.4) without reaching into this
// package's unexported frame bookkeeping.
type Walker struct {
	w *walker
}

// NewWalker builds a Walker bound to spec, resolving RuleRef elements
// against it as it descends.
func NewWalker(spec *Spec) *Walker {
	return &Walker{w: newWalker(spec)}
}

// First returns the first-set of rule's body: every Position that may
// legally start matching it, including the structural EndOfInput Position
// if the whole rule can match zero input tokens.
func (wk *Walker) First(rule *NamedRule) []Position {
	positions := wk.w.firstOfRule(rule)
	if wk.w.isOptional(rule.Body) {
		positions = append(positions, Position{Terminal: nil})
	}
	return positions
}

// Next returns the next-set following a just-consumed pos: every Position
// (terminal or structural EndOfInput) that may legally follow it.
func (wk *Walker) Next(pos Position) []Position {
	return wk.w.next(pos)
}
