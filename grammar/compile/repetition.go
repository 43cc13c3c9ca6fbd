package compile

import (
	"github.com/nessaid/gocli/grammar"
	"github.com/nessaid/gocli/internal/errs"
)

// applyRepetition implements spec.md §4.3's repetition rewrite, ported
// from compiler.py's p_term_multiplier.
func applyRepetition(elem grammar.Element, minCount, maxCount int) (grammar.Element, error) {
	if minCount < 0 || maxCount < 0 {
		return nil, errs.Newf(grammar.ErrBadRepeater, "repeat counts must not be negative (got %d:%d)", minCount, maxCount)
	}

	if minCount == maxCount {
		if minCount == 0 {
			return nil, errs.New(grammar.ErrBadRepeater, "0 repeaters not allowed; delete the element instead")
		}
		if minCount == 1 {
			return elem, nil
		}
		seq := grammar.NewSequence(elem)
		seq.RepeatCount = minCount
		return seq, nil
	}

	if minCount == 0 {
		if maxCount == 1 {
			return grammar.NewOptional(elem), nil
		}
		inner := grammar.NewSequence(elem)
		inner.RepeatCount = maxCount
		return grammar.NewOptional(inner), nil
	}

	// min >= 1, max > min: mandatory block of `min` repetitions followed
	// by an optional block covering the remaining (max - min).
	clone := cloneElement(elem)

	var block1 grammar.Element
	if minCount == 1 {
		block1 = elem
	} else {
		s := grammar.NewSequence(elem)
		s.RepeatCount = minCount
		block1 = s
	}

	optBlock := grammar.NewOptional(clone)
	block2 := grammar.NewSequence(optBlock)
	block2.RepeatCount = maxCount - minCount

	return grammar.NewSequence(block1, block2), nil
}

// cloneElement deep-copies an element tree (spec.md §4.3's repetition
// rewrite needs a second, independently-parented copy of the repeated
// element for its optional tail block). Bindings and argument
// expressions are immutable ASTs, so they're shared by reference rather
// than copied.
func cloneElement(e grammar.Element) grammar.Element {
	var out grammar.Element
	switch x := e.(type) {
	case *grammar.Literal:
		out = grammar.NewLiteral(x.Keyword)
	case *grammar.TokenRef:
		out = grammar.NewTokenRef(x.Name)
	case *grammar.Sequence:
		children := make([]grammar.Element, len(x.Children))
		for i, c := range x.Children {
			children[i] = cloneElement(c)
		}
		s := grammar.NewSequence(children...)
		s.RepeatCount = x.RepeatCount
		out = s
	case *grammar.Alternative:
		children := make([]grammar.Element, len(x.Children))
		for i, c := range x.Children {
			children[i] = cloneElement(c)
		}
		out = grammar.NewAlternative(children...)
	case *grammar.OrderlessSet:
		children := make([]grammar.Element, len(x.Children))
		for i, c := range x.Children {
			children[i] = cloneElement(c)
		}
		out = grammar.NewOrderlessSet(children...)
	case *grammar.Optional:
		out = grammar.NewOptional(cloneElement(x.Child))
	case *grammar.RuleRef:
		out = grammar.NewRuleRef(x.Name, x.Args)
	case *grammar.Unresolved:
		out = grammar.NewUnresolved(x.Name, x.Args)
	default:
		out = e
	}

	out.SetHelpstring(e.Helpstring())
	for _, c := range e.PreBindings() {
		out.AddPreBinding(c)
	}
	for _, c := range e.PostBindings() {
		out.AddPostBinding(c)
	}
	return out
}
