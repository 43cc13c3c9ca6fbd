package grammar

// frame is one link of the breadcrumb trail from a candidate terminal back
// up to its owning rule root — the Go stand-in for a walk-tree node's
// identity. Rather than materializing a full lazily-expanded mirror tree
// (as nessaid_cli's GrammarWalkTree does), positions here carry just
// enough context to compute next() by walking frame.parent outward, per
// spec.md §9's "rewrite tree-walk traversals to avoid pathological stack
// depth" — there is no recursive tree to walk, only this linked list.
type frame struct {
	elem    Element
	index   int // child index within elem (Sequence/Alternative/OrderlessSet)
	repIdx  int // repetition iteration, for a Sequence with RepeatCount > 1
	usedSet map[int]bool
	parent  *frame
	rule    *NamedRule // set at a NamedRule/RuleRef frame, nil elsewhere
}

// Position is a LookupToken (spec.md §3): a pointer to one candidate
// terminal plus the ancestry context needed to compute what may follow it.
// A zero-value Terminal means the structural EndOfInput token — spec.md
// §9 asks for this to be a unit variant rather than a mutable singleton,
// which a nil interface value gives for free.
type Position struct {
	Terminal Element // *Literal or *TokenRef; nil for EndOfInput
	frame    *frame
}

// IsEndOfInput reports whether p is the structural "may terminate here"
// marker rather than a real terminal.
func (p Position) IsEndOfInput() bool { return p.Terminal == nil }

// RuleStack returns the chain of NamedRule frames enclosing p, outermost
// first. The execution engine does not call it; it tracks rule scopes
// through the Rule field of Chain's links.
func (p Position) RuleStack() []*NamedRule {
	var rules []*NamedRule
	for f := p.frame; f != nil; f = f.parent {
		if f.rule != nil {
			rules = append(rules, f.rule)
		}
	}
	for i, j := 0, len(rules)-1; i < j; i, j = i+1, j-1 {
		rules[i], rules[j] = rules[j], rules[i]
	}
	return rules
}

// Chain returns the (container element, child index, repetition index)
// triplets from the rule root down to p's terminal, outermost first. The
// execution engine diffs consecutive tokens' chains to decide which
// elements to enter or exit (spec.md §4.5 point 1-2).
func (p Position) Chain() []ChainLink {
	var links []ChainLink
	for f := p.frame; f != nil; f = f.parent {
		links = append(links, ChainLink{Elem: f.elem, Index: f.index, RepIdx: f.repIdx, Rule: f.rule})
	}
	for i, j := 0, len(links)-1; i < j; i, j = i+1, j-1 {
		links[i], links[j] = links[j], links[i]
	}
	return links
}

// ChainLink identifies one step of a Position's ancestry: which child of
// which container, and which repetition iteration if the container is a
// repeated Sequence. Rule is non-nil the link also opens a new NamedRule
// scope — the root link always does (spec.md §4.5's grammar-stack push),
// and so does any link for a RuleRef to another rule.
type ChainLink struct {
	Elem   Element
	Index  int
	RepIdx int
	Rule   *NamedRule
}

// Equal reports whether two links refer to the same container position,
// used to find the common prefix between two tokens' chains.
func (l ChainLink) Equal(other ChainLink) bool {
	return l.Elem == other.Elem && l.Index == other.Index && l.RepIdx == other.RepIdx
}

// walker computes first-sets and next-sets against one Spec, resolving
// RuleRef elements by name as it descends.
type walker struct {
	spec *Spec
}

func newWalker(spec *Spec) *walker {
	return &walker{spec: spec}
}

// firstOfRule computes the first-set of a grammar's root rule.
func (w *walker) firstOfRule(rule *NamedRule) []Position {
	f := &frame{elem: rule, rule: rule}
	return w.first(rule.Body, f)
}

// isOptional reports whether elem can be matched by consuming zero input
// tokens.
func (w *walker) isOptional(elem Element) bool {
	switch e := elem.(type) {
	case *Optional:
		return true
	case *Alternative:
		for _, c := range e.Children {
			if w.isOptional(c) {
				return true
			}
		}
		return false
	case *OrderlessSet:
		for _, c := range e.Children {
			if !w.isOptional(c) {
				return false
			}
		}
		return true
	case *Sequence:
		if e.RepeatCount > 1 {
			return w.isOptional(e.Children[0])
		}
		for _, c := range e.Children {
			if !w.isOptional(c) {
				return false
			}
		}
		return true
	case *RuleRef:
		target, ok := w.spec.Rule(e.Name)
		if !ok {
			return false
		}
		return w.isOptional(target.Body)
	default:
		return false
	}
}

// first computes the first-set of elem, given the frame that will enclose
// it (used to compute next() once a terminal in this set is consumed).
func (w *walker) first(elem Element, parent *frame) []Position {
	switch e := elem.(type) {
	case *Literal, *TokenRef:
		return []Position{{Terminal: e, frame: parent}}
	case *Optional:
		f := &frame{elem: e, parent: parent}
		return w.first(e.Child, f)
	case *Alternative:
		var out []Position
		for i, c := range e.Children {
			f := &frame{elem: e, index: i, parent: parent}
			out = append(out, w.first(c, f)...)
		}
		return out
	case *OrderlessSet:
		used := map[int]bool{}
		var out []Position
		for i, c := range e.Children {
			f := &frame{elem: e, index: i, usedSet: used, parent: parent}
			out = append(out, w.first(c, f)...)
		}
		return out
	case *Sequence:
		if e.RepeatCount > 1 {
			f := &frame{elem: e, index: 0, repIdx: 0, parent: parent}
			return w.first(e.Children[0], f)
		}
		var out []Position
		for i, c := range e.Children {
			f := &frame{elem: e, index: i, parent: parent}
			out = append(out, w.first(c, f)...)
			if !w.isOptional(c) {
				break
			}
		}
		return out
	case *RuleRef:
		target, ok := w.spec.Rule(e.Name)
		if !ok {
			return nil
		}
		f := &frame{elem: e, parent: parent, rule: target}
		return w.first(target.Body, f)
	default:
		return nil
	}
}

// next computes the next-set following a just-consumed position: every
// terminal (or the structural EndOfInput) that may legally follow,
// escaping outward through enclosing containers per spec.md §4.4 point 2.
func (w *walker) next(pos Position) []Position {
	return w.afterChild(pos.frame)
}

func (w *walker) escalate(parent *frame) []Position {
	if parent == nil {
		return []Position{{Terminal: nil}}
	}
	return w.afterChild(parent)
}

func (w *walker) afterChild(f *frame) []Position {
	if f == nil {
		return []Position{{Terminal: nil}}
	}
	switch e := f.elem.(type) {
	case *Sequence:
		if e.RepeatCount > 1 {
			if f.repIdx+1 < e.RepeatCount {
				nf := &frame{elem: e, index: 0, repIdx: f.repIdx + 1, parent: f.parent}
				out := w.first(e.Children[0], nf)
				if w.isOptional(e.Children[0]) {
					out = append(out, w.escalate(f.parent)...)
				}
				return out
			}
			return w.escalate(f.parent)
		}
		nextIdx := f.index + 1
		var out []Position
		for nextIdx < len(e.Children) {
			c := e.Children[nextIdx]
			nf := &frame{elem: e, index: nextIdx, parent: f.parent}
			out = append(out, w.first(c, nf)...)
			if !w.isOptional(c) {
				return out
			}
			nextIdx++
		}
		out = append(out, w.escalate(f.parent)...)
		return out
	case *Alternative:
		return w.escalate(f.parent)
	case *Optional:
		return w.escalate(f.parent)
	case *OrderlessSet:
		// usedSet is cloned rather than mutated in place: many candidate
		// Positions may share the frame this one descended from (the
		// matcher keeps several live at once), and each must track its
		// own remaining obligations independently.
		used := make(map[int]bool, len(f.usedSet)+1)
		for k, v := range f.usedSet {
			used[k] = v
		}
		used[f.index] = true
		var out []Position
		allMandatoryUsed := true
		for i, c := range e.Children {
			if used[i] {
				continue
			}
			nf := &frame{elem: e, index: i, usedSet: used, parent: f.parent}
			out = append(out, w.first(c, nf)...)
			if !w.isOptional(c) {
				allMandatoryUsed = false
			}
		}
		if allMandatoryUsed {
			out = append(out, w.escalate(f.parent)...)
		}
		return out
	case *RuleRef, *NamedRule:
		return w.escalate(f.parent)
	default:
		return w.escalate(f.parent)
	}
}
