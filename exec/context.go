package exec

import (
	"fmt"

	"github.com/nessaid/gocli/action"
	"github.com/nessaid/gocli/grammar"
	"github.com/nessaid/gocli/internal/errs"
)

// ErrExec classifies an execution-time failure: an undeclared host call, a
// malformed argument mapping, or similar.
const ErrExec errs.Kind = "exec"

// ruleScope holds one active NamedRule invocation's `$name` variables —
// spec.md §4.5's "named variables scoped per enclosing rule frame."
type ruleScope struct {
	rule *grammar.NamedRule
	vars map[string]*action.Value
}

// elemScope is one open link of the chain between the root rule and the
// token currently being processed — tracked purely to know, in enter/exit
// order, which elements are live and which rule frame (if any) a link
// closes. It carries no variable storage of its own; see Context.vars for
// that.
type elemScope struct {
	link grammar.ChainLink
}

// Context drives one execute-a-matched-sequence pass. A fresh Context is
// created per Match call that succeeds; it is not reused across calls.
type Context struct {
	spec  *grammar.Spec
	host  Host
	rules []*ruleScope
	elems []*elemScope

	// vars holds every container element's `$<n>` numbered-variable map,
	// keyed by the element whose CHILDREN are being numbered — not by
	// elemScope, since a container's children are processed one at a time
	// across several distinct chain links that all share one Elem pointer
	// (spec.md §4.5 point 3's sibling numbering must accumulate across all
	// of them, not reset per link). Keying by Element pointer rather than
	// by call-stack depth means a rule invoked recursively shares one
	// numbering map across its active invocations — an accepted
	// simplification documented in DESIGN.md, since nessaid_cli's own
	// TokenHierarchyElement identity has the same aliasing limitation for
	// iterative (non-recursive) grammars, which is the common case.
	vars map[grammar.Element]map[int]*action.Value

	// curOwner is the element whose own binding code is executing right
	// now — the terminal just matched, or the container element whose
	// Pre/PostBindings are firing. A `$<n>` reference inside that code
	// means "my n'th sibling, from curOwner.Parent()'s perspective" (spec.md
	// §4.5 point 3), so lookupPositional reads vars[curOwner.Parent()].
	curOwner grammar.Element

	// lastValue is the most recently matched terminal's value. When a
	// composite (non-terminal) child — a RuleRef, a nested group — finally
	// closes, its own slot in its parent's numbered map is filled with
	// lastValue rather than an aggregate of everything it matched: spec.md
	// §4.5 point 3 only promises scalar-or-list collapsing for a single
	// element's OWN repeated matches, not for an arbitrarily deep
	// subtree, so `$<n>` against a composite sibling sees its last token
	// rather than the full structure. Documented as a simplification in
	// DESIGN.md.
	lastValue *action.Value

	// preRan/lastTokenOf dedupe a container element's own Pre/PostBindings
	// across the several per-child ChainLinks that share its Elem pointer.
	// Without this, a Sequence of two literals — one ChainLink per child,
	// both pointing at the same *Sequence — would run the Sequence's own
	// bindings once per child instead of once for the whole container.
	preRan      map[grammar.Element]bool
	lastTokenOf map[grammar.Element]int
}

// NewContext creates an execution context bound to spec and host.
func NewContext(spec *grammar.Spec, host Host) *Context {
	return &Context{spec: spec, host: host}
}

// RunSequence replays the enter/exit lifecycle for one fully-matched rule
// sequence, running every pre/post binding along the way, and returns the
// root rule's own formal parameters' final values in declaration order —
// the "output arglist" a command binding assigns results into.
//
// sequence and values must be the same length: sequence[i] is the grammar
// Position matched by the i'th input token, values[i] its canonical Value.
func (c *Context) RunSequence(rootRule *grammar.NamedRule, rootArgs []*action.Value, sequence []grammar.Position, values []*action.Value) ([]*action.Value, error) {
	c.enterRoot(rootRule, rootArgs)

	c.vars = map[grammar.Element]map[int]*action.Value{}
	c.preRan = map[grammar.Element]bool{rootRule: true}
	c.lastTokenOf = lastOccurrence(sequence)

	prevChain := []grammar.ChainLink{{Elem: rootRule, Index: 0, Rule: rootRule}}
	for i, pos := range sequence {
		chain := pos.Chain()
		commonLen := commonPrefixLen(prevChain, chain)

		if err := c.exitTo(commonLen, i); err != nil {
			return nil, err
		}
		if err := c.enterFrom(commonLen, chain); err != nil {
			return nil, err
		}

		terminal := pos.Terminal
		if terminal == nil {
			prevChain = chain
			continue
		}

		c.curOwner = terminal
		for _, b := range terminal.PreBindings() {
			if err := c.runBinding(b); err != nil {
				return nil, err
			}
		}

		c.recordValue(terminal, values[i])
		c.lastValue = values[i]

		c.curOwner = terminal
		for _, b := range terminal.PostBindings() {
			if err := c.runBinding(b); err != nil {
				return nil, err
			}
		}

		prevChain = chain
	}

	root := c.rules[0]
	if err := c.exitTo(0, len(sequence)); err != nil {
		return nil, err
	}

	out := make([]*action.Value, len(rootRule.Params))
	for i, p := range rootRule.Params {
		if v, ok := root.vars[p.Name]; ok {
			out[i] = v
		} else {
			out[i] = action.Null()
		}
	}
	c.rules = c.rules[:0]
	return out, nil
}

func (c *Context) enterRoot(rule *grammar.NamedRule, args []*action.Value) {
	scope := &ruleScope{rule: rule, vars: map[string]*action.Value{}}
	for i, p := range rule.Params {
		if i < len(args) && args[i] != nil {
			scope.vars[p.Name] = args[i]
		} else if p.HasDefault {
			scope.vars[p.Name] = p.Default
		} else {
			scope.vars[p.Name] = action.Null()
		}
	}
	c.rules = append(c.rules, scope)
	c.elems = append(c.elems, &elemScope{
		link: grammar.ChainLink{Elem: rule, Index: 0, Rule: rule},
	})
}

// recordValue stores terminal's matched value into its syntactic parent's
// numbered-variable map, at the position corresponding to terminal's own
// position among that parent's children.
func (c *Context) recordValue(terminal grammar.Element, v *action.Value) {
	parent := terminal.Parent()
	if parent == nil {
		return
	}
	pos := specialPosition(parent, childIndex(parent, terminal))
	m := c.vars[parent]
	if m == nil {
		m = map[int]*action.Value{}
		c.vars[parent] = m
	}
	m[pos] = v
}

// childIndex returns child's position among container's children, or 0 if
// container has no indexed child list (e.g. Optional, or a NamedRule body
// with no wrapping container).
func childIndex(container, child grammar.Element) int {
	switch c := container.(type) {
	case *grammar.Sequence:
		for i, ch := range c.Children {
			if ch == child {
				return i
			}
		}
	case *grammar.Alternative:
		for i, ch := range c.Children {
			if ch == child {
				return i
			}
		}
	case *grammar.OrderlessSet:
		for i, ch := range c.Children {
			if ch == child {
				return i
			}
		}
	}
	return 0
}

// commonPrefixLen returns how many leading links a and b share.
func commonPrefixLen(a, b []grammar.ChainLink) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i].Equal(b[i]) {
		i++
	}
	return i
}

// exitTo pops elemScopes down to exactly keepLen remaining — keepLen is a
// prefix length of the previous token's chain, and c.elems always tracks
// one scope per active chain link, so this undoes every link the new token
// doesn't share with the previous one. upcomingToken is the index of the
// token about to be processed (or len(sequence) during the final cleanup
// call, which drains every remaining scope including the root's own); a
// popped scope's PostBindings only run if its Elem will not reappear at or
// after upcomingToken, since several per-child ChainLinks along the way can
// share one container Elem pointer and only the LAST of them truly closes
// that container.
func (c *Context) exitTo(keepLen int, upcomingToken int) error {
	for len(c.elems) > keepLen {
		top := c.elems[len(c.elems)-1]
		c.elems = c.elems[:len(c.elems)-1]

		elem := top.link.Elem

		// A RuleRef's own bindings are written in the CALLER's source, so
		// the callee's rule scope is discarded before they run — the exit
		// mirror of enterRuleRef mapping call-site args in the caller's
		// scope before the callee's is pushed.
		if top.link.Rule != nil {
			c.rules = c.rules[:len(c.rules)-1]
		}

		if c.lastTokenOf[elem] < upcomingToken {
			c.recordValue(elem, c.lastValue)
			c.curOwner = elem
			for _, b := range elem.PostBindings() {
				if err := c.runBinding(b); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// enterFrom pushes every new link in chain[from:], running each new
// container's pre-binding exactly once (the first time its Elem pointer is
// seen across the whole run — see exitTo's doc comment for why a container
// can own several ChainLinks) and, when the link opens a RuleRef, mapping
// its call-site arguments (evaluated in the calling scope, per spec.md
// §4.5 point 4) into a fresh named-variable scope.
func (c *Context) enterFrom(from int, chain []grammar.ChainLink) error {
	for k := from; k < len(chain); k++ {
		link := chain[k]
		isRuleRef := link.Rule != nil && k > 0

		// A RuleRef's own pre-binding is written in the CALLER's source, so
		// it runs in the caller's still-active scope, before the callee's
		// fresh scope is pushed — matching MapArguments' own evaluation
		// order for call-site argument expressions.
		if isRuleRef && !c.preRan[link.Elem] {
			c.preRan[link.Elem] = true
			c.curOwner = link.Elem
			for _, b := range link.Elem.PreBindings() {
				if err := c.runBinding(b); err != nil {
					return err
				}
			}
		}

		if isRuleRef {
			c.curOwner = link.Elem
			if err := c.enterRuleRef(link); err != nil {
				return err
			}
		}

		c.elems = append(c.elems, &elemScope{link: link})

		if !isRuleRef && !c.preRan[link.Elem] {
			c.preRan[link.Elem] = true
			c.curOwner = link.Elem
			for _, b := range link.Elem.PreBindings() {
				if err := c.runBinding(b); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// lastOccurrence maps every container Elem appearing anywhere in sequence
// to the highest token index whose Chain passes through it.
func lastOccurrence(sequence []grammar.Position) map[grammar.Element]int {
	last := map[grammar.Element]int{}
	for i, pos := range sequence {
		for _, link := range pos.Chain() {
			last[link.Elem] = i
		}
	}
	return last
}

// enterRuleRef maps link's RuleRef call-site arguments onto the target
// rule's parameters, evaluating each argument expression in the CALLING
// scope (the scope active right now, before the callee's own scope is
// pushed) before pushing the callee's fresh named-variable scope.
func (c *Context) enterRuleRef(link grammar.ChainLink) error {
	ref, ok := link.Elem.(*grammar.RuleRef)
	if !ok {
		// The root link also carries a non-nil Rule but isn't a RuleRef;
		// enterRoot already handled it.
		return nil
	}
	mapped, err := grammar.MapArguments(link.Rule, ref.Args)
	if err != nil {
		return errs.Wrap(ErrExec, "mapping arguments for rule "+link.Rule.Name, err)
	}
	scope := &ruleScope{rule: link.Rule, vars: map[string]*action.Value{}}
	for _, p := range link.Rule.Params {
		raw, ok := mapped[p.Name]
		if !ok {
			scope.vars[p.Name] = action.Null()
			continue
		}
		v, err := c.evalArgValue(raw)
		if err != nil {
			return err
		}
		scope.vars[p.Name] = v
	}
	c.rules = append(c.rules, scope)
	return nil
}

// evalArgValue resolves one MapArguments result cell: either an already-
// literal default (*action.Value) or a call-site expression (action.Expr)
// evaluated against the currently active (caller's) scope.
func (c *Context) evalArgValue(raw any) (*action.Value, error) {
	switch v := raw.(type) {
	case *action.Value:
		return v, nil
	case action.Expr:
		return c.evalExpr(v)
	default:
		return nil, errs.Newf(ErrExec, "unexpected argument value of type %T", raw)
	}
}

func (c *Context) topRule() *ruleScope {
	if len(c.rules) == 0 {
		return nil
	}
	return c.rules[len(c.rules)-1]
}

// specialPosition computes a child's 1-based $<n> slot within container,
// ported from ExecContext.exit's position override: every child of an
// Alternative, or of a Sequence with RepeatCount > 1, is numbered 1
// regardless of its structural index, since only one such child is ever
// live in a given sequence's actual walk.
func specialPosition(container grammar.Element, index int) int {
	switch c := container.(type) {
	case *grammar.Alternative:
		return 1
	case *grammar.Sequence:
		if c.RepeatCount > 1 {
			return 1
		}
		return index + 1
	default:
		return index + 1
	}
}

// runBinding executes one parsed action.Code block against the current
// top-of-stack rule scope and c.curOwner's positional scope.
func (c *Context) runBinding(code *action.Code) error {
	if code == nil {
		return nil
	}
	for _, stmt := range code.Statements {
		switch s := stmt.(type) {
		case *action.Assignment:
			rhs, err := c.evalExpr(s.RHS)
			if err != nil {
				return err
			}
			lhs := c.lookupOrCreateNamed(s.LHS.Name)
			lhs.Assign(rhs)
		case *action.ExprStatement:
			if _, err := c.evalExpr(s.Expr); err != nil {
				return err
			}
		default:
			return errs.Newf(ErrExec, "unknown statement type %T", stmt)
		}
	}
	return nil
}

func (c *Context) evalExpr(e action.Expr) (*action.Value, error) {
	switch x := e.(type) {
	case *action.NamedVariable:
		if v := c.lookupNamed(x.Name); v != nil {
			return v, nil
		}
		return action.Null(), nil
	case *action.PositionalVariable:
		if v := c.lookupPositional(x.Index); v != nil {
			return v, nil
		}
		return action.Null(), nil
	case *action.IntLiteral:
		return action.NewInt(x.Value), nil
	case *action.FloatLiteral:
		return action.NewFloat(x.Value), nil
	case *action.StringLiteral:
		return action.NewString(x.Value), nil
	case *action.Call:
		args := make([]*action.Value, len(x.Args))
		for i, a := range x.Args {
			v, err := c.evalExpr(a)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		if !x.IsHostly {
			if fn, ok := action.Builtins[x.Name]; ok {
				return fn(c.host, args)
			}
		}
		if c.host == nil {
			return nil, errs.Newf(ErrExec, "call to %q requires a host, none configured", x.Name)
		}
		return c.host.Call(x.Name, args)
	default:
		return nil, fmt.Errorf("exec: unknown expression node %T", e)
	}
}

// lookupNamed resolves a `$name` reference against the innermost active
// rule scope, per spec.md §4.5's "named variables scoped per NamedRule
// frame." Returns nil, not an error, if undeclared — a binding that reads
// before it assigns sees Null, matching ExecContext.resolve_variable.
func (c *Context) lookupNamed(name string) *action.Value {
	r := c.topRule()
	if r == nil {
		return nil
	}
	return r.vars[name]
}

// lookupOrCreateNamed resolves (creating if absent) a `$name` cell in the
// innermost active rule scope, so the first `$x = ...;` in a rule body
// declares x.
func (c *Context) lookupOrCreateNamed(name string) *action.Value {
	r := c.topRule()
	if r == nil {
		return action.Null()
	}
	if v, ok := r.vars[name]; ok {
		return v
	}
	v := action.Null()
	r.vars[name] = v
	return v
}

// lookupPositional resolves a `$<n>` reference against c.curOwner's
// syntactic parent — ported from ExecContext.resolve_variable's
// DollarNumber case, which always numbers siblings as seen by the
// enclosing container, never an element's own children.
func (c *Context) lookupPositional(n int) *action.Value {
	if c.curOwner == nil {
		return nil
	}
	parent := c.curOwner.Parent()
	if parent == nil {
		return nil
	}
	m := c.vars[parent]
	if m == nil {
		return nil
	}
	return m[n]
}
