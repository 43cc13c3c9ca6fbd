// Package grammar implements the element tree described in spec.md §3: the
// compiled shape of a user-authored grammar, plus the breadcrumb-trail
// walker (walk.go) the matcher drives at runtime.
//
// Ported from nessaid_cli/elements.py. Where the original links tree nodes
// by raw object pointer (trivial for Python's reference semantics and GC),
// this port follows spec.md §9's Design Notes: a NamedRule is referenced by
// its stable name through a GrammarSpecification rather than by pointer, so
// mutually recursive rules don't require a manual cycle-breaking pass.
package grammar

import "github.com/nessaid/gocli/action"

// Element is one node of the compiled grammar tree (spec.md §3's Element
// sum type). Every element but a NamedRule has exactly one parent.
type Element interface {
	Parent() Element
	setParent(Element)

	// PreBindings are action snippets run before the element's input is
	// consumed; PostBindings after.
	PreBindings() []*action.Code
	PostBindings() []*action.Code
	AddPreBinding(*action.Code)
	AddPostBinding(*action.Code)

	// Helpstring is optional literal help text attached in grammar source.
	Helpstring() string
	SetHelpstring(string)
}

// base carries the fields every Element has, per spec.md §3 ("Each element
// additionally carries...").
type base struct {
	parent       Element
	preBindings  []*action.Code
	postBindings []*action.Code
	helpstring   string
}

func (b *base) Parent() Element             { return b.parent }
func (b *base) setParent(p Element)         { b.parent = p }
func (b *base) PreBindings() []*action.Code { return b.preBindings }
func (b *base) PostBindings() []*action.Code {
	return b.postBindings
}
func (b *base) AddPreBinding(c *action.Code)  { b.preBindings = append(b.preBindings, c) }
func (b *base) AddPostBinding(c *action.Code) { b.postBindings = append(b.postBindings, c) }
func (b *base) Helpstring() string            { return b.helpstring }
func (b *base) SetHelpstring(h string)         { b.helpstring = h }

// Literal matches exactly one fixed string. Mandatory.
type Literal struct {
	base
	Keyword string
}

// NewLiteral constructs a Literal element. Its parent is set by the
// container it is passed to.
func NewLiteral(keyword string) *Literal {
	return &Literal{Keyword: keyword}
}

// TokenRef matches via a declared token-class instance (spec.md §6).
type TokenRef struct {
	base
	Name string
}

func NewTokenRef(name string) *TokenRef {
	return &TokenRef{Name: name}
}

// Sequence matches its children in order. If RepeatCount > 1, it must have
// exactly one child, matched RepeatCount times in place (spec.md §3, §4.4
// point 2's repetition walk rule).
type Sequence struct {
	base
	Children    []Element
	RepeatCount int
}

func NewSequence(children ...Element) *Sequence {
	s := &Sequence{Children: children, RepeatCount: 1}
	for _, c := range children {
		c.setParent(s)
	}
	return s
}

// Alternative matches exactly one child. Mandatory iff every child is.
type Alternative struct {
	base
	Children []Element
}

func NewAlternative(children ...Element) *Alternative {
	a := &Alternative{Children: children}
	for _, c := range children {
		c.setParent(a)
	}
	return a
}

// Optional acts like a Sequence whose entire matching is optional.
type Optional struct {
	base
	Child Element
}

func NewOptional(child Element) *Optional {
	o := &Optional{Child: child}
	child.setParent(o)
	return o
}

// OrderlessSet matches each child at most once, in any order; each child
// keeps its own mandatory/optional status.
type OrderlessSet struct {
	base
	Children []Element
}

func NewOrderlessSet(children ...Element) *OrderlessSet {
	s := &OrderlessSet{Children: children}
	for _, c := range children {
		c.setParent(s)
	}
	return s
}

// Param is one formal parameter of a NamedRule: `$name` or `$name = value`.
type Param struct {
	Name       string
	HasDefault bool
	Default    *action.Value
}

// NamedRule is a named production. It has no parent (spec.md §3's
// invariant). Referenced elsewhere by name (via RuleRef), never by pointer,
// per spec.md §9.
type NamedRule struct {
	base
	Name   string
	Params []Param
	Body   Element
}

func NewNamedRule(name string, params []Param, body Element) *NamedRule {
	r := &NamedRule{Name: name, Params: params, Body: body}
	if body != nil {
		body.setParent(r)
	}
	return r
}

// Arg is one actual argument at a rule-reference call site: a bare
// expression (positional) or `$paramname = expr` (keyword).
type Arg struct {
	ParamName string // empty for a positional argument
	Value     action.Expr
}

// RuleRef references a NamedRule by name, with actual arguments mapped
// onto its parameters at execution time (spec.md §4.5).
type RuleRef struct {
	base
	Name string
	Args []Arg
}

func NewRuleRef(name string, args []Arg) *RuleRef {
	return &RuleRef{Name: name, Args: args}
}

// Unresolved is a placeholder for a forward-referenced rule name,
// replaced with a RuleRef once the whole grammar source has been scanned.
// No Unresolved node survives a successful compile.
type Unresolved struct {
	base
	Name string
	Args []Arg
}

func NewUnresolved(name string, args []Arg) *Unresolved {
	return &Unresolved{Name: name, Args: args}
}

// resolveInPlace copies an Unresolved node's bindings, helpstring and
// parent onto its resolved RuleRef; the caller puts the RuleRef in the
// Unresolved node's slot.
func resolveInPlace(u *Unresolved, resolved *RuleRef) {
	resolved.preBindings = u.preBindings
	resolved.postBindings = u.postBindings
	resolved.helpstring = u.helpstring
	resolved.parent = u.parent
}
