package grammar

import (
	"github.com/nessaid/gocli/internal/errs"
	"github.com/nessaid/gocli/token"
)

// Spec is a compiled grammar: every NamedRule keyed by name, every
// token-class declaration, and (until Resolve succeeds) a list of
// Unresolved references still outstanding.
//
// Ported from nessaid_cli.elements.GrammarSpecification; rules and tokens
// share one namespace exactly as the original's
// DuplicateDefinitionException/DuplicateTokendefException pairing implies.
type Spec struct {
	rules     map[string]*NamedRule
	tokenDefs map[string]*TokenDef
	classes   map[string]token.Class
	order     []string // declaration order, for deterministic iteration
}

// New creates an empty Spec.
func New() *Spec {
	return &Spec{
		rules:     map[string]*NamedRule{},
		tokenDefs: map[string]*TokenDef{},
		classes:   map[string]token.Class{},
	}
}

func (s *Spec) namespaceTaken(name string) bool {
	_, r := s.rules[name]
	_, t := s.tokenDefs[name]
	return r || t
}

// AddRule registers a NamedRule. Returns ErrDuplicateDefinition if the name
// is already used by a rule or a token.
func (s *Spec) AddRule(r *NamedRule) error {
	if s.namespaceTaken(r.Name) {
		return errs.Newf(ErrDuplicateDefinition, "name already defined: %q", r.Name)
	}
	s.rules[r.Name] = r
	s.order = append(s.order, r.Name)
	return nil
}

// AddTokenDef registers a TokenDef and builds its token.Class. Returns
// ErrDuplicateToken if the name is already used.
func (s *Spec) AddTokenDef(d *TokenDef) error {
	if s.namespaceTaken(d.Name) {
		return errs.Newf(ErrDuplicateToken, "name already defined: %q", d.Name)
	}
	cls, err := d.Build()
	if err != nil {
		return err
	}
	s.tokenDefs[d.Name] = d
	s.classes[d.Name] = cls
	s.order = append(s.order, d.Name)
	return nil
}

// Rule looks up a NamedRule by name.
func (s *Spec) Rule(name string) (*NamedRule, bool) {
	r, ok := s.rules[name]
	return r, ok
}

// TokenClass looks up a built token.Class by declared name. It reports
// false if name was never declared with `token`; a quoted literal never
// needs a TokenClass at all.
func (s *Spec) TokenClass(name string) (token.Class, bool) {
	c, ok := s.classes[name]
	return c, ok
}

// RuleNames returns every declared rule name, in declaration order.
func (s *Spec) RuleNames() []string {
	var names []string
	for _, n := range s.order {
		if _, ok := s.rules[n]; ok {
			names = append(names, n)
		}
	}
	return names
}

// Resolve walks every rule body, replacing each Unresolved node with a
// RuleRef to the matching NamedRule. Any name that resolves to neither a
// rule nor a token declaration is ErrUnknownRule.
func (s *Spec) Resolve() error {
	for _, name := range s.RuleNames() {
		r := s.rules[name]
		resolved, err := s.resolveElement(r.Body)
		if err != nil {
			return err
		}
		r.Body = resolved
		if r.Body != nil {
			r.Body.setParent(r)
		}
	}
	return nil
}

func (s *Spec) resolveElement(e Element) (Element, error) {
	switch n := e.(type) {
	case *Unresolved:
		if _, ok := s.rules[n.Name]; ok {
			ref := NewRuleRef(n.Name, n.Args)
			resolveInPlace(n, ref)
			return ref, nil
		}
		if _, ok := s.classes[n.Name]; ok {
			if len(n.Args) > 0 {
				return nil, errs.Newf(ErrBadArgument, "token reference %q does not accept arguments", n.Name)
			}
			tr := NewTokenRef(n.Name)
			tr.preBindings = n.preBindings
			tr.postBindings = n.postBindings
			tr.helpstring = n.helpstring
			tr.parent = n.parent
			return tr, nil
		}
		return nil, errs.Newf(ErrUnknownRule, "reference to undefined rule or token: %q", n.Name)
	case *Sequence:
		for i, c := range n.Children {
			resolved, err := s.resolveElement(c)
			if err != nil {
				return nil, err
			}
			resolved.setParent(n)
			n.Children[i] = resolved
		}
		return n, nil
	case *Alternative:
		for i, c := range n.Children {
			resolved, err := s.resolveElement(c)
			if err != nil {
				return nil, err
			}
			resolved.setParent(n)
			n.Children[i] = resolved
		}
		return n, nil
	case *OrderlessSet:
		for i, c := range n.Children {
			resolved, err := s.resolveElement(c)
			if err != nil {
				return nil, err
			}
			resolved.setParent(n)
			n.Children[i] = resolved
		}
		return n, nil
	case *Optional:
		resolved, err := s.resolveElement(n.Child)
		if err != nil {
			return nil, err
		}
		resolved.setParent(n)
		n.Child = resolved
		return n, nil
	default:
		return e, nil
	}
}

// Validate checks the invariants spec.md §3 lists that Resolve doesn't
// already enforce: unique parameter names per rule, and rule-reference
// argument counts/keyword names against the target's parameters.
func (s *Spec) Validate() error {
	for _, name := range s.RuleNames() {
		r := s.rules[name]
		seen := map[string]bool{}
		for _, p := range r.Params {
			if seen[p.Name] {
				return errs.Newf(ErrBadArgument, "rule %q: duplicate parameter $%s", name, p.Name)
			}
			seen[p.Name] = true
		}
		if err := s.validateRefs(r.Body); err != nil {
			return err
		}
	}
	return nil
}

func (s *Spec) validateRefs(e Element) error {
	switch n := e.(type) {
	case *RuleRef:
		target, ok := s.rules[n.Name]
		if !ok {
			return errs.Newf(ErrUnknownRule, "reference to undefined rule: %q", n.Name)
		}
		if err := validateArgs(n.Name, target.Params, n.Args); err != nil {
			return err
		}
	case *Sequence:
		for _, c := range n.Children {
			if err := s.validateRefs(c); err != nil {
				return err
			}
		}
	case *Alternative:
		for _, c := range n.Children {
			if err := s.validateRefs(c); err != nil {
				return err
			}
		}
	case *OrderlessSet:
		for _, c := range n.Children {
			if err := s.validateRefs(c); err != nil {
				return err
			}
		}
	case *Optional:
		return s.validateRefs(n.Child)
	}
	return nil
}

// validateArgs implements spec.md §3's "Rule references do not supply more
// arguments than the target rule has parameters; unknown keyword arguments
// are rejected", ported from elements.map_grammar_arguments's ArgumentError
// cases.
func validateArgs(ruleName string, params []Param, args []Arg) error {
	if len(args) > len(params) {
		return errs.Newf(ErrBadArgument, "rule %q: too many arguments (%d > %d parameters)", ruleName, len(args), len(params))
	}
	paramNames := map[string]bool{}
	for _, p := range params {
		paramNames[p.Name] = true
	}
	seenKeyword := map[string]bool{}
	sawKeyword := false
	for _, a := range args {
		if a.ParamName == "" {
			if sawKeyword {
				return errs.Newf(ErrBadArgument, "rule %q: positional argument after keyword argument", ruleName)
			}
			continue
		}
		sawKeyword = true
		if !paramNames[a.ParamName] {
			return errs.Newf(ErrBadArgument, "rule %q: unknown keyword argument $%s", ruleName, a.ParamName)
		}
		if seenKeyword[a.ParamName] {
			return errs.Newf(ErrBadArgument, "rule %q: duplicate keyword argument $%s", ruleName, a.ParamName)
		}
		seenKeyword[a.ParamName] = true
	}
	return nil
}

// MapArguments maps a RuleRef's actual arguments onto target's formal
// parameters, positional arguments first in declaration order then keyword
// arguments by name, filling any remaining parameters from their declared
// defaults. Ported from elements.map_grammar_arguments.
func MapArguments(target *NamedRule, args []Arg) (map[string]any, error) {
	if err := validateArgs(target.Name, target.Params, args); err != nil {
		return nil, err
	}
	result := make(map[string]any, len(target.Params))
	assigned := map[string]bool{}

	positional := 0
	for _, a := range args {
		if a.ParamName != "" {
			continue
		}
		if positional >= len(target.Params) {
			return nil, errs.Newf(ErrBadArgument, "rule %q: too many positional arguments", target.Name)
		}
		result[target.Params[positional].Name] = a.Value
		assigned[target.Params[positional].Name] = true
		positional++
	}
	for _, a := range args {
		if a.ParamName == "" {
			continue
		}
		result[a.ParamName] = a.Value
		assigned[a.ParamName] = true
	}
	for _, p := range target.Params {
		if assigned[p.Name] {
			continue
		}
		if !p.HasDefault {
			return nil, errs.Newf(ErrBadArgument, "rule %q: missing required argument $%s", target.Name, p.Name)
		}
		result[p.Name] = p.Default
	}
	return result, nil
}
