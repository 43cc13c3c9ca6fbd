package grammar

import (
	"fmt"

	"github.com/dekarrin/rezi"
	"github.com/nessaid/gocli/action"
	"github.com/nessaid/gocli/internal/errs"
)

// The element tree is full of interfaces and parent back-pointers, which a
// reflection-based encoder like rezi cannot walk directly (spec.md §7's
// "compile(source).serialize().parse().compile() round-trips to an
// equivalent tree" testable property still needs a concrete byte format
// though). wireSpec and friends are a flat, cycle-free, interface-free
// mirror of a Spec that rezi's struct-field reflection handles natively;
// Spec.MarshalBinary/UnmarshalBinary convert to and from it.

type wireArg struct {
	ParamName string
	Kind      string // "int", "float", "string", "posvar", "namedvar", "call"
	I         int64
	F         float64
	S         string
	Idx       int
	CallName  string
	CallArgs  []wireArg
	IsHostly  bool
}

type wireValue struct {
	Kind int
	I    int64
	F    float64
	S    string
	B    bool
	List []wireValue
}

type wireParam struct {
	Name       string
	HasDefault bool
	Default    wireValue
}

type wireCode struct {
	Statements []wireStatement
}

type wireStatement struct {
	IsAssignment bool
	LHSName      string // for assignment
	Expr         wireArg
}

type wireElement struct {
	Kind         string // literal, tokenref, sequence, alternative, optional, orderlessset, ruleref
	Keyword      string
	TokenName    string
	Children     []wireElement
	RepeatCount  int
	Child        *wireElement
	RuleName     string
	Args         []wireArg
	Helpstring   string
	PreBindings  []wireCode
	PostBindings []wireCode
}

type wireTokenDef struct {
	Name       string
	ClassName  string
	Helpstring string
	Args       []wireArg
}

type wireRule struct {
	Name   string
	Params []wireParam
	Body   wireElement
}

type wireSpec struct {
	TokenDefs []wireTokenDef
	Rules     []wireRule
	Order     []string
}

// MarshalBinary implements the rezi.Binary-compatible interface, encoding
// s into the flat wireSpec mirror before delegating to rezi.EncBinary.
func (s *Spec) MarshalBinary() ([]byte, error) {
	w := wireSpec{Order: s.order}
	for _, name := range s.order {
		if d, ok := s.tokenDefs[name]; ok {
			w.TokenDefs = append(w.TokenDefs, toWireTokenDef(d))
		}
	}
	for _, name := range s.RuleNames() {
		r := s.rules[name]
		wr := wireRule{Name: r.Name, Params: toWireParams(r.Params)}
		body, err := toWireElement(r.Body)
		if err != nil {
			return nil, err
		}
		wr.Body = body
		w.Rules = append(w.Rules, wr)
	}
	return rezi.EncBinary(w), nil
}

// UnmarshalBinary reverses MarshalBinary, rebuilding rules and token defs
// (re-running TokenDef.Build so token.Class instances are freshly
// constructed rather than serialized themselves).
func (s *Spec) UnmarshalBinary(data []byte) error {
	var w wireSpec
	if _, err := rezi.DecBinary(data, &w); err != nil {
		return errs.Wrap(ErrSyntax, "decoding grammar spec", err)
	}
	*s = *New()
	for _, wt := range w.TokenDefs {
		d := fromWireTokenDef(wt)
		if err := s.AddTokenDef(d); err != nil {
			return err
		}
	}
	for _, wr := range w.Rules {
		body, err := fromWireElement(wr.Body)
		if err != nil {
			return err
		}
		rule := NewNamedRule(wr.Name, fromWireParams(wr.Params), body)
		if err := s.AddRule(rule); err != nil {
			return err
		}
	}
	s.order = w.Order
	if err := s.Resolve(); err != nil {
		return err
	}
	return s.Validate()
}

func toWireValue(v *action.Value) wireValue {
	if v == nil {
		return wireValue{Kind: int(action.KindNull)}
	}
	w := wireValue{Kind: int(v.Kind), I: v.I, F: v.F, S: v.S, B: v.B}
	for _, e := range v.List {
		w.List = append(w.List, toWireValue(e))
	}
	return w
}

func fromWireValue(w wireValue) *action.Value {
	v := &action.Value{Kind: action.Kind(w.Kind), I: w.I, F: w.F, S: w.S, B: w.B}
	for _, e := range w.List {
		v.List = append(v.List, fromWireValue(e))
	}
	return v
}

func toWireParams(params []Param) []wireParam {
	out := make([]wireParam, 0, len(params))
	for _, p := range params {
		wp := wireParam{Name: p.Name, HasDefault: p.HasDefault}
		if p.HasDefault {
			wp.Default = toWireValue(p.Default)
		}
		out = append(out, wp)
	}
	return out
}

func fromWireParams(params []wireParam) []Param {
	out := make([]Param, 0, len(params))
	for _, wp := range params {
		p := Param{Name: wp.Name, HasDefault: wp.HasDefault}
		if wp.HasDefault {
			p.Default = fromWireValue(wp.Default)
		}
		out = append(out, p)
	}
	return out
}

func toWireExpr(e action.Expr) (wireArg, error) {
	switch x := e.(type) {
	case *action.IntLiteral:
		return wireArg{Kind: "int", I: x.Value}, nil
	case *action.FloatLiteral:
		return wireArg{Kind: "float", F: x.Value}, nil
	case *action.StringLiteral:
		return wireArg{Kind: "string", S: x.Value}, nil
	case *action.NamedVariable:
		return wireArg{Kind: "namedvar", S: x.Name}, nil
	case *action.PositionalVariable:
		return wireArg{Kind: "posvar", Idx: x.Index}, nil
	case *action.Call:
		wa := wireArg{Kind: "call", CallName: x.Name, IsHostly: x.IsHostly}
		for _, a := range x.Args {
			wca, err := toWireExpr(a)
			if err != nil {
				return wireArg{}, err
			}
			wa.CallArgs = append(wa.CallArgs, wca)
		}
		return wa, nil
	default:
		return wireArg{}, fmt.Errorf("serialize: unsupported expr type %T", e)
	}
}

func fromWireExpr(w wireArg) (action.Expr, error) {
	switch w.Kind {
	case "int":
		return &action.IntLiteral{Value: w.I}, nil
	case "float":
		return &action.FloatLiteral{Value: w.F}, nil
	case "string":
		return &action.StringLiteral{Value: w.S}, nil
	case "namedvar":
		return &action.NamedVariable{Name: w.S}, nil
	case "posvar":
		return &action.PositionalVariable{Index: w.Idx}, nil
	case "call":
		c := &action.Call{Name: w.CallName, IsHostly: w.IsHostly}
		for _, wca := range w.CallArgs {
			a, err := fromWireExpr(wca)
			if err != nil {
				return nil, err
			}
			c.Args = append(c.Args, a)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("deserialize: unknown expr kind %q", w.Kind)
	}
}

func toWireCode(c *action.Code) (wireCode, error) {
	var w wireCode
	if c == nil {
		return w, nil
	}
	for _, stmt := range c.Statements {
		var ws wireStatement
		switch s := stmt.(type) {
		case *action.Assignment:
			ws.IsAssignment = true
			ws.LHSName = s.LHS.Name
			expr, err := toWireExpr(s.RHS)
			if err != nil {
				return w, err
			}
			ws.Expr = expr
		case *action.ExprStatement:
			expr, err := toWireExpr(s.Expr)
			if err != nil {
				return w, err
			}
			ws.Expr = expr
		default:
			return w, fmt.Errorf("serialize: unsupported statement type %T", stmt)
		}
		w.Statements = append(w.Statements, ws)
	}
	return w, nil
}

func fromWireCode(w wireCode) (*action.Code, error) {
	c := &action.Code{}
	for _, ws := range w.Statements {
		expr, err := fromWireExpr(ws.Expr)
		if err != nil {
			return nil, err
		}
		if ws.IsAssignment {
			c.Statements = append(c.Statements, &action.Assignment{LHS: &action.NamedVariable{Name: ws.LHSName}, RHS: expr})
		} else {
			c.Statements = append(c.Statements, &action.ExprStatement{Expr: expr})
		}
	}
	return c, nil
}

func toWireArgs(args []Arg) ([]wireArg, error) {
	out := make([]wireArg, 0, len(args))
	for _, a := range args {
		wa, err := toWireExpr(a.Value)
		if err != nil {
			return nil, err
		}
		wa.ParamName = a.ParamName
		out = append(out, wa)
	}
	return out, nil
}

func fromWireArgs(wargs []wireArg) ([]Arg, error) {
	out := make([]Arg, 0, len(wargs))
	for _, wa := range wargs {
		e, err := fromWireExpr(wa)
		if err != nil {
			return nil, err
		}
		out = append(out, Arg{ParamName: wa.ParamName, Value: e})
	}
	return out, nil
}

func toWireBindings(codes []*action.Code) ([]wireCode, error) {
	out := make([]wireCode, 0, len(codes))
	for _, c := range codes {
		wc, err := toWireCode(c)
		if err != nil {
			return nil, err
		}
		out = append(out, wc)
	}
	return out, nil
}

func fromWireBindings(wcodes []wireCode) ([]*action.Code, error) {
	out := make([]*action.Code, 0, len(wcodes))
	for _, wc := range wcodes {
		c, err := fromWireCode(wc)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func toWireElement(e Element) (wireElement, error) {
	var w wireElement
	if e == nil {
		return w, nil
	}
	w.Helpstring = e.Helpstring()
	pre, err := toWireBindings(e.PreBindings())
	if err != nil {
		return w, err
	}
	post, err := toWireBindings(e.PostBindings())
	if err != nil {
		return w, err
	}
	w.PreBindings = pre
	w.PostBindings = post

	switch x := e.(type) {
	case *Literal:
		w.Kind = "literal"
		w.Keyword = x.Keyword
	case *TokenRef:
		w.Kind = "tokenref"
		w.TokenName = x.Name
	case *Sequence:
		w.Kind = "sequence"
		w.RepeatCount = x.RepeatCount
		for _, c := range x.Children {
			wc, err := toWireElement(c)
			if err != nil {
				return w, err
			}
			w.Children = append(w.Children, wc)
		}
	case *Alternative:
		w.Kind = "alternative"
		for _, c := range x.Children {
			wc, err := toWireElement(c)
			if err != nil {
				return w, err
			}
			w.Children = append(w.Children, wc)
		}
	case *OrderlessSet:
		w.Kind = "orderlessset"
		for _, c := range x.Children {
			wc, err := toWireElement(c)
			if err != nil {
				return w, err
			}
			w.Children = append(w.Children, wc)
		}
	case *Optional:
		w.Kind = "optional"
		wc, err := toWireElement(x.Child)
		if err != nil {
			return w, err
		}
		w.Child = &wc
	case *RuleRef:
		w.Kind = "ruleref"
		w.RuleName = x.Name
		args, err := toWireArgs(x.Args)
		if err != nil {
			return w, err
		}
		w.Args = args
	case *Unresolved:
		w.Kind = "ruleref"
		w.RuleName = x.Name
		args, err := toWireArgs(x.Args)
		if err != nil {
			return w, err
		}
		w.Args = args
	default:
		return w, fmt.Errorf("serialize: unsupported element type %T", e)
	}
	return w, nil
}

func fromWireElement(w wireElement) (Element, error) {
	var elem Element
	switch w.Kind {
	case "":
		return nil, nil
	case "literal":
		elem = NewLiteral(w.Keyword)
	case "tokenref":
		elem = NewTokenRef(w.TokenName)
	case "sequence":
		children, err := fromWireElements(w.Children)
		if err != nil {
			return nil, err
		}
		seq := NewSequence(children...)
		seq.RepeatCount = w.RepeatCount
		elem = seq
	case "alternative":
		children, err := fromWireElements(w.Children)
		if err != nil {
			return nil, err
		}
		elem = NewAlternative(children...)
	case "orderlessset":
		children, err := fromWireElements(w.Children)
		if err != nil {
			return nil, err
		}
		elem = NewOrderlessSet(children...)
	case "optional":
		child, err := fromWireElement(*w.Child)
		if err != nil {
			return nil, err
		}
		elem = NewOptional(child)
	case "ruleref":
		args, err := fromWireArgs(w.Args)
		if err != nil {
			return nil, err
		}
		elem = NewUnresolved(w.RuleName, args)
	default:
		return nil, fmt.Errorf("deserialize: unknown element kind %q", w.Kind)
	}

	elem.SetHelpstring(w.Helpstring)
	pre, err := fromWireBindings(w.PreBindings)
	if err != nil {
		return nil, err
	}
	for _, c := range pre {
		elem.AddPreBinding(c)
	}
	post, err := fromWireBindings(w.PostBindings)
	if err != nil {
		return nil, err
	}
	for _, c := range post {
		elem.AddPostBinding(c)
	}
	return elem, nil
}

func fromWireElements(ws []wireElement) ([]Element, error) {
	out := make([]Element, 0, len(ws))
	for _, w := range ws {
		e, err := fromWireElement(w)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func toWireTokenDef(d *TokenDef) wireTokenDef {
	w := wireTokenDef{Name: d.Name, ClassName: d.ClassName, Helpstring: d.Helpstring}
	for _, a := range d.Args {
		w.Args = append(w.Args, literalToWireArg(a))
	}
	return w
}

func fromWireTokenDef(w wireTokenDef) *TokenDef {
	d := &TokenDef{Name: w.Name, ClassName: w.ClassName, Helpstring: w.Helpstring}
	for _, wa := range w.Args {
		d.Args = append(d.Args, wireArgToLiteral(wa))
	}
	return d
}

func literalToWireArg(v any) wireArg {
	switch x := v.(type) {
	case int:
		return wireArg{Kind: "int", I: int64(x)}
	case int64:
		return wireArg{Kind: "int", I: x}
	case float64:
		return wireArg{Kind: "float", F: x}
	case string:
		return wireArg{Kind: "string", S: x}
	default:
		return wireArg{Kind: "string", S: fmt.Sprintf("%v", x)}
	}
}

func wireArgToLiteral(w wireArg) any {
	switch w.Kind {
	case "int":
		return int(w.I)
	case "float":
		return w.F
	default:
		return w.S
	}
}
