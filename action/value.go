package action

import "fmt"

// Kind discriminates a Value's payload.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindList
	KindSet
	KindDict
)

// Value is the dynamic, tagged-union cell every binding-block variable and
// builtin argument carries, mirroring nessaid_cli's untyped Python values
// (DESIGN NOTES §9's "any-type variables"). A *Value is passed by pointer so
// assignment through a NamedVariable/PositionalVariable can share state the
// way a Python name binding does, without Go needing true refcounting: the
// garbage collector reclaims a Value once nothing points to it.
type Value struct {
	Kind Kind
	I    int64
	F    float64
	S    string
	B    bool
	List []*Value
	Set  map[string]*Value  // keyed by Repr() of the member, value is the member itself
	Dict map[string]*Value
}

func Null() *Value                 { return &Value{Kind: KindNull} }
func NewInt(i int64) *Value        { return &Value{Kind: KindInt, I: i} }
func NewFloat(f float64) *Value    { return &Value{Kind: KindFloat, F: f} }
func NewString(s string) *Value    { return &Value{Kind: KindString, S: s} }
func NewBool(b bool) *Value        { return &Value{Kind: KindBool, B: b} }
func NewList(vs ...*Value) *Value  { return &Value{Kind: KindList, List: vs} }
func NewSet() *Value               { return &Value{Kind: KindSet, Set: map[string]*Value{}} }
func NewDict() *Value              { return &Value{Kind: KindDict, Dict: map[string]*Value{}} }

// FromAny lifts a plain Go value (typically a token.Class.Value result)
// into a Value cell.
func FromAny(v any) *Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case int:
		return NewInt(int64(x))
	case int64:
		return NewInt(x)
	case float64:
		return NewFloat(x)
	case string:
		return NewString(x)
	case bool:
		return NewBool(x)
	default:
		return Null()
	}
}

// Repr renders v the way the builtin `print` function would.
func (v *Value) Repr() string {
	if v == nil {
		return "<null>"
	}
	switch v.Kind {
	case KindNull:
		return "<null>"
	case KindInt:
		return fmt.Sprintf("%d", v.I)
	case KindFloat:
		return fmt.Sprintf("%v", v.F)
	case KindString:
		return v.S
	case KindBool:
		return fmt.Sprintf("%v", v.B)
	case KindList:
		out := "["
		for i, e := range v.List {
			if i > 0 {
				out += ", "
			}
			out += e.Repr()
		}
		return out + "]"
	case KindSet:
		out := "{"
		first := true
		for _, e := range v.Set {
			if !first {
				out += ", "
			}
			first = false
			out += e.Repr()
		}
		return out + "}"
	case KindDict:
		out := "{"
		first := true
		for k, e := range v.Dict {
			if !first {
				out += ", "
			}
			first = false
			out += k + ": " + e.Repr()
		}
		return out + "}"
	default:
		return "<unknown>"
	}
}

// Assign copies rhs's payload into v in place, so existing pointers to v
// (e.g. held by a NamedVariable's binding cell) observe the new value.
func (v *Value) Assign(rhs *Value) {
	*v = *rhs
}
