package action

import (
	"github.com/nessaid/gocli/internal/errs"
)

// ErrBuiltin classifies a builtin misuse (wrong argument count, wrong
// type).
const ErrBuiltin errs.Kind = "action.builtin"

// Host is the set of collaborator hooks a builtin needs that don't belong
// to the action package itself: printing to the session's output stream
// and reading a line of interactive input. Ported from the `self.print`
// and `self.get_input` calls resolve_local_function_call makes on the CLI
// interface in interface.py.
type Host interface {
	Print(args ...*Value)
	ReadInput(prompt string, echo bool) (string, error)
}

// Builtins is the fixed table of local functions every binding block gets
// for free, without a call to the host. Ported field-for-field from
// CliInterface.resolve_local_function_call in interface.py.
var Builtins = map[string]func(h Host, args []*Value) (*Value, error){
	"list": func(_ Host, args []*Value) (*Value, error) {
		return NewList(args...), nil
	},

	"set": func(_ Host, args []*Value) (*Value, error) {
		s := NewSet()
		for _, a := range args {
			s.Set[a.Repr()] = a
		}
		return s, nil
	},

	"dict": func(_ Host, _ []*Value) (*Value, error) {
		return NewDict(), nil
	},

	"print": func(h Host, args []*Value) (*Value, error) {
		h.Print(args...)
		return Null(), nil
	},

	"input": func(h Host, args []*Value) (*Value, error) {
		prompt := ""
		echo := true
		if len(args) > 0 {
			prompt = args[0].Repr()
		}
		if len(args) > 1 && args[1].Kind == KindBool {
			echo = args[1].B
		}
		line, err := h.ReadInput(prompt, echo)
		if err != nil {
			return NewString(""), nil
		}
		return NewString(line), nil
	},

	"inc": func(_ Host, args []*Value) (*Value, error) {
		if len(args) != 1 {
			return nil, errs.Newf(ErrBuiltin, "inc: expected 1 argument, got %d", len(args))
		}
		return numericAdd(args[0], 1), nil
	},

	"dec": func(_ Host, args []*Value) (*Value, error) {
		if len(args) != 1 {
			return nil, errs.Newf(ErrBuiltin, "dec: expected 1 argument, got %d", len(args))
		}
		return numericAdd(args[0], -1), nil
	},

	"add": func(_ Host, args []*Value) (*Value, error) {
		if len(args) == 0 {
			return nil, errs.New(ErrBuiltin, "add: expected at least 1 argument")
		}
		r := args[0]
		for _, a := range args[1:] {
			r = numericAddValue(r, a)
		}
		return r, nil
	},

	"append": func(_ Host, args []*Value) (*Value, error) {
		if len(args) == 0 {
			return nil, errs.New(ErrBuiltin, "append: called without arguments")
		}
		r := args[0]
		for _, a := range args[1:] {
			switch r.Kind {
			case KindList:
				r.List = append(r.List, a)
			case KindSet:
				r.Set[a.Repr()] = a
			}
		}
		return r, nil
	},

	"update": func(_ Host, args []*Value) (*Value, error) {
		if len(args) <= 2 {
			return Null(), nil
		}
		r := args[0]
		if r.Kind == KindDict {
			r.Dict[args[1].Repr()] = args[2]
		}
		return r, nil
	},
}

func numericAdd(v *Value, delta int64) *Value {
	switch v.Kind {
	case KindInt:
		return NewInt(v.I + delta)
	case KindFloat:
		return NewFloat(v.F + float64(delta))
	default:
		return v
	}
}

func numericAddValue(a, b *Value) *Value {
	if a.Kind == KindInt && b.Kind == KindInt {
		return NewInt(a.I + b.I)
	}
	if (a.Kind == KindInt || a.Kind == KindFloat) && (b.Kind == KindInt || b.Kind == KindFloat) {
		return NewFloat(toFloat(a) + toFloat(b))
	}
	if a.Kind == KindString && b.Kind == KindString {
		return NewString(a.S + b.S)
	}
	if a.Kind == KindList {
		return NewList(append(append([]*Value{}, a.List...), b)...)
	}
	return a
}

func toFloat(v *Value) float64 {
	if v.Kind == KindInt {
		return float64(v.I)
	}
	return v.F
}
