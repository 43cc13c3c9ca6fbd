package grammar

import (
	"fmt"

	"github.com/nessaid/gocli/internal/errs"
	"github.com/nessaid/gocli/token"
)

// TokenDef is a declared token-class binding: a name bound to a class
// identifier plus literal constructor arguments (spec.md §3, "Token
// class (declared separately from rules)"). A TokenDef with no class name
// declares a bare Keyword literal under that name.
type TokenDef struct {
	Name       string
	ClassName  string
	Args       []any
	Helpstring string
}

// ClassConstructor builds a token.Class from a TokenDef's literal
// arguments. Registered per class name in the ClassRegistry.
type ClassConstructor func(name string, args []any, helpstring string) (token.Class, error)

// ClassRegistry is the fixed mapping from grammar-source class name to
// constructor, covering spec.md §6's table of predefined classes.
var ClassRegistry = map[string]ClassConstructor{
	"AnyString": func(name string, _ []any, help string) (token.Class, error) {
		return token.NewAnyString(name, help), nil
	},
	"BoundedString": func(name string, args []any, help string) (token.Class, error) {
		lo, hi, err := twoInts(args)
		if err != nil {
			return nil, err
		}
		return token.NewBoundedString(name, lo, hi, help)
	},
	"AlternativeStrings": func(name string, args []any, help string) (token.Class, error) {
		vals := make([]string, 0, len(args))
		for _, a := range args {
			s, ok := a.(string)
			if !ok {
				return nil, fmt.Errorf("AlternativeStrings: non-string argument %v", a)
			}
			vals = append(vals, s)
		}
		return token.NewAlternativeStrings(name, vals, help), nil
	},
	"RangedInt": func(name string, args []any, help string) (token.Class, error) {
		lo, hi, err := twoInts(args)
		if err != nil {
			return nil, err
		}
		max := 10
		if len(args) > 2 {
			n, ok := asInt(args[2])
			if !ok {
				return nil, fmt.Errorf("RangedInt: non-integer maxSuggestions argument %v", args[2])
			}
			max = n
		}
		return token.NewRangedInt(name, lo, hi, max, help), nil
	},
	"RangedDecimal": func(name string, args []any, help string) (token.Class, error) {
		lo, hi, err := twoFloats(args)
		if err != nil {
			return nil, err
		}
		return token.NewRangedDecimal(name, lo, hi, help), nil
	},
	"Boolean": func(name string, _ []any, help string) (token.Class, error) {
		return token.NewBoolean(name, help), nil
	},
	"Path": func(name string, args []any, help string) (token.Class, error) {
		kind := token.PathAny
		if len(args) > 0 {
			s, ok := args[0].(string)
			if !ok {
				return nil, fmt.Errorf("Path: non-string kind argument %v", args[0])
			}
			kind = token.PathKind(s)
		}
		return token.NewPath(name, kind, help), nil
	},
}

func twoInts(args []any) (int, int, error) {
	if len(args) < 2 {
		return 0, 0, fmt.Errorf("expected at least 2 arguments, got %d", len(args))
	}
	lo, ok1 := asInt(args[0])
	hi, ok2 := asInt(args[1])
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("expected integer arguments, got %v, %v", args[0], args[1])
	}
	return lo, hi, nil
}

func twoFloats(args []any) (float64, float64, error) {
	if len(args) < 2 {
		return 0, 0, fmt.Errorf("expected at least 2 arguments, got %d", len(args))
	}
	lo, ok1 := asFloat(args[0])
	hi, ok2 := asFloat(args[1])
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("expected numeric arguments, got %v, %v", args[0], args[1])
	}
	return lo, hi, nil
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// Build constructs the token.Class instance a TokenDef describes. A
// TokenDef with no ClassName is a bare keyword literal.
func (d *TokenDef) Build() (token.Class, error) {
	if d.ClassName == "" {
		return token.NewKeyword(d.Name, d.Helpstring), nil
	}
	ctor, ok := ClassRegistry[d.ClassName]
	if !ok {
		return nil, errs.Newf(ErrBadArgument, "unknown token class %q for token %q", d.ClassName, d.Name)
	}
	cls, err := ctor(d.Name, d.Args, d.Helpstring)
	if err != nil {
		return nil, errs.Wrap(ErrBadArgument, fmt.Sprintf("constructing token %q", d.Name), err)
	}
	return cls, nil
}
