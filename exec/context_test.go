package exec

import (
	"testing"

	"github.com/nessaid/gocli/action"
	"github.com/nessaid/gocli/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// walk drives a Walker through tokenCount terminals, collecting the
// Position matched at each step — a small stand-in for what match.Matcher
// would otherwise hand to RunSequence.
func walk(t *testing.T, w *grammar.Walker, rule *grammar.NamedRule, tokenCount int) []grammar.Position {
	t.Helper()
	candidates := w.First(rule)
	require.NotEmpty(t, candidates)

	var seq []grammar.Position
	cur := candidates[0]
	seq = append(seq, cur)
	for i := 1; i < tokenCount; i++ {
		next := w.Next(cur)
		require.NotEmpty(t, next, "no continuation after token %d", i-1)
		cur = next[0]
		seq = append(seq, cur)
	}
	return seq
}

func assign(name string, rhs action.Expr) *action.Code {
	return &action.Code{Statements: []action.Statement{
		&action.Assignment{LHS: &action.NamedVariable{Name: name}, RHS: rhs},
	}}
}

func TestRunSequenceBareLiteralBody(t *testing.T) {
	lit := grammar.NewLiteral("hello")
	lit.AddPostBinding(assign("greeting", &action.PositionalVariable{Index: 1}))

	rule := grammar.NewNamedRule("root", []grammar.Param{{Name: "greeting"}}, lit)

	spec := grammar.New()
	require.NoError(t, spec.AddRule(rule))
	require.NoError(t, spec.Resolve())
	require.NoError(t, spec.Validate())

	w := grammar.NewWalker(spec)
	seq := walk(t, w, rule, 1)
	values := []*action.Value{action.NewString("hello")}

	ctx := NewContext(spec, nil)
	out, err := ctx.RunSequence(rule, nil, seq, values)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "hello", out[0].S)
}

func TestRunSequenceSiblingNumbering(t *testing.T) {
	a := grammar.NewLiteral("a")
	b := grammar.NewLiteral("b")
	// $<n> numbers siblings as seen by the enclosing Sequence, so a
	// binding can only read a sibling already matched by the time it
	// runs — attaching it to the last element, not the Sequence itself,
	// which would instead number root's OWN children (just the Sequence).
	b.AddPostBinding(&action.Code{Statements: []action.Statement{
		&action.Assignment{LHS: &action.NamedVariable{Name: "first"}, RHS: &action.PositionalVariable{Index: 1}},
		&action.Assignment{LHS: &action.NamedVariable{Name: "second"}, RHS: &action.PositionalVariable{Index: 2}},
	}})
	s := grammar.NewSequence(a, b)

	rule := grammar.NewNamedRule("root", []grammar.Param{{Name: "first"}, {Name: "second"}}, s)

	spec := grammar.New()
	require.NoError(t, spec.AddRule(rule))
	require.NoError(t, spec.Resolve())
	require.NoError(t, spec.Validate())

	w := grammar.NewWalker(spec)
	seq := walk(t, w, rule, 2)
	values := []*action.Value{action.NewString("a"), action.NewString("b")}

	ctx := NewContext(spec, nil)
	out, err := ctx.RunSequence(rule, nil, seq, values)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].S)
	assert.Equal(t, "b", out[1].S)
}

func TestRunSequenceNestedRuleRefArgs(t *testing.T) {
	word := grammar.NewLiteral("word")
	word.AddPostBinding(assign("x", &action.PositionalVariable{Index: 1}))
	inner := grammar.NewNamedRule("inner", []grammar.Param{{Name: "x"}}, word)

	take := grammar.NewLiteral("take")
	ref := grammar.NewRuleRef("inner", []grammar.Arg{
		{ParamName: "x", Value: &action.IntLiteral{Value: 5}},
	})
	// ref's own binding runs once inner's call has returned and its scope
	// is gone, back in root's scope — so it reads root's own $result and
	// reads inner's collapsed result via $2, its own just-registered slot
	// among root's sequence's children.
	ref.AddPostBinding(assign("result", &action.PositionalVariable{Index: 2}))
	s := grammar.NewSequence(take, ref)

	root := grammar.NewNamedRule("root", []grammar.Param{{Name: "result"}}, s)

	spec := grammar.New()
	require.NoError(t, spec.AddRule(root))
	require.NoError(t, spec.AddRule(inner))
	require.NoError(t, spec.Resolve())
	require.NoError(t, spec.Validate())

	w := grammar.NewWalker(spec)
	seq := walk(t, w, root, 2)
	values := []*action.Value{action.NewString("take"), action.NewString("word")}

	ctx := NewContext(spec, nil)
	out, err := ctx.RunSequence(root, nil, seq, values)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "word", out[0].S)
}

func TestRunSequenceDefaultArgument(t *testing.T) {
	lit := grammar.NewLiteral("ping")
	lit.AddPostBinding(assign("seen", &action.NamedVariable{Name: "count"}))
	rule := grammar.NewNamedRule("root", []grammar.Param{
		{Name: "count", HasDefault: true, Default: action.NewInt(3)},
		{Name: "seen"},
	}, lit)

	spec := grammar.New()
	require.NoError(t, spec.AddRule(rule))
	require.NoError(t, spec.Resolve())
	require.NoError(t, spec.Validate())

	w := grammar.NewWalker(spec)
	seq := walk(t, w, rule, 1)
	values := []*action.Value{action.NewString("ping")}

	ctx := NewContext(spec, nil)
	out, err := ctx.RunSequence(rule, nil, seq, values)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(3), out[1].I)
}
