package compile

import (
	"testing"

	"github.com/nessaid/gocli/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSimpleSequence(t *testing.T) {
	spec, err := Compile(`root: "hello" "world" ;`)
	require.NoError(t, err)
	rule, ok := spec.Rule("root")
	require.True(t, ok)
	seq, ok := rule.Body.(*grammar.Sequence)
	require.True(t, ok)
	assert.Len(t, seq.Children, 2)
}

func TestCompileAlternative(t *testing.T) {
	spec, err := Compile(`root: "a" | "b" | "c" ;`)
	require.NoError(t, err)
	rule, _ := spec.Rule("root")
	alt, ok := rule.Body.(*grammar.Alternative)
	require.True(t, ok)
	assert.Len(t, alt.Children, 3)
}

func TestCompileOptional(t *testing.T) {
	spec, err := Compile(`root: "a" { "b" } ;`)
	require.NoError(t, err)
	rule, _ := spec.Rule("root")
	seq, ok := rule.Body.(*grammar.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Children, 2)
	_, ok = seq.Children[1].(*grammar.Optional)
	assert.True(t, ok)
}

func TestCompileOrderlessSet(t *testing.T) {
	spec, err := Compile(`root: ( "a", "b", "c" ) ;`)
	require.NoError(t, err)
	rule, _ := spec.Rule("root")
	os, ok := rule.Body.(*grammar.OrderlessSet)
	require.True(t, ok)
	assert.Len(t, os.Children, 3)
}

func TestCompileTokenDecl(t *testing.T) {
	spec, err := Compile(`
token NUM RangedInt(1, 100);
root: NUM ;
`)
	require.NoError(t, err)
	rule, ok := spec.Rule("root")
	require.True(t, ok)
	ref, ok := rule.Body.(*grammar.TokenRef)
	require.True(t, ok)
	assert.Equal(t, "NUM", ref.Name)
	_, ok = spec.TokenClass("NUM")
	assert.True(t, ok)
}

func TestCompileRuleRefWithArgs(t *testing.T) {
	spec, err := Compile(`
inner[$x]: "word" << $x = $1; >> ;
outer: "take" inner[$x = 5] ;
`)
	require.NoError(t, err)
	rule, ok := spec.Rule("outer")
	require.True(t, ok)
	seq := rule.Body.(*grammar.Sequence)
	require.Len(t, seq.Children, 2)
	ref, ok := seq.Children[1].(*grammar.RuleRef)
	require.True(t, ok)
	assert.Equal(t, "inner", ref.Name)
	require.Len(t, ref.Args, 1)
	assert.Equal(t, "x", ref.Args[0].ParamName)
}

func TestCompileRepetitionExact(t *testing.T) {
	spec, err := Compile(`root: "a" * 3 ;`)
	require.NoError(t, err)
	rule, _ := spec.Rule("root")
	seq, ok := rule.Body.(*grammar.Sequence)
	require.True(t, ok)
	assert.Equal(t, 3, seq.RepeatCount)
	assert.Len(t, seq.Children, 1)
}

func TestCompileRepetitionRange(t *testing.T) {
	spec, err := Compile(`root: "a" * (2:4) ;`)
	require.NoError(t, err)
	rule, _ := spec.Rule("root")
	seq, ok := rule.Body.(*grammar.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Children, 2)
	inner, ok := seq.Children[0].(*grammar.Sequence)
	require.True(t, ok)
	assert.Equal(t, 2, inner.RepeatCount)
}

func TestCompileRepetitionOptionalRange(t *testing.T) {
	spec, err := Compile(`root: "a" * (0:3) ;`)
	require.NoError(t, err)
	rule, _ := spec.Rule("root")
	opt, ok := rule.Body.(*grammar.Optional)
	require.True(t, ok)
	inner, ok := opt.Child.(*grammar.Sequence)
	require.True(t, ok)
	assert.Equal(t, 3, inner.RepeatCount)
}

func TestCompileUnknownRuleError(t *testing.T) {
	_, err := Compile(`root: doesnotexist ;`)
	assert.Error(t, err)
}

func TestCompileDuplicateDefinition(t *testing.T) {
	_, err := Compile(`
root: "a" ;
root: "b" ;
`)
	assert.Error(t, err)
}

func TestCompileHelpstring(t *testing.T) {
	spec, err := Compile(`root: "a" : "does the thing" ;`)
	require.NoError(t, err)
	rule, _ := spec.Rule("root")
	lit := rule.Body.(*grammar.Literal)
	assert.Equal(t, "does the thing", lit.Helpstring())
}

func TestCompileForwardReference(t *testing.T) {
	spec, err := Compile(`
root: helper ;
helper: "x" ;
`)
	require.NoError(t, err)
	rule, _ := spec.Rule("root")
	ref, ok := rule.Body.(*grammar.RuleRef)
	require.True(t, ok)
	assert.Equal(t, "helper", ref.Name)
}
