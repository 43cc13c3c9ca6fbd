package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignment(t *testing.T) {
	code, err := Parse(`$count = $1;`)
	require.NoError(t, err)
	require.Len(t, code.Statements, 1)

	assign, ok := code.Statements[0].(*Assignment)
	require.True(t, ok)
	assert.Equal(t, "count", assign.LHS.Name)

	pv, ok := assign.RHS.(*PositionalVariable)
	require.True(t, ok)
	assert.Equal(t, 1, pv.Index)
}

func TestParseCall(t *testing.T) {
	code, err := Parse(`call log("starting", $name);`)
	require.NoError(t, err)
	require.Len(t, code.Statements, 1)

	stmt, ok := code.Statements[0].(*ExprStatement)
	require.True(t, ok)

	call, ok := stmt.Expr.(*Call)
	require.True(t, ok)
	assert.True(t, call.IsHostly)
	assert.Equal(t, "log", call.Name)
	require.Len(t, call.Args, 2)

	lit, ok := call.Args[0].(*StringLiteral)
	require.True(t, ok)
	assert.Equal(t, "starting", lit.Value)
}

func TestParseBuiltinCallAssignment(t *testing.T) {
	code, err := Parse(`$items = append($items, $2);`)
	require.NoError(t, err)
	assign := code.Statements[0].(*Assignment)
	call, ok := assign.RHS.(*Call)
	require.True(t, ok)
	assert.False(t, call.IsHostly)
	assert.Equal(t, "append", call.Name)
	require.Len(t, call.Args, 2)
}

func TestParseMultipleStatements(t *testing.T) {
	code, err := Parse(`$x = 1; $y = 2.5; call notify($x);`)
	require.NoError(t, err)
	require.Len(t, code.Statements, 3)
}

func TestParseEscapedString(t *testing.T) {
	code, err := Parse(`$msg = "line one\nline two";`)
	require.NoError(t, err)
	assign := code.Statements[0].(*Assignment)
	lit := assign.RHS.(*StringLiteral)
	assert.Equal(t, "line one\nline two", lit.Value)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse(`$x = ;`)
	require.Error(t, err)
}

func TestParseMissingSemicolon(t *testing.T) {
	_, err := Parse(`$x = 1`)
	require.Error(t, err)
}
