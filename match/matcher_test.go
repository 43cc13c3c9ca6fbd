package match

import (
	"context"
	"testing"

	"github.com/nessaid/gocli/action"
	"github.com/nessaid/gocli/grammar/compile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchSimpleLiteralSuccess(t *testing.T) {
	spec, err := compile.Compile(`root: "show" "version" ;`)
	require.NoError(t, err)
	rule, ok := spec.Rule("root")
	require.True(t, ok)

	m := NewMatcher(spec, nil)
	res, err := m.Match(context.Background(), rule, []string{"show", "version"}, false, true, nil)
	require.NoError(t, err)
	assert.Equal(t, Success, res.Status)
	assert.Equal(t, []string{"show", "version"}, res.MatchedSequence)
	require.Len(t, res.MatchedValues, 2)
	assert.Equal(t, "show", res.MatchedValues[0].S)
	assert.Equal(t, "version", res.MatchedValues[1].S)
}

func TestMatchPartialPrefix(t *testing.T) {
	spec, err := compile.Compile(`root: "show" "version" ;`)
	require.NoError(t, err)
	rule, _ := spec.Rule("root")

	m := NewMatcher(spec, nil)
	res, err := m.Match(context.Background(), rule, []string{"show"}, false, true, nil)
	require.NoError(t, err)
	assert.Equal(t, Partial, res.Status)
}

func TestMatchFailureWrongToken(t *testing.T) {
	// A mismatch that still has further input queued behind it is a hard
	// Failure; so is a mismatch on the last typed token (see
	// TestMatchFailureAtInputBoundary).
	spec, err := compile.Compile(`root: "show" "version" ;`)
	require.NoError(t, err)
	rule, _ := spec.Rule("root")

	m := NewMatcher(spec, nil)
	res, err := m.Match(context.Background(), rule, []string{"nope", "more"}, false, true, nil)
	require.NoError(t, err)
	assert.Equal(t, Failure, res.Status)
	assert.Equal(t, "nope", res.OffendingToken)
	assert.Equal(t, 0, res.OffendingTokenPosition)
}

func TestMatchFailureAtInputBoundary(t *testing.T) {
	spec, err := compile.Compile(`root: "show" "version" ;`)
	require.NoError(t, err)
	rule, _ := spec.Rule("root")

	m := NewMatcher(spec, nil)
	res, err := m.Match(context.Background(), rule, []string{"nope"}, false, true, nil)
	require.NoError(t, err)
	assert.Equal(t, Failure, res.Status)
	assert.Equal(t, "nope", res.OffendingToken)
	assert.Equal(t, 0, res.OffendingTokenPosition)
}

func TestMatchCompletionDryRun(t *testing.T) {
	spec, err := compile.Compile(`root: "show" ( "version" | "interfaces" ) ;`)
	require.NoError(t, err)
	rule, _ := spec.Rule("root")

	m := NewMatcher(spec, nil)
	res, err := m.Match(context.Background(), rule, []string{"show", ""}, true, false, nil)
	require.NoError(t, err)
	assert.Equal(t, Partial, res.Status)
	assert.ElementsMatch(t, []string{"version", "interfaces"}, res.NextTokens)
}

func TestMatchAmbiguousSameLengthResolvedByFixSequences(t *testing.T) {
	spec, err := compile.Compile(`
token word AnyString();
root: "run" word | "run" "run" ;
`)
	require.NoError(t, err)
	rule, _ := spec.Rule("root")

	m := NewMatcher(spec, nil)
	res, err := m.Match(context.Background(), rule, []string{"run", "run"}, false, true, nil)
	require.NoError(t, err)
	assert.Equal(t, Success, res.Status)
}

func TestMatchRootArgsRoundTrip(t *testing.T) {
	spec, err := compile.Compile(`
root[$count]: "ping" << $count = $1; >> ;
`)
	require.NoError(t, err)
	rule, _ := spec.Rule("root")

	m := NewMatcher(spec, nil)
	count := action.Null()
	res, err := m.Match(context.Background(), rule, []string{"ping"}, false, true, []*action.Value{count})
	require.NoError(t, err)
	assert.Equal(t, Success, res.Status)
	assert.Equal(t, "ping", count.S)
}
