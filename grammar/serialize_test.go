package grammar_test

import (
	"context"
	"testing"

	"github.com/nessaid/gocli/grammar"
	"github.com/nessaid/gocli/grammar/compile"
	"github.com/nessaid/gocli/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSerializeRoundTripYieldsEquivalentTree exercises the
// compile -> serialize -> deserialize -> compile round trip: a Spec
// rebuilt from MarshalBinary bytes must match on the same inputs exactly
// the same as the Spec it was copied from, for both rules that succeed and
// rules that only partially match.
func TestSerializeRoundTripYieldsEquivalentTree(t *testing.T) {
	src := `
token count RangedInt(1, 10) : "a count from 1 to 10" ;

root:
    "show"
    (
        "count" count << $n = $2; >>
        |
        "all" << $n = 0; >>
    )
    ;
`
	orig, err := compile.Compile(src)
	require.NoError(t, err)

	data, err := orig.MarshalBinary()
	require.NoError(t, err)

	rebuilt := grammar.New()
	require.NoError(t, rebuilt.UnmarshalBinary(data))

	assert.ElementsMatch(t, orig.RuleNames(), rebuilt.RuleNames())

	cases := []struct {
		name   string
		tokens []string
	}{
		{"full match", []string{"show", "count", "5"}},
		{"alternate branch", []string{"show", "all"}},
		{"partial input", []string{"show"}},
		{"bad token", []string{"show", "count", "11"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			origRule, ok := orig.Rule("root")
			require.True(t, ok)
			rebuiltRule, ok := rebuilt.Rule("root")
			require.True(t, ok)

			origRes, err := match.NewMatcher(orig, nil).Match(context.Background(), origRule, c.tokens, false, true, nil)
			require.NoError(t, err)
			rebuiltRes, err := match.NewMatcher(rebuilt, nil).Match(context.Background(), rebuiltRule, c.tokens, false, true, nil)
			require.NoError(t, err)

			assert.Equal(t, origRes.Status, rebuiltRes.Status)
			assert.Equal(t, origRes.MatchedSequence, rebuiltRes.MatchedSequence)
		})
	}
}

// TestSerializeRoundTripPreservesTokenDefs checks that a rebuilt Spec's
// token classes still enforce the same constraints as the original's
// (BoundedString's length bounds are carried through the wire format, not
// dropped).
func TestSerializeRoundTripPreservesTokenDefs(t *testing.T) {
	src := `
token code BoundedString(2, 4) : "a short code" ;
root: "set" code << $c = $2; >> ;
`
	orig, err := compile.Compile(src)
	require.NoError(t, err)

	data, err := orig.MarshalBinary()
	require.NoError(t, err)

	rebuilt := grammar.New()
	require.NoError(t, rebuilt.UnmarshalBinary(data))

	rule, ok := rebuilt.Rule("root")
	require.True(t, ok)

	m := match.NewMatcher(rebuilt, nil)
	res, err := m.Match(context.Background(), rule, []string{"set", "toolong"}, false, true, nil)
	require.NoError(t, err)
	assert.NotEqual(t, match.Success, res.Status)

	res, err = m.Match(context.Background(), rule, []string{"set", "ok"}, false, true, nil)
	require.NoError(t, err)
	assert.Equal(t, match.Success, res.Status)
}
