package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeBare(t *testing.T) {
	segs, err := Tokenize("show interface eth0")
	require.NoError(t, err)
	require.Len(t, segs, 3)
	assert.Equal(t, "show", segs[0].Value)
	assert.Equal(t, "interface", segs[1].Value)
	assert.Equal(t, "eth0", segs[2].Value)
	assert.False(t, segs[0].Quoted)
}

func TestTokenizeQuoted(t *testing.T) {
	segs, err := Tokenize(`set name "hello world"`)
	require.NoError(t, err)
	require.Len(t, segs, 3)
	assert.True(t, segs[2].Quoted)
	assert.Equal(t, "hello world", segs[2].Value)
}

func TestTokenizeEscapes(t *testing.T) {
	segs, err := Tokenize(`echo "line1\nline2\ttab\\backslash"`)
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, "line1\nline2\ttab\\backslash", segs[1].Value)
}

func TestTokenizeIncompleteQuote(t *testing.T) {
	segs, err := Tokenize(`echo "unterminated`)
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.True(t, segs[1].Incomplete)
	assert.Equal(t, "unterminated", segs[1].Value)
}

func TestTokenizeIncompleteTrailingBackslash(t *testing.T) {
	segs, err := Tokenize(`echo "abc\`)
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.True(t, segs[1].Incomplete)
	assert.Equal(t, "abc", segs[1].Value)
}

func TestTokenizeBadEscape(t *testing.T) {
	_, err := Tokenize(`echo "abc\zdef"`)
	require.Error(t, err)
}

func TestTokenizeEmpty(t *testing.T) {
	segs, err := Tokenize("   ")
	require.NoError(t, err)
	assert.Empty(t, segs)
}
