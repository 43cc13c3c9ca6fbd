package token

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyword(t *testing.T) {
	ctx := context.Background()
	k := NewKeyword("show", "")

	m, err := k.Match(ctx, "sh")
	require.NoError(t, err)
	assert.Equal(t, Partial, m)

	m, err = k.Match(ctx, "show")
	require.NoError(t, err)
	assert.Equal(t, Success, m)

	m, err = k.Match(ctx, "shower")
	require.NoError(t, err)
	assert.Equal(t, Failure, m)

	n, comps, err := k.Complete(ctx, "sh")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"show"}, comps)
}

func TestAlternativeStrings(t *testing.T) {
	ctx := context.Background()
	a := NewAlternativeStrings("color", []string{"red", "green", "blue"}, "")

	n, comps, err := a.Complete(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"red"}, comps)

	n, _, err = a.Complete(ctx, "z")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	v, err := a.Value(ctx, "blue")
	require.NoError(t, err)
	assert.Equal(t, "blue", v)
}

func TestAnyString(t *testing.T) {
	ctx := context.Background()
	s := NewAnyString("name", "")

	m, err := s.Match(ctx, "anything at all")
	require.NoError(t, err)
	assert.Equal(t, Partial, m)

	v, err := s.Value(ctx, `"quoted"`)
	require.NoError(t, err)
	assert.Equal(t, "quoted", v)
}

func TestBoundedString(t *testing.T) {
	ctx := context.Background()
	b, err := NewBoundedString("code", 3, 5, "")
	require.NoError(t, err)

	m, err := b.Match(ctx, "ab")
	require.NoError(t, err)
	assert.Equal(t, Partial, m)

	m, err = b.Match(ctx, "abcde")
	require.NoError(t, err)
	assert.Equal(t, Success, m)

	m, err = b.Match(ctx, "abcdef")
	require.NoError(t, err)
	assert.Equal(t, Failure, m)
}

func TestBoolean(t *testing.T) {
	ctx := context.Background()
	b := NewBoolean("flag", "")

	n, comps, err := b.Complete(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"True", "False"}, comps)

	n, comps, err = b.Complete(ctx, "tr")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"true"}, comps)

	v, err := b.Value(ctx, "FALSE")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	m, err := b.Match(ctx, "true")
	require.NoError(t, err)
	assert.Equal(t, Success, m)
}

func TestRangedIntBasic(t *testing.T) {
	ctx := context.Background()
	r := NewRangedInt("port", 1, 99, 10, "")

	n, comps, err := r.Complete(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 99, n)
	assert.Nil(t, comps)

	n, _, err = r.Complete(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	v, err := r.Value(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = r.Value(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, Null, v)
}

func TestRangedIntNegative(t *testing.T) {
	ctx := context.Background()
	r := NewRangedInt("offset", -5, 5, 10, "")

	n, comps, err := r.Complete(ctx, "-4")
	require.NoError(t, err)
	assert.NotEqual(t, 0, n)
	for _, c := range comps {
		assert.Contains(t, c, "-4")
	}

	m, err := r.Match(ctx, "-5")
	require.NoError(t, err)
	assert.Equal(t, Success, m)
}

func TestRangedDecimal(t *testing.T) {
	ctx := context.Background()
	r := NewRangedDecimal("ratio", 0, 1, "")

	m, err := r.Match(ctx, "0.5")
	require.NoError(t, err)
	assert.Equal(t, Partial, m)

	m, err = r.Match(ctx, "1.5")
	require.NoError(t, err)
	assert.Equal(t, Failure, m)

	v, err := r.Value(ctx, "0.25")
	require.NoError(t, err)
	assert.Equal(t, 0.25, v)
}

func TestNullValue(t *testing.T) {
	assert.True(t, IsNull(Null))
	assert.False(t, IsNull("x"))
}
