package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	printed []string
	input   string
}

func (f *fakeHost) Print(args ...*Value) {
	for _, a := range args {
		f.printed = append(f.printed, a.Repr())
	}
}

func (f *fakeHost) ReadInput(_ string, _ bool) (string, error) {
	return f.input, nil
}

func TestBuiltinList(t *testing.T) {
	fn := Builtins["list"]
	v, err := fn(&fakeHost{}, []*Value{NewInt(1), NewInt(2)})
	require.NoError(t, err)
	assert.Equal(t, KindList, v.Kind)
	assert.Len(t, v.List, 2)
}

func TestBuiltinAppendList(t *testing.T) {
	l := NewList(NewInt(1))
	fn := Builtins["append"]
	v, err := fn(&fakeHost{}, []*Value{l, NewInt(2)})
	require.NoError(t, err)
	assert.Len(t, v.List, 2)
}

func TestBuiltinIncDec(t *testing.T) {
	inc := Builtins["inc"]
	v, err := inc(&fakeHost{}, []*Value{NewInt(5)})
	require.NoError(t, err)
	assert.Equal(t, int64(6), v.I)

	dec := Builtins["dec"]
	v, err = dec(&fakeHost{}, []*Value{NewInt(5)})
	require.NoError(t, err)
	assert.Equal(t, int64(4), v.I)
}

func TestBuiltinAdd(t *testing.T) {
	fn := Builtins["add"]
	v, err := fn(&fakeHost{}, []*Value{NewInt(1), NewInt(2), NewInt(3)})
	require.NoError(t, err)
	assert.Equal(t, int64(6), v.I)
}

func TestBuiltinPrint(t *testing.T) {
	h := &fakeHost{}
	fn := Builtins["print"]
	_, err := fn(h, []*Value{NewString("hello")})
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, h.printed)
}

func TestBuiltinUpdate(t *testing.T) {
	d := NewDict()
	fn := Builtins["update"]
	v, err := fn(&fakeHost{}, []*Value{d, NewString("key"), NewInt(42)})
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Dict["key"].I)
}
