package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/nessaid/gocli/action"
	"github.com/nessaid/gocli/grammar/compile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHost records every Print call as a space-joined line; Call and
// ReadInput are not exercised by these tests.
type stubHost struct {
	printed []string
}

func (h *stubHost) Print(args ...*action.Value) {
	var parts []string
	for _, a := range args {
		parts = append(parts, a.Repr())
	}
	h.printed = append(h.printed, strings.Join(parts, " "))
}

func (h *stubHost) ReadInput(prompt string, echo bool) (string, error) {
	return "", nil
}

func (h *stubHost) Call(name string, args []*action.Value) (*action.Value, error) {
	return action.Null(), nil
}

func TestSessionRunStartCommandExecutesBinding(t *testing.T) {
	spec, err := compile.Compile(`
token word AnyString();
root: "echo" word << print($2); >> ;
`)
	require.NoError(t, err)

	host := &stubHost{}
	var out bytes.Buffer
	s, err := NewSession(spec, "root", host, NewDirectReader(strings.NewReader("")), &out)
	require.NoError(t, err)

	require.NoError(t, s.Run(context.Background(), []string{"echo hello"}))
	require.Len(t, host.printed, 1)
	assert.Equal(t, "hello", host.printed[0])
}

func TestSessionRunReportsPartialAndFailure(t *testing.T) {
	spec, err := compile.Compile(`root: "show" "version" ;`)
	require.NoError(t, err)

	host := &stubHost{}
	var out bytes.Buffer
	s, err := NewSession(spec, "root", host, NewDirectReader(strings.NewReader("")), &out)
	require.NoError(t, err)

	require.NoError(t, s.Run(context.Background(), []string{"show", "nope more"}))
	assert.Contains(t, out.String(), "Input sequence is not complete")
	assert.Contains(t, out.String(), "Error:")
}

func TestSessionReadsFromReaderUntilEOF(t *testing.T) {
	spec, err := compile.Compile(`root: "show" "version" ;`)
	require.NoError(t, err)

	host := &stubHost{}
	var out bytes.Buffer
	in := NewDirectReader(strings.NewReader("show version\n"))
	s, err := NewSession(spec, "root", host, in, &out)
	require.NoError(t, err)

	require.NoError(t, s.Run(context.Background(), nil))
	assert.Empty(t, out.String())
}

func TestSessionPushChildMakesChildActive(t *testing.T) {
	spec, err := compile.Compile(`root: "show" "version" ;`)
	require.NoError(t, err)

	host := &stubHost{}
	var out bytes.Buffer
	parent, err := NewSession(spec, "root", host, NewDirectReader(strings.NewReader("")), &out)
	require.NoError(t, err)
	childSess, err := NewSession(spec, "root", host, NewDirectReader(strings.NewReader("")), &out)
	require.NoError(t, err)

	assert.Same(t, parent, parent.active())
	parent.PushChild(childSess)
	assert.Same(t, childSess, parent.active())
}

func TestSessionCloseRefusesWhileRunning(t *testing.T) {
	spec, err := compile.Compile(`root: "show" "version" ;`)
	require.NoError(t, err)

	host := &stubHost{}
	var out bytes.Buffer
	s, err := NewSession(spec, "root", host, NewDirectReader(strings.NewReader("")), &out)
	require.NoError(t, err)

	s.running = true
	assert.Error(t, s.Close())
	s.running = false
	assert.NoError(t, s.Close())
}
