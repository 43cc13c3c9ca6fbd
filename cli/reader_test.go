package cli

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectReaderSkipsBlankLines(t *testing.T) {
	r := NewDirectReader(strings.NewReader("\n\n  show version  \n"))
	line, err := r.ReadCommand()
	require.NoError(t, err)
	assert.Equal(t, "show version", line)
}

func TestDirectReaderEOF(t *testing.T) {
	r := NewDirectReader(strings.NewReader(""))
	_, err := r.ReadCommand()
	assert.ErrorIs(t, err, io.EOF)
}

func TestDirectReaderAllowBlank(t *testing.T) {
	r := NewDirectReader(strings.NewReader("\nshow\n"))
	r.AllowBlank(true)
	line, err := r.ReadCommand()
	require.NoError(t, err)
	assert.Equal(t, "", line)
}
