package cli

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileReaderSkipsCommentsAndBlanks(t *testing.T) {
	fr := NewFileReader(strings.NewReader("# a comment\n\nshow version\n"))
	line, err := fr.ReadCommand()
	require.NoError(t, err)
	assert.Equal(t, "show version", line)
}

func TestFileReaderMergesContinuation(t *testing.T) {
	fr := NewFileReader(strings.NewReader("set name \\\nfoo\nshow version\n"))
	line, err := fr.ReadCommand()
	require.NoError(t, err)
	assert.Equal(t, "set name foo", line)

	line, err = fr.ReadCommand()
	require.NoError(t, err)
	assert.Equal(t, "show version", line)
}

func TestFileReaderEOF(t *testing.T) {
	fr := NewFileReader(strings.NewReader(""))
	_, err := fr.ReadCommand()
	assert.ErrorIs(t, err, io.EOF)
}
