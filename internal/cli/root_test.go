package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the dlcore CLI with the given arguments and returns captured
// stdout, stderr, and the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errBuf.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	for _, sub := range []string{"config", "dataset", "path", "init"} {
		assert.Contains(t, out, sub)
	}
}

func TestRootCommand_RejectsInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "--format", "xml", "dataset", "resolve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootCommand_AcceptsValidFormats(t *testing.T) {
	for _, format := range ValidFormats {
		_, _, err := execute(t, "--format", format, "dataset", "resolve", t.TempDir())
		assert.NoError(t, err, format)
	}
}
