package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/datalad/datalad-core/internal/testutil"
)

func TestPathResolve_AgainstWorkingDirectory(t *testing.T) {
	testutil.Chdir(t, t.TempDir())
	cwd, err := os.Getwd()
	require.NoError(t, err)

	out, _, err := execute(t, "path", "resolve", filepath.Join("sub", "file"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "sub", "file"), strings.TrimSpace(out))
}

func TestPathResolve_AgainstDataset(t *testing.T) {
	testutil.SkipWithoutGit(t)
	root := testutil.NewGitRepo(t)

	out, _, err := execute(t, "--format", "yaml",
		"path", "resolve", "--dataset", root, "file", filepath.Join("sub", "file"))
	require.NoError(t, err)

	var resp struct {
		Data []ResolvedPath `yaml:"data"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)
	base, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "file"), resp.Data[0].Resolved)
	assert.Equal(t, filepath.Join(base, "sub", "file"), resp.Data[1].Resolved)
}

func TestPathResolve_AbsolutePassesThrough(t *testing.T) {
	testutil.SkipWithoutGit(t)
	root := testutil.NewGitRepo(t)
	abs := filepath.Join(t.TempDir(), "elsewhere")

	out, _, err := execute(t, "path", "resolve", "--dataset", root, abs)
	require.NoError(t, err)
	assert.Equal(t, abs, strings.TrimSpace(out))
}

func TestPathResolve_ConstraintFailure(t *testing.T) {
	out, _, err := execute(t, "path", "resolve", "")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
}
