package command

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalad/datalad-core/internal/repo"
	"github.com/datalad/datalad-core/internal/testutil"
)

func TestNewDataset_SpecShapes(t *testing.T) {
	for _, spec := range []any{nil, "/some/path"} {
		ds, err := NewDataset(spec)
		require.NoError(t, err)
		assert.Equal(t, spec, ds.PristineSpec())
	}
	_, err := NewDataset(42)
	assert.Error(t, err)
}

func TestDataset_PathWithoutRepository(t *testing.T) {
	ds, err := NewDataset(filepath.Join(t.TempDir(), "to-be-created"))
	require.NoError(t, err)

	// a dataset may point at nothing on the filesystem
	assert.Nil(t, ds.Worktree())
	assert.Nil(t, ds.Repo())
	assert.True(t, filepath.IsAbs(ds.Path()))
	assert.Equal(t, ds.PristineSpec(), ds.Path())
}

func TestDataset_PathRelativeSpec(t *testing.T) {
	base := t.TempDir()
	testutil.Chdir(t, base)

	ds, err := NewDataset("subdir")
	require.NoError(t, err)
	assert.Equal(t, "subdir", ds.PristineSpec())

	want, err := filepath.EvalSymlinks(base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(want, "subdir"),
		mustEvalSymlinks(t, ds.Path()))
}

func mustEvalSymlinks(t *testing.T, p string) string {
	t.Helper()
	// the leaf may not exist; resolve the parent only
	dir, base := filepath.Split(p)
	resolved, err := filepath.EvalSymlinks(filepath.Clean(dir))
	require.NoError(t, err)
	return filepath.Join(resolved, base)
}

func TestDataset_ResolvesWorktree(t *testing.T) {
	testutil.SkipWithoutGit(t)
	root := testutil.NewGitRepo(t)

	ds, err := NewDataset(root)
	require.NoError(t, err)
	wt := ds.Worktree()
	require.NotNil(t, wt)
	assert.Equal(t, wt.Path(), ds.Path())

	r := ds.Repo()
	require.NotNil(t, r)
	direct, err := wt.Repo()
	require.NoError(t, err)
	assert.Same(t, direct, r)
}

func TestDataset_NilSpecUsesWorkingDirectory(t *testing.T) {
	testutil.SkipWithoutGit(t)
	root := testutil.NewGitRepo(t)
	testutil.Chdir(t, root)

	ds, err := NewDataset(nil)
	require.NoError(t, err)
	wt := ds.Worktree()
	require.NotNil(t, wt)
	assert.Equal(t, wt.Path(), ds.Path())
	assert.Nil(t, ds.PristineSpec())
}

func TestDataset_FromWorktreeHandle(t *testing.T) {
	testutil.SkipWithoutGit(t)
	root := testutil.NewGitRepo(t)

	wt, err := repo.WorktreeAt(root)
	require.NoError(t, err)
	ds, err := NewDataset(wt)
	require.NoError(t, err)
	assert.Same(t, wt, ds.Worktree())
	assert.Equal(t, wt.Path(), ds.Path())
}

func TestDataset_SharedFlyweightAcrossInstances(t *testing.T) {
	testutil.SkipWithoutGit(t)
	root := testutil.NewGitRepo(t)

	ds1, err := NewDataset(root)
	require.NoError(t, err)
	ds2, err := NewDataset(root)
	require.NoError(t, err)

	assert.True(t, ds1.Equal(ds2))
	assert.NotSame(t, ds1, ds2)
	assert.Same(t, ds1.Worktree(), ds2.Worktree(),
		"equal specs resolve to the one cached worktree")
}
