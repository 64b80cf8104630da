package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalad/datalad-core/internal/config"
	"github.com/datalad/datalad-core/internal/runners"
	"github.com/datalad/datalad-core/internal/testutil"
)

func freshRegistry(t *testing.T) {
	t.Helper()
	purgeRegistry()
	t.Cleanup(purgeRegistry)
}

func TestRepoAt_Flyweight(t *testing.T) {
	testutil.SkipWithoutGit(t)
	freshRegistry(t)
	bare := testutil.NewBareRepo(t)

	r1, err := RepoAt(bare)
	require.NoError(t, err)
	r2, err := RepoAt(bare)
	require.NoError(t, err)
	assert.Same(t, r1, r2)
	assert.Equal(t, r1.ID(), r2.ID())
}

func TestRepoAt_SymlinkAlias(t *testing.T) {
	testutil.SkipWithoutGit(t)
	freshRegistry(t)
	bare := testutil.NewBareRepo(t)

	link := filepath.Join(t.TempDir(), "alias")
	require.NoError(t, os.Symlink(bare, link))

	r1, err := RepoAt(bare)
	require.NoError(t, err)
	r2, err := RepoAt(link)
	require.NoError(t, err)
	assert.Same(t, r1, r2, "symlinked paths resolve to one handle")
}

func TestRepoAt_FromInsideWorktree(t *testing.T) {
	testutil.SkipWithoutGit(t)
	freshRegistry(t)
	wtRoot := testutil.NewGitRepo(t)

	r, err := RepoAt(wtRoot)
	require.NoError(t, err)
	gitDir, err := canonicalPath(filepath.Join(wtRoot, ".git"))
	require.NoError(t, err)
	assert.Equal(t, gitDir, r.Path(), "handle registers under the git dir")
}

func TestRepoAt_NotARepo(t *testing.T) {
	testutil.SkipWithoutGit(t)
	freshRegistry(t)
	_, err := RepoAt(t.TempDir())
	assert.Error(t, err)
}

func TestInitRepoAt_Idempotent(t *testing.T) {
	testutil.SkipWithoutGit(t)
	freshRegistry(t)
	dir := filepath.Join(t.TempDir(), "new-repo")

	r1, err := InitRepoAt(dir)
	require.NoError(t, err)
	bare, err := r1.Bare()
	require.NoError(t, err)
	assert.True(t, bare)

	r2, err := InitRepoAt(dir)
	require.NoError(t, err)
	assert.Same(t, r1, r2)
}

func TestRepo_GitDirs(t *testing.T) {
	testutil.SkipWithoutGit(t)
	freshRegistry(t)
	bare := testutil.NewBareRepo(t)

	r, err := RepoAt(bare)
	require.NoError(t, err)
	gitDir, err := r.GitDir()
	require.NoError(t, err)
	commonDir, err := r.GitCommonDir()
	require.NoError(t, err)
	assert.Equal(t, gitDir, commonDir, "no linked worktrees involved")

	r.Reset()
	gitDir2, err := r.GitDir()
	require.NoError(t, err)
	assert.Equal(t, gitDir, gitDir2, "reset re-resolves to the same state")
}

func TestRepo_Config(t *testing.T) {
	testutil.SkipWithoutGit(t)
	freshRegistry(t)
	wtRoot := testutil.NewGitRepo(t)

	r, err := RepoAt(wtRoot)
	require.NoError(t, err)
	m, err := r.Config()
	require.NoError(t, err)

	assert.Equal(t, []string{
		config.SrcGitCommand, config.SrcGitLocal, config.SrcGitGlobal,
		config.SrcGitSystem, config.SrcDataladBranch, config.SrcDefaults,
	}, m.SourceNames())

	// local scope carries the fixture's identity settings
	it, ok := m.Get("user.email")
	require.True(t, ok)
	assert.Equal(t, "test@example.com", it.Value)

	// the committed branch scope is not protected
	_, ok = m.GetFromProtectedSources("user.email")
	assert.True(t, ok, "git-local is protected")

	m2, err := r.Config()
	require.NoError(t, err)
	assert.Same(t, m, m2, "manager is memoized per handle")
}

func TestRepo_BranchConfigScope(t *testing.T) {
	testutil.SkipWithoutGit(t)
	freshRegistry(t)
	wtRoot := testutil.NewGitRepo(t)

	// the repo handle lives at the git dir, so its branch scope reads the
	// committed blob, not the checkout's file
	cfgPath := filepath.Join(wtRoot, filepath.FromSlash(config.BranchConfigRelPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(cfgPath), 0o755))
	require.NoError(t, os.WriteFile(cfgPath,
		[]byte("[datalad \"dataset\"]\n\tid = abc\n"), 0o644))
	_, err := runners.CallGit([]string{"add", config.BranchConfigRelPath},
		runners.InDir(wtRoot))
	require.NoError(t, err)
	_, err = runners.CallGit([]string{"commit", "-q", "-m", "add dataset config"},
		runners.InDir(wtRoot))
	require.NoError(t, err)

	r, err := RepoAt(wtRoot)
	require.NoError(t, err)
	m, err := r.Config()
	require.NoError(t, err)

	it, ok := m.Get("datalad.dataset.id")
	require.True(t, ok)
	assert.Equal(t, "abc", it.Value)

	// branch config must never satisfy protected queries
	_, ok = m.GetFromProtectedSources("datalad.dataset.id")
	assert.False(t, ok)
}

func TestRepo_BranchConfigBlobMissing(t *testing.T) {
	testutil.SkipWithoutGit(t)
	freshRegistry(t)
	wtRoot := testutil.NewGitRepo(t)

	// an uncommitted .datalad/config is invisible through the git dir
	cfgPath := filepath.Join(wtRoot, filepath.FromSlash(config.BranchConfigRelPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(cfgPath), 0o755))
	require.NoError(t, os.WriteFile(cfgPath,
		[]byte("[datalad \"dataset\"]\n\tid = abc\n"), 0o644))

	r, err := RepoAt(wtRoot)
	require.NoError(t, err)
	m, err := r.Config()
	require.NoError(t, err)
	_, ok := m.Get("datalad.dataset.id")
	assert.False(t, ok)
}
