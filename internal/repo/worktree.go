package repo

import (
	"fmt"
	"os"
	"sync"

	"github.com/datalad/datalad-core/internal/config"
	"github.com/datalad/datalad-core/internal/runners"
)

// Worktree is the flyweight handle for a checked-out git worktree.
type Worktree struct {
	gitManaged

	repoMu sync.Mutex
	repo   *Repo
}

// WorktreeAt returns the Worktree for the checkout containing path. The
// handle is registered under the canonical worktree root, regardless of
// which path inside it was given. Fails when path is not inside a worktree
// (bare repositories included).
func WorktreeAt(path string) (*Worktree, error) {
	root, err := runners.CallGitOneline(
		[]string{"rev-parse", "--show-toplevel"},
		runners.InDir(path), runners.ForceCLocale(),
	)
	if err != nil {
		return nil, fmt.Errorf("no worktree at %s: %w", path, err)
	}
	canonical, err := canonicalPath(root)
	if err != nil {
		return nil, err
	}
	if wt, ok := cachedWorktree(canonical); ok {
		return wt, nil
	}
	return internWorktree(&Worktree{gitManaged: newGitManaged(canonical)}), nil
}

// InitWorktreeOption adjusts InitWorktreeAt.
type InitWorktreeOption func(*initWorktreeOpts)

type initWorktreeOpts struct {
	separateGitDir string
}

// WithSeparateGitDir places the repository's git dir at the given path
// instead of <worktree>/.git.
func WithSeparateGitDir(dir string) InitWorktreeOption {
	return func(o *initWorktreeOpts) { o.separateGitDir = dir }
}

// InitWorktreeAt initializes a repository with a worktree at path (creating
// the directory if needed) and returns its handle. Initializing an existing
// worktree is a no-op.
func InitWorktreeAt(path string, opts ...InitWorktreeOption) (*Worktree, error) {
	o := &initWorktreeOpts{}
	for _, opt := range opts {
		opt(o)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}
	args := []string{"init", "--quiet"}
	if o.separateGitDir != "" {
		args = append(args, "--separate-git-dir", o.separateGitDir)
	}
	if _, err := runners.CallGit(args, runners.InDir(path)); err != nil {
		return nil, fmt.Errorf("cannot initialize worktree at %s: %w", path, err)
	}
	return WorktreeAt(path)
}

// Repo returns the handle for the repository behind this worktree.
func (wt *Worktree) Repo() (*Repo, error) {
	wt.repoMu.Lock()
	defer wt.repoMu.Unlock()
	if wt.repo != nil {
		return wt.repo, nil
	}
	commonDir, err := wt.GitCommonDir()
	if err != nil {
		return nil, err
	}
	r, err := RepoAt(commonDir)
	if err != nil {
		return nil, err
	}
	wt.repo = r
	return r, nil
}

// Config returns the worktree-scoped configuration manager. When
// extensions.worktreeConfig is enabled the worktree scope participates,
// directly below the command scope; otherwise the stack matches a plain
// repository's.
func (wt *Worktree) Config() (*config.Manager, error) {
	wt.mu.Lock()
	defer wt.mu.Unlock()
	if wt.cfg != nil {
		return wt.cfg, nil
	}
	var worktreeSrc config.Source
	enabled, err := worktreeConfigEnabled(wt.path)
	if err != nil {
		return nil, err
	}
	if enabled {
		src, err := config.NewWorktreeGitConfig(wt.path)
		if err != nil {
			return nil, err
		}
		worktreeSrc = src
	}
	m, err := scopedManager(wt.path, worktreeSrc)
	if err != nil {
		return nil, err
	}
	wt.cfg = m
	return m, nil
}

// EnableWorktreeConfig turns on the extensions.worktreeConfig extension for
// the repository behind this worktree and invalidates the cached manager so
// the worktree scope joins the stack. Enabling twice is harmless.
func (wt *Worktree) EnableWorktreeConfig() error {
	enabled, err := worktreeConfigEnabled(wt.path)
	if err != nil {
		return err
	}
	if enabled {
		return nil
	}
	local, err := config.NewLocalGitConfig(wt.path)
	if err != nil {
		return err
	}
	if err := local.Set("extensions.worktreeConfig", config.NewItem("true")); err != nil {
		return err
	}
	wt.Reset()
	return nil
}

func worktreeConfigEnabled(path string) (bool, error) {
	local, err := config.NewLocalGitConfig(path)
	if err != nil {
		return false, err
	}
	vals, err := local.GetAll("extensions.worktreeConfig")
	if err != nil || len(vals) == 0 {
		return false, err
	}
	return vals[len(vals)-1].Bool()
}
