package repo

import (
	"fmt"
	"os"

	"github.com/datalad/datalad-core/internal/config"
	"github.com/datalad/datalad-core/internal/runners"
)

// Repo is the flyweight handle for a git repository's administrative
// directory: a bare repository, or the git dir behind a worktree.
type Repo struct {
	gitManaged
}

// RepoAt returns the Repo for the repository at path. The path may point at
// a bare repository, a .git directory, or anywhere inside a worktree; the
// handle is registered under the canonical git dir. Fails when path is not
// part of a git repository.
func RepoAt(path string) (*Repo, error) {
	gitDir, err := runners.CallGitOneline(
		[]string{"rev-parse", "--path-format=absolute", "--git-dir"},
		runners.InDir(path), runners.ForceCLocale(),
	)
	if err != nil {
		return nil, fmt.Errorf("no Git repository at %s: %w", path, err)
	}
	canonical, err := canonicalPath(gitDir)
	if err != nil {
		return nil, err
	}
	if r, ok := cachedRepo(canonical); ok {
		return r, nil
	}
	return internRepo(&Repo{gitManaged: newGitManaged(canonical)}), nil
}

// InitRepoAt initializes a bare repository at path (creating the directory
// if needed) and returns its handle. Initializing an existing repository is
// a no-op, matching git's own behavior.
func InitRepoAt(path string) (*Repo, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}
	if _, err := runners.CallGit(
		[]string{"init", "--bare", "--quiet"},
		runners.InDir(path),
	); err != nil {
		return nil, fmt.Errorf("cannot initialize repository at %s: %w", path, err)
	}
	return RepoAt(path)
}

// Bare reports whether the repository has no associated worktree.
func (r *Repo) Bare() (bool, error) {
	out, err := runners.CallGitOneline(
		[]string{"rev-parse", "--is-bare-repository"},
		runners.InDir(r.path), runners.ForceCLocale(),
	)
	if err != nil {
		return false, err
	}
	return out == "true", nil
}

// Config returns the repository-scoped configuration manager. It layers the
// local scope and committed branch configuration into the process-global
// stack; the manager is owned by this handle and built lazily.
func (r *Repo) Config() (*config.Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg != nil {
		return r.cfg, nil
	}
	m, err := scopedManager(r.path, nil)
	if err != nil {
		return nil, err
	}
	r.cfg = m
	return m, nil
}

// scopedManager assembles the manager for a repository or worktree root.
// worktreeSrc, when non-nil, is inserted as the git-worktree scope.
func scopedManager(path string, worktreeSrc config.Source) (*config.Manager, error) {
	local, err := config.NewLocalGitConfig(path)
	if err != nil {
		return nil, err
	}
	branch, err := config.NewBranchConfig(path)
	if err != nil {
		return nil, err
	}
	global := config.GetManager()

	sources := []config.NamedSource{
		{Name: config.SrcGitCommand, Source: config.NewGitEnvironment()},
	}
	if worktreeSrc != nil {
		sources = append(sources,
			config.NamedSource{Name: config.SrcGitWorktree, Source: worktreeSrc})
	}
	sources = append(sources,
		config.NamedSource{Name: config.SrcGitLocal, Source: local})
	// global and system scopes are shared with the process-global manager,
	// so their snapshots are loaded once per process
	for _, name := range []string{config.SrcGitGlobal, config.SrcGitSystem} {
		src, ok := global.Source(name)
		if !ok {
			return nil, fmt.Errorf("global manager lacks the %s scope", name)
		}
		sources = append(sources, config.NamedSource{Name: name, Source: src})
	}
	sources = append(sources,
		config.NamedSource{Name: config.SrcDataladBranch, Source: branch},
		config.NamedSource{Name: config.SrcDefaults, Source: config.GetDefaults()},
	)

	m := config.NewManager(sources...)
	// every scope except the committed branch config is under the control
	// of the executing user
	for _, ns := range sources {
		if ns.Name == config.SrcDataladBranch {
			continue
		}
		if err := m.DeclareSourceProtected(ns.Name); err != nil {
			return nil, err
		}
	}
	return m, nil
}
