package repo

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/datalad/datalad-core/internal/config"
	"github.com/datalad/datalad-core/internal/runners"
)

// gitManaged is the shared core of Repo and Worktree: a canonical path, an
// instance token, and lazily resolved git metadata.
type gitManaged struct {
	path string
	id   string

	mu        sync.Mutex
	gitDir    string
	commonDir string
	cfg       *config.Manager
}

func newGitManaged(path string) gitManaged {
	return gitManaged{path: path, id: uuid.NewString()}
}

// Path returns the canonical root this handle was registered under.
func (g *gitManaged) Path() string { return g.path }

// ID returns the instance token. Two handles for the same path at the same
// time share one token; a handle rebuilt after invalidation gets a fresh
// one. Intended for logging and debugging flyweight identity.
func (g *gitManaged) ID() string { return g.id }

// GitDir returns the absolute path of the git directory.
func (g *gitManaged) GitDir() (string, error) {
	gitDir, _, err := g.gitDirs()
	return gitDir, err
}

// GitCommonDir returns the absolute path of the git common directory. For a
// linked worktree this differs from GitDir.
func (g *gitManaged) GitCommonDir() (string, error) {
	_, commonDir, err := g.gitDirs()
	return commonDir, err
}

func (g *gitManaged) gitDirs() (string, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gitDir != "" {
		return g.gitDir, g.commonDir, nil
	}
	lines, err := runners.CallGitLines(
		[]string{"rev-parse", "--path-format=absolute",
			"--git-dir", "--git-common-dir"},
		runners.InDir(g.path), runners.ForceCLocale(),
	)
	if err != nil {
		return "", "", err
	}
	if len(lines) != 2 {
		return "", "", fmt.Errorf("unexpected rev-parse output for %s: %v", g.path, lines)
	}
	g.gitDir, g.commonDir = lines[0], lines[1]
	return g.gitDir, g.commonDir, nil
}

// Reset drops all lazily resolved state, forcing re-resolution on next
// access. The handle's registry identity is unaffected.
func (g *gitManaged) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gitDir = ""
	g.commonDir = ""
	g.cfg = nil
}

// valid reports whether the path still resolves as a git repository.
func (g *gitManaged) valid() bool {
	return runners.CallGitSuccess(
		[]string{"rev-parse", "--git-dir"},
		runners.InDir(g.path),
	)
}

// InitAnnex initializes a git-annex branch in this repository. description
// may be empty; autoenableRemotes controls whether special remotes marked
// autoenable are activated. Annex backend failures propagate to the caller.
func (g *gitManaged) InitAnnex(description string, autoenableRemotes bool) error {
	args := []string{"init"}
	if !autoenableRemotes {
		args = append(args, "--no-autoenable")
	}
	if description != "" {
		args = append(args, description)
	}
	if _, err := runners.CallAnnex(args, runners.InDir(g.path)); err != nil {
		return fmt.Errorf("cannot initialize annex at %s: %w", g.path, err)
	}
	return nil
}
