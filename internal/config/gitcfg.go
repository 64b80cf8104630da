package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/datalad/datalad-core/internal/runners"
)

// BranchConfigRelPath is the repository-relative location of configuration
// committed to a dataset's branch.
const BranchConfigRelPath = ".datalad/config"

// GitConfig reads (and optionally writes) one git-config scope. Concrete
// scopes are created via the New*GitConfig constructors; they differ only in
// the git-config base command and working directory.
//
// The scope's content is loaded lazily via `git config --list -z` and cached
// until Load is called again. Refreshes swap the whole snapshot under the
// lock; readers never observe a partially loaded state.
type GitConfig struct {
	argv []string // git-config base command, without the trailing action
	dir  string   // working directory for git ("" = process CWD)

	mu     sync.RWMutex
	loaded bool
	items  map[string][]Item
}

// NewSystemGitConfig creates the source for git's system scope.
func NewSystemGitConfig() *GitConfig {
	return &GitConfig{
		// pointing GIT_DIR at the null device keeps a repository in the
		// CWD from leaking its local scope into the output
		argv: []string{"--git-dir=" + os.DevNull, "config", "--system"},
	}
}

// NewGlobalGitConfig creates the source for git's global (per-user) scope.
func NewGlobalGitConfig() *GitConfig {
	return &GitConfig{
		argv: []string{"--git-dir=" + os.DevNull, "config", "--global"},
	}
}

// NewLocalGitConfig creates the source for the local scope of the
// repository at path. Fails when path is not inside a git repository.
func NewLocalGitConfig(path string) (*GitConfig, error) {
	gitDir, err := gitDirFor(path)
	if err != nil {
		return nil, err
	}
	return &GitConfig{
		argv: []string{"--git-dir", gitDir, "config", "--local"},
	}, nil
}

// NewWorktreeGitConfig creates the source for the worktree scope of the
// checkout at path. Requires extensions.worktreeConfig to be enabled.
func NewWorktreeGitConfig(path string) (*GitConfig, error) {
	gitDir, err := gitDirFor(path)
	if err != nil {
		return nil, err
	}
	return &GitConfig{
		argv: []string{"--git-dir", gitDir, "config", "--worktree"},
	}, nil
}

// NewBranchConfig creates the source for configuration committed to a
// branch at .datalad/config. For a checked-out worktree the file itself is
// read (and writable); for a bare repository the blob committed to HEAD is
// read.
func NewBranchConfig(path string) (*GitConfig, error) {
	gitDir, err := gitDirFor(path)
	if err != nil {
		return nil, err
	}
	inWorktree, err := runners.CallGitOneline(
		[]string{"rev-parse", "--is-inside-work-tree"},
		runners.InDir(path), runners.ForceCLocale(),
	)
	if err != nil {
		return nil, fmt.Errorf("no Git repository at %s: %w", path, err)
	}
	var argv []string
	if inWorktree == "true" {
		argv = []string{
			"--git-dir", gitDir, "config",
			"--file", filepath.Join(path, filepath.FromSlash(BranchConfigRelPath)),
		}
	} else {
		argv = []string{
			"--git-dir", gitDir, "config",
			"--blob", "HEAD:" + BranchConfigRelPath,
		}
	}
	return &GitConfig{argv: argv}, nil
}

func gitDirFor(path string) (string, error) {
	gitDir, err := runners.CallGitOneline(
		[]string{"rev-parse", "--path-format=absolute", "--git-dir"},
		runners.InDir(path), runners.ForceCLocale(),
	)
	if err != nil {
		return "", fmt.Errorf("no Git repository at %s: %w", path, err)
	}
	return gitDir, nil
}

// Load (re)reads the scope. A failing git call (e.g. a missing system
// config file, or branch config without a committed file) yields an empty
// snapshot, not an error.
func (g *GitConfig) Load() error {
	items := make(map[string][]Item)
	out, err := runners.CallGit(
		append(append([]string{}, g.argv...), "--show-origin", "--list", "-z"),
		runners.InDir(g.dir), runners.ForceCLocale(),
	)
	if err != nil && !runners.IsCommandError(err) {
		return err
	}
	if err == nil {
		parseGitConfigDump(out, items)
	}
	g.mu.Lock()
	g.items = items
	g.loaded = true
	g.mu.Unlock()
	return nil
}

func (g *GitConfig) ensureLoaded() error {
	g.mu.RLock()
	loaded := g.loaded
	g.mu.RUnlock()
	if loaded {
		return nil
	}
	return g.Load()
}

func (g *GitConfig) Keys() ([]string, error) {
	if err := g.ensureLoaded(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	keys := make([]string, 0, len(g.items))
	for k := range g.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (g *GitConfig) GetAll(key string) ([]Item, error) {
	if err := g.ensureLoaded(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	vals := g.items[normalizeGitKey(key)]
	out := make([]Item, len(vals))
	copy(out, vals)
	return out, nil
}

// Set replaces all values of key in the underlying git configuration.
func (g *GitConfig) Set(key string, values ...Item) error {
	if len(values) == 0 {
		return errors.New("Set requires at least one value")
	}
	key = normalizeGitKey(key)
	action := "--replace-all"
	for _, v := range values {
		if _, err := runners.CallGit(
			append(append([]string{}, g.argv...), action, key, v.Value),
			runners.InDir(g.dir),
		); err != nil {
			return err
		}
		// only the first write may replace, the rest accumulate
		action = "--add"
	}
	return g.Load()
}

// Add appends a value to key, keeping existing ones.
func (g *GitConfig) Add(key string, value Item) error {
	key = normalizeGitKey(key)
	if _, err := runners.CallGit(
		append(append([]string{}, g.argv...), "--add", key, value.Value),
		runners.InDir(g.dir),
	); err != nil {
		return err
	}
	return g.Load()
}

// parseGitConfigDump processes `git config --show-origin --list -z` output.
// Fields are NUL-separated and alternate between an origin marker
// ("file:...", "blob:...", "command line:") and a "key\nvalue" record.
func parseGitConfigDump(out string, items map[string][]Item) {
	for _, field := range strings.Split(out, "\x00") {
		if field == "" ||
			strings.HasPrefix(field, "file:") ||
			strings.HasPrefix(field, "blob:") ||
			strings.HasPrefix(field, "command line:") {
			continue
		}
		key, value, found := strings.Cut(field, "\n")
		if !found {
			// a bare key is git shorthand for a true boolean
			value = "true"
		}
		if !strings.Contains(key, ".") {
			// not a syntax-compliant git-config key, ignore
			continue
		}
		key = normalizeGitKey(key)
		items[key] = append(items[key], NewItem(value))
	}
}

// normalizeGitKey applies git-config's case rules: section and variable
// names are case-insensitive, subsections are not.
func normalizeGitKey(key string) string {
	parts := strings.Split(key, ".")
	if len(parts) < 2 {
		return strings.ToLower(key)
	}
	parts[0] = strings.ToLower(parts[0])
	parts[len(parts)-1] = strings.ToLower(parts[len(parts)-1])
	return strings.Join(parts, ".")
}
