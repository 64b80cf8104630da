package repo

import (
	"path/filepath"
	"sync"
)

// The registry enforces the flyweight invariant: one live handle per
// canonical path and kind. Handles are created outside the lock (creation
// runs git), then inserted with a double-check so a racing creator's
// instance wins for everyone.
var (
	regMu     sync.Mutex
	repos     = make(map[string]*Repo)
	worktrees = make(map[string]*Worktree)
)

// canonicalPath makes path absolute and resolves symlinks, so aliases of
// the same directory map to the same registry slot.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// a not-yet-existing path cannot be resolved further
		return filepath.Clean(abs), nil
	}
	return resolved, nil
}

func cachedRepo(path string) (*Repo, bool) {
	regMu.Lock()
	r, ok := repos[path]
	regMu.Unlock()
	if !ok {
		return nil, false
	}
	if !r.valid() {
		regMu.Lock()
		if repos[path] == r {
			delete(repos, path)
		}
		regMu.Unlock()
		return nil, false
	}
	return r, true
}

func internRepo(r *Repo) *Repo {
	regMu.Lock()
	defer regMu.Unlock()
	if existing, ok := repos[r.path]; ok {
		return existing
	}
	repos[r.path] = r
	return r
}

func cachedWorktree(path string) (*Worktree, bool) {
	regMu.Lock()
	wt, ok := worktrees[path]
	regMu.Unlock()
	if !ok {
		return nil, false
	}
	if !wt.valid() {
		regMu.Lock()
		if worktrees[path] == wt {
			delete(worktrees, path)
		}
		regMu.Unlock()
		return nil, false
	}
	return wt, true
}

func internWorktree(wt *Worktree) *Worktree {
	regMu.Lock()
	defer regMu.Unlock()
	if existing, ok := worktrees[wt.path]; ok {
		return existing
	}
	worktrees[wt.path] = wt
	return wt
}

// purgeRegistry empties the flyweight registry. Test use only; live handles
// held by callers keep working but lose their registry identity.
func purgeRegistry() {
	regMu.Lock()
	defer regMu.Unlock()
	repos = make(map[string]*Repo)
	worktrees = make(map[string]*Worktree)
}
