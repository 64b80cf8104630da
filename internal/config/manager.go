package config

import (
	"fmt"
	"strings"
	"sync"
)

// Source scope names used across the library.
const (
	SrcGitCommand    = "git-command"
	SrcGitWorktree   = "git-worktree"
	SrcGitLocal      = "git-local"
	SrcGitGlobal     = "git-global"
	SrcGitSystem     = "git-system"
	SrcDataladBranch = "datalad-branch"
	SrcDefaults      = "defaults"
)

// NamedSource pairs a source with its scope name within a Manager.
type NamedSource struct {
	Name   string
	Source Source
}

// Manager resolves configuration keys across an ordered list of sources.
// Sources are given strongest first; see the package documentation for the
// precedence and protection rules.
type Manager struct {
	sources   []NamedSource
	protected map[string]bool
}

// NewManager creates a manager over the given sources, strongest first.
// No source is protected initially; see DeclareSourceProtected.
func NewManager(sources ...NamedSource) *Manager {
	return &Manager{
		sources:   sources,
		protected: make(map[string]bool),
	}
}

// Source returns the source registered under name.
func (m *Manager) Source(name string) (Source, bool) {
	for _, ns := range m.sources {
		if ns.Name == name {
			return ns.Source, true
		}
	}
	return nil, false
}

// SourceNames returns the scope names in precedence order, strongest first.
func (m *Manager) SourceNames() []string {
	names := make([]string, len(m.sources))
	for i, ns := range m.sources {
		names[i] = ns.Name
	}
	return names
}

// DeclareSourceProtected qualifies the named source for
// GetFromProtectedSources queries.
//
// This has to be done with care: protected sources feed security-related
// decision making. Never declare a source protected whose content can change
// without an explicit action of the executing user (or an already-trusted
// entity).
func (m *Manager) DeclareSourceProtected(name string) error {
	if _, ok := m.Source(name); !ok {
		return fmt.Errorf("%s is not a known configuration source", name)
	}
	m.protected[name] = true
	return nil
}

// GetAll returns every value of key across all sources, weakest source
// first. Multi-value order within a source is preserved, duplicates are
// kept. The result is empty when no source defines the key.
func (m *Manager) GetAll(key string) []Item {
	return m.fold(key, false)
}

// Get returns the effective single value of key: the last value contributed
// by the strongest source defining it.
func (m *Manager) Get(key string) (Item, bool) {
	vals := m.GetAll(key)
	if len(vals) == 0 {
		return Item{}, false
	}
	return vals[len(vals)-1], true
}

// GetOr returns the effective value of key, or def when unset everywhere.
func (m *Manager) GetOr(key string, def Item) Item {
	if it, ok := m.Get(key); ok {
		return it
	}
	return def
}

// GetBool returns the effective value of key interpreted as a boolean, or
// def when the key is unset everywhere.
func (m *Manager) GetBool(key string, def bool) (bool, error) {
	it, ok := m.Get(key)
	if !ok {
		return def, nil
	}
	return it.Bool()
}

// GetAllFromProtectedSources is GetAll restricted to protected sources.
func (m *Manager) GetAllFromProtectedSources(key string) []Item {
	return m.fold(key, true)
}

// GetFromProtectedSources returns the effective value of key considering
// only sources declared protected, bypassing any override a non-protected
// source may carry.
func (m *Manager) GetFromProtectedSources(key string) (Item, bool) {
	vals := m.GetAllFromProtectedSources(key)
	if len(vals) == 0 {
		return Item{}, false
	}
	return vals[len(vals)-1], true
}

// fold merges key's values across the source list from weakest to
// strongest. Sources that fail to read are skipped; resolution is
// best-effort over the remaining scopes.
func (m *Manager) fold(key string, protectedOnly bool) []Item {
	var out []Item
	for i := len(m.sources) - 1; i >= 0; i-- {
		ns := m.sources[i]
		if protectedOnly && !m.protected[ns.Name] {
			continue
		}
		vals, err := ns.Source.GetAll(key)
		if err != nil {
			continue
		}
		out = append(out, vals...)
	}
	return out
}

func (m *Manager) String() string {
	return fmt.Sprintf("Manager(%s)", strings.Join(m.SourceNames(), "<<"))
}

var (
	theManager     *Manager
	theManagerOnce sync.Once
)

// GetManager returns the process-unique Manager holding the repository
// independent scopes: git-command (process environment), git-global,
// git-system, and defaults. All four are protected.
func GetManager() *Manager {
	theManagerOnce.Do(func() {
		theManager = NewManager(
			NamedSource{SrcGitCommand, NewGitEnvironment()},
			NamedSource{SrcGitGlobal, NewGlobalGitConfig()},
			NamedSource{SrcGitSystem, NewSystemGitConfig()},
			NamedSource{SrcDefaults, GetDefaults()},
		)
		for _, name := range theManager.SourceNames() {
			_ = theManager.DeclareSourceProtected(name)
		}
	})
	return theManager
}
