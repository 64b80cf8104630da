package config

import "sync"

// Defaults is the in-memory source for implementation defaults. Modules
// register defaults for the configuration keys they support, typically from
// an init function. Keys follow git-config's case rules, so defaults line
// up with the git-backed scopes in a manager's fold.
type Defaults struct {
	*MemorySource
}

// NewDefaults creates an empty defaults source.
func NewDefaults() *Defaults {
	return &Defaults{MemorySource: NewMemorySource()}
}

func (d *Defaults) GetAll(key string) ([]Item, error) {
	return d.MemorySource.GetAll(normalizeGitKey(key))
}

func (d *Defaults) Set(key string, values ...Item) error {
	return d.MemorySource.Set(normalizeGitKey(key), values...)
}

func (d *Defaults) Add(key string, value Item) error {
	return d.MemorySource.Add(normalizeGitKey(key), value)
}

var (
	theDefaults     *Defaults
	theDefaultsOnce sync.Once
)

// GetDefaults returns the process-unique Defaults instance. The instance is
// pre-populated with the git configuration defaults this library relies on.
func GetDefaults() *Defaults {
	theDefaultsOnce.Do(func() {
		theDefaults = NewDefaults()
		registerGitDefaults(theDefaults)
	})
	return theDefaults
}

func registerGitDefaults(d *Defaults) {
	for _, key := range []string{
		"core.bare",
		"extensions.worktreeConfig",
	} {
		_ = d.Set(key, Item{Value: "false", Coerce: boolCoercer})
	}
}
