package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
)

// GitEnvironment is the source for git's environment-variable based
// "command" scope, exposed through GIT_CONFIG_COUNT / GIT_CONFIG_KEY_<n> /
// GIT_CONFIG_VALUE_<n> variables. Any manipulation directly affects spawned
// git child processes too.
//
// The implementation is intentionally stateless: every accessor inspects the
// process environment directly, so multiple writers cannot diverge from the
// environment's actual state.
type GitEnvironment struct{}

// NewGitEnvironment creates the environment-scope source.
func NewGitEnvironment() *GitEnvironment {
	return &GitEnvironment{}
}

func (s *GitEnvironment) Load() error { return nil }

func (s *GitEnvironment) Keys() ([]string, error) {
	pairs := gitConfigItemsFromEnv()
	seen := make(map[string]bool)
	var keys []string
	for _, p := range pairs {
		if !seen[p.key] {
			seen[p.key] = true
			keys = append(keys, p.key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *GitEnvironment) GetAll(key string) ([]Item, error) {
	var out []Item
	for _, p := range gitConfigItemsFromEnv() {
		if p.key == key {
			out = append(out, NewItem(p.value))
		}
	}
	return out, nil
}

func (s *GitEnvironment) Set(key string, values ...Item) error {
	pairs := gitConfigItemsFromEnv()
	kept := pairs[:0]
	for _, p := range pairs {
		if p.key != key {
			kept = append(kept, p)
		}
	}
	for _, v := range values {
		kept = append(kept, envPair{key: key, value: v.Value})
	}
	return setGitConfigItemsInEnv(kept)
}

func (s *GitEnvironment) Add(key string, value Item) error {
	pairs := gitConfigItemsFromEnv()
	pairs = append(pairs, envPair{key: key, value: value.Value})
	return setGitConfigItemsInEnv(pairs)
}

// Unset removes all values of key from the environment scope.
func (s *GitEnvironment) Unset(key string) error {
	return s.Set(key)
}

// Overrides temporarily sets the given values in the environment scope and
// returns a restore function undoing the change. Typical use:
//
//	restore, err := env.Overrides(map[string][]Item{...})
//	defer restore()
func (s *GitEnvironment) Overrides(overrides map[string][]Item) (func(), error) {
	saved := gitConfigItemsFromEnv()
	for key, values := range overrides {
		if err := s.Set(key, values...); err != nil {
			_ = setGitConfigItemsInEnv(saved)
			return nil, err
		}
	}
	return func() {
		_ = setGitConfigItemsInEnv(saved)
	}, nil
}

type envPair struct {
	key   string
	value string
}

// gitConfigItemsFromEnv reads the GIT_CONFIG_* triplet variables in index
// order. Malformed entries (missing key or value for an index) are skipped.
func gitConfigItemsFromEnv() []envPair {
	count, err := strconv.Atoi(os.Getenv("GIT_CONFIG_COUNT"))
	if err != nil || count <= 0 {
		return nil
	}
	var pairs []envPair
	for i := 0; i < count; i++ {
		key, okK := os.LookupEnv(fmt.Sprintf("GIT_CONFIG_KEY_%d", i))
		value, okV := os.LookupEnv(fmt.Sprintf("GIT_CONFIG_VALUE_%d", i))
		if !okK || !okV || key == "" {
			continue
		}
		pairs = append(pairs, envPair{key: key, value: value})
	}
	return pairs
}

// setGitConfigItemsInEnv rewrites the GIT_CONFIG_* triplet variables to
// reflect exactly the given pairs.
func setGitConfigItemsInEnv(pairs []envPair) error {
	// drop stale higher indices first
	oldCount, _ := strconv.Atoi(os.Getenv("GIT_CONFIG_COUNT"))
	for i := len(pairs); i < oldCount; i++ {
		_ = os.Unsetenv(fmt.Sprintf("GIT_CONFIG_KEY_%d", i))
		_ = os.Unsetenv(fmt.Sprintf("GIT_CONFIG_VALUE_%d", i))
	}
	for i, p := range pairs {
		if err := os.Setenv(fmt.Sprintf("GIT_CONFIG_KEY_%d", i), p.key); err != nil {
			return err
		}
		if err := os.Setenv(fmt.Sprintf("GIT_CONFIG_VALUE_%d", i), p.value); err != nil {
			return err
		}
	}
	if len(pairs) == 0 {
		return os.Unsetenv("GIT_CONFIG_COUNT")
	}
	return os.Setenv("GIT_CONFIG_COUNT", strconv.Itoa(len(pairs)))
}
