package config

import (
	"sort"
	"sync"
)

// Source supplies the ordered values of configuration keys for one scope.
//
// Implementations must make Load an atomic snapshot swap: a concurrent
// reader sees either the previous or the refreshed state, never a partial
// mixture.
type Source interface {
	// Load (re)reads the source's backing data. It is called lazily on
	// first access and may be called again to refresh.
	Load() error

	// Keys returns all keys the source defines, sorted.
	Keys() ([]string, error)

	// GetAll returns the ordered values for a key, or an empty slice when
	// the key is unset in this source.
	GetAll(key string) ([]Item, error)
}

// WritableSource is a Source whose backing store accepts updates.
type WritableSource interface {
	Source

	// Set replaces all values of key.
	Set(key string, values ...Item) error

	// Add appends a value to key, keeping existing ones.
	Add(key string, value Item) error
}

// MemorySource is an in-memory WritableSource. It backs implementation
// defaults and is convenient for tests.
type MemorySource struct {
	mu    sync.RWMutex
	items map[string][]Item
}

// NewMemorySource creates an empty in-memory source.
func NewMemorySource() *MemorySource {
	return &MemorySource{items: make(map[string][]Item)}
}

func (s *MemorySource) Load() error { return nil }

func (s *MemorySource) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemorySource) GetAll(key string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vals := s.items[key]
	out := make([]Item, len(vals))
	copy(out, vals)
	return out, nil
}

func (s *MemorySource) Set(key string, values ...Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append([]Item(nil), values...)
	return nil
}

func (s *MemorySource) Add(key string, value Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append(s.items[key], value)
	return nil
}

// SetString replaces all values of key with the given plain strings.
func (s *MemorySource) SetString(key string, values ...string) error {
	items := make([]Item, len(values))
	for i, v := range values {
		items[i] = NewItem(v)
	}
	return s.Set(key, items...)
}
