// internal/store/memory.go
//
// Small key/value preference store.
// Used for user preferences that must survive a restart of the hero view,
// currently the audio mute flag.
//
// Characteristics:
//   - Values are JSON encoded, so any serialisable value can be stored.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - The memory implementation loses state when the process restarts;
//     see file.go for the persistent variant.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Store defines the persistence interface for preferences.
type Store interface {
	// Get decodes the value stored under key into dst.
	// Reports false (and leaves dst untouched) if the key is absent.
	Get(ctx context.Context, key string, dst any) (bool, error)

	// Set encodes v and stores it under key, replacing any previous value.
	Set(ctx context.Context, key string, v any) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.RWMutex               // guards values map
	values map[string]json.RawMessage // keyed by preference name
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{values: make(map[string]json.RawMessage)}
}

func (m *memory) Get(ctx context.Context, key string, dst any) (bool, error) {
	m.mu.RLock()
	raw, ok := m.values[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("store: decode %q: %w", key, err)
	}
	return true, nil
}

func (m *memory) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = raw
	return nil
}
