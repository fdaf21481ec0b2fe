/*
Package store implements the persisted key/value blob store backing the community state.

Every durable piece of state (room registry, access policy, unlock flags, roles) lives
under a well-known key as a single JSON-encoded blob. The store is intentionally weak:
whole-value reads and writes, last writer wins, no transactions spanning keys. Read and
write failures are absorbed by the callers, which fall back to documented defaults.
*/
package store

import "sync"

// Store is the minimal contract for the blob store. Implementations must be
// safe for concurrent use.
type Store interface {
	// Get returns the raw blob stored under key. The second return value
	// reports whether the key was present.
	Get(key string) ([]byte, bool)

	// Set overwrites the blob stored under key. Failures are handled by the
	// implementation (logged, never surfaced).
	Set(key string, value []byte)

	// Delete removes the key if present.
	Delete(key string)

	// Keys returns every stored key with the given prefix, in no particular order.
	Keys(prefix string) []string
}

// MemoryStore is a map-backed Store used in tests and ephemeral runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

// Get returns the blob stored under key.
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, false
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, true
}

// Set overwrites the blob stored under key.
func (m *MemoryStore) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
}

// Delete removes the key if present.
func (m *MemoryStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
}

// Keys returns every stored key with the given prefix.
func (m *MemoryStore) Keys(prefix string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			keys = append(keys, key)
		}
	}
	return keys
}
