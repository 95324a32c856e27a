package kvstore

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store. Values are copied on the way in and
// out so callers cannot alias stored bytes.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string][]byte)}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, namespace, key string) ([]byte, bool, error) {
	if err := ValidateNamespace(namespace); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[namespace][key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, namespace, key string, value []byte) error {
	if err := ValidateNamespace(namespace); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.data[namespace]
	if !ok {
		ns = make(map[string][]byte)
		m.data[namespace] = ns
	}
	ns[key] = append([]byte(nil), value...)
	return nil
}

// Keys implements Store.
func (m *MemoryStore) Keys(_ context.Context, namespace string) ([]string, error) {
	if err := ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data[namespace]))
	for k := range m.data[namespace] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Namespaces implements Store.
func (m *MemoryStore) Namespaces(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.data))
	for ns, keys := range m.data {
		if len(keys) > 0 {
			out = append(out, ns)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Remove implements Store.
func (m *MemoryStore) Remove(_ context.Context, namespace string) error {
	if err := ValidateNamespace(namespace); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, namespace)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
