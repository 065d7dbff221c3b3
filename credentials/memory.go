package credentials

import (
	"context"
	"sync"
)

var _ Backend = (*MemoryBackend)(nil)

// MemoryBackend keeps every namespace in process memory. Values are lost on restart.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]map[string]string // namespace -> key -> value
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		values: make(map[string]map[string]string),
	}
}

func (b *MemoryBackend) Scope(namespace string) Storage {
	return &memoryStorage{backend: b, namespace: namespace}
}

// NewMemoryStorage returns a standalone in-memory Storage
func NewMemoryStorage() Storage {
	return NewMemoryBackend().Scope("default")
}

type memoryStorage struct {
	backend   *MemoryBackend
	namespace string
}

func (s *memoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()

	value, ok := s.backend.values[s.namespace][key]
	return value, ok, nil
}

func (s *memoryStorage) Set(_ context.Context, items map[string]string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	ns, ok := s.backend.values[s.namespace]
	if !ok {
		ns = make(map[string]string, len(items))
		s.backend.values[s.namespace] = ns
	}
	for k, v := range items {
		ns[k] = v
	}
	return nil
}

func (s *memoryStorage) Delete(_ context.Context, keys ...string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	ns, ok := s.backend.values[s.namespace]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(ns, k)
	}
	// Clean up empty namespaces
	if len(ns) == 0 {
		delete(s.backend.values, s.namespace)
	}
	return nil
}
