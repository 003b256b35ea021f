package storage

import (
	"encoding/json"
	"sync"
)

// MemStore is an in-memory Store for tests and throwaway sessions. Values
// are kept as marshaled JSON so Get hands out copies, never shared state.
type MemStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string][]byte)}
}

func (s *MemStore) Get(key string, v any) error {
	s.mu.RLock()
	data, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return ErrNoValue
	}
	return json.Unmarshal(data, v)
}

func (s *MemStore) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[key] = data
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}
