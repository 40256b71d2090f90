package state

import (
	"encoding/json"
	"fmt"
	"sync"
)

// memoryStore is a non-durable Store for tests and throwaway sessions. Values
// round-trip through JSON so it behaves like the file-backed store.
type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() Store {
	return &memoryStore{data: make(map[string][]byte)}
}

func (s *memoryStore) Load(key string, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.data[key]
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decoding state %s: %w", key, err)
	}

	return true, nil
}

func (s *memoryStore) Save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding state %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = data

	return nil
}

func (s *memoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}
