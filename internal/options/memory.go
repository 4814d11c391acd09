package options

import (
	"context"
	"sync"
)

// MemoryStore keeps options in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

func memoryKey(pluginKey, projectID string) string {
	return pluginKey + "\x00" + projectID
}

func (s *MemoryStore) Options(_ context.Context, pluginKey, projectID string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]string{}
	for k, v := range s.data[memoryKey(pluginKey, projectID)] {
		out[k] = v
	}
	return out, nil
}

// SaveOptions merges values into the stored set. An empty value deletes the key.
func (s *MemoryStore) SaveOptions(_ context.Context, pluginKey, projectID string, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey(pluginKey, projectID)
	current, ok := s.data[key]
	if !ok {
		current = map[string]string{}
		s.data[key] = current
	}
	for k, v := range values {
		if v == "" {
			delete(current, k)
			continue
		}
		current[k] = v
	}
	return nil
}
