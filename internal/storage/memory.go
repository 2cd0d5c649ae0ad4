package storage

import (
	"slices"
	"strings"
	"sync"

	"github.com/julianstephens/standup/internal/constants"
)

// MemoryStore keeps units in process memory. Nothing survives Close.
type MemoryStore struct {
	mu    sync.RWMutex
	units map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{units: make(map[string][]byte)}
}

func (s *MemoryStore) Init() error { return nil }
func (s *MemoryStore) Load() error { return nil }

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units = make(map[string][]byte)
	return nil
}

func (s *MemoryStore) Read(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.units[key]
	if !ok {
		return nil, ErrNotExist
	}
	return slices.Clone(data), nil
}

func (s *MemoryStore) Write(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units[key] = slices.Clone(data)
	return nil
}

func (s *MemoryStore) Has(key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.units[key]
	return ok, nil
}

func (s *MemoryStore) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.units {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *MemoryStore) GetConfigPath() string {
	return constants.MemoryStoragePath
}
