package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps blobs in process memory. A positive quota caps the total
// number of bytes held across all keys.
type MemoryStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	quota int
}

func NewMemoryStore(quota int) *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}, quota: quota}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quota > 0 {
		used := len(value)
		for k, v := range s.data {
			if k != key {
				used += len(v)
			}
		}
		if used > s.quota {
			return fmt.Errorf("set %s (%d bytes): %w", key, len(value), ErrQuotaExceeded)
		}
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
