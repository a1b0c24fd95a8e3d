// Package memory implements store.Backend in process memory.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/alfredjeanlab/reelcast/internal/store"
)

// Store keeps blobs in a map. A positive quota caps the total number of
// stored bytes across all keys.
type Store struct {
	mu      sync.RWMutex
	records map[string][]byte
	quota   int
}

// Compile-time check that Store implements store.Backend.
var _ store.Backend = (*Store)(nil)

// New returns an empty store. quota <= 0 disables the size limit.
func New(quota int) *Store {
	return &Store{records: make(map[string][]byte), quota: quota}
}

// Get returns a copy of the blob for key.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.records[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(data), true, nil
}

// Put stores a copy of data, or returns store.ErrQuotaExceeded and keeps the
// previous value.
func (s *Store) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quota > 0 {
		total := len(data)
		for k, v := range s.records {
			if k != key {
				total += len(v)
			}
		}
		if total > s.quota {
			return store.ErrQuotaExceeded
		}
	}
	s.records[key] = slices.Clone(data)
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return nil
}

// Keys returns the stored keys, sorted.
func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	slices.Sort(keys)
	return keys, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
