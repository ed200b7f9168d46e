package store

import (
	"context"
	"errors"
	"sync"
)

// ErrStorageUnavailable wraps any failure of the persistence medium itself.
var ErrStorageUnavailable = errors.New("storage unavailable")

// KeyValue is the persistence medium behind a SessionStore.
type KeyValue interface {
	// Get returns the value stored under key. found is false when the key
	// has never been written.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error
}

// InMemoryStore is an in-memory implementation of the KeyValue interface.
type InMemoryStore struct {
	values map[string]string
	mutex  sync.RWMutex
}

// NewInMemoryStore creates a new in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		values: make(map[string]string),
	}
}

// Get retrieves the value for key.
func (s *InMemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, found := s.values[key]
	return value, found, nil
}

// Set stores value under key.
func (s *InMemoryStore) Set(_ context.Context, key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.values[key] = value
	return nil
}

// Keys returns the keys currently stored.
func (s *InMemoryStore) Keys() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys
}
