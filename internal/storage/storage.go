package storage

import (
	"errors"
	"maps"
	"sort"
	"sync"
)

const maxValues = 64

var (
	// ErrInvalidValues indicates the provided raw values violate validation rules.
	ErrInvalidValues = errors.New("values must contain at most 64 entries keyed by [A-Z0-9_] names")
)

// Storage provides access to raw configuration values overriding the environment.
type Storage interface {
	GetValues() (map[string]string, error)
	SetValues(values map[string]string) error
	Lookup(key string) (string, bool)
}

// MemoryStorage keeps raw values in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage initialises an empty storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		values: map[string]string{},
	}
}

// GetValues returns a defensive copy of the stored values.
func (s *MemoryStorage) GetValues() (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.values), nil
}

// SetValues validates and replaces the stored values.
func (s *MemoryStorage) SetValues(values map[string]string) error {
	if err := validateValues(values); err != nil {
		return err
	}

	cloned := maps.Clone(values)
	if cloned == nil {
		cloned = map[string]string{}
	}

	s.mu.Lock()
	s.values = cloned
	s.mu.Unlock()

	return nil
}

// Lookup returns the stored value for key.
func (s *MemoryStorage) Lookup(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok
}

// Keys returns the stored keys in sorted order.
func (s *MemoryStorage) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func validateValues(values map[string]string) error {
	if len(values) > maxValues {
		return ErrInvalidValues
	}
	for key := range values {
		if !validKey(key) {
			return ErrInvalidValues
		}
	}
	return nil
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return true
}
