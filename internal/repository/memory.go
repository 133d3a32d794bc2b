package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore хранит записи в памяти процесса. Используется в тестах и для локального запуска.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]map[string][]byte
}

// NewMemoryStore создаёт пустое хранилище в памяти.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]map[string][]byte)}
}

// Create сохраняет новую запись.
func (s *MemoryStore) Create(_ context.Context, collection, id string, doc []byte) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.records[collection]
	if !ok {
		c = make(map[string][]byte)
		s.records[collection] = c
	}
	if _, exists := c[id]; exists {
		return fmt.Errorf("%w: %s/%s", ErrExists, collection, id)
	}
	c[id] = append([]byte(nil), doc...)
	return nil
}

// Read возвращает копию документа.
func (s *MemoryStore) Read(_ context.Context, collection, id string) ([]byte, error) {
	if err := validateKey(collection, id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.records[collection][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return append([]byte(nil), doc...), nil
}

// Update перезаписывает документ, создавая его при отсутствии.
func (s *MemoryStore) Update(_ context.Context, collection, id string, doc []byte) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.records[collection]
	if !ok {
		c = make(map[string][]byte)
		s.records[collection] = c
	}
	c[id] = append([]byte(nil), doc...)
	return nil
}

// Delete удаляет запись.
func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[collection][id]; !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	delete(s.records[collection], id)
	return nil
}

// List возвращает отсортированные ключи коллекции.
func (s *MemoryStore) List(_ context.Context, collection string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records[collection]))
	for id := range s.records[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
