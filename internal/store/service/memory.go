package service

import (
	"context"
	"strings"
	"sync"

	storeDomain "github.com/rajnish8869/SecureVault-Manager/internal/store/domain"
)

// MemoryStore implements Store entirely in process memory. It is used
// by C4/C5 unit tests so they don't depend on a real filesystem, the
// same role the teacher repo's mock repositories play for its
// persistence layer.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Put implements Store.
func (s *MemoryStore) Put(ctx context.Context, logicalName string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if logicalName == "" {
		return storeDomain.ErrInvalidName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objects[logicalName] = cp
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, logicalName string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[logicalName]
	if !ok {
		return nil, storeDomain.ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, logicalName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, logicalName)
	return nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for name := range s.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names, nil
}

// WipeTree implements Store.
func (s *MemoryStore) WipeTree(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = make(map[string][]byte)
	return nil
}
