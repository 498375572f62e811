package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	profileapp "github.com/invoicely/backend/internal/application/profile"
)

// InMemoryObjectStorage holds objects in process memory. It backs local
// development and tests; nothing survives a restart.
type InMemoryObjectStorage struct {
	// BaseURL is the base URL for generated download URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string]storedObject
}

type storedObject struct {
	data        []byte
	contentType string
}

// NewInMemoryObjectStorage creates a new InMemoryObjectStorage
func NewInMemoryObjectStorage() *InMemoryObjectStorage {
	return &InMemoryObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string]storedObject),
	}
}

// Ensure InMemoryObjectStorage implements ObjectStorageService
var _ profileapp.ObjectStorageService = (*InMemoryObjectStorage)(nil)

// Upload stores the object in memory
func (s *InMemoryObjectStorage) Upload(_ context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	s.objects[storageKey] = storedObject{data: buf, contentType: contentType}
	s.mu.Unlock()
	return nil
}

// GenerateDownloadURL returns a synthetic URL for a stored object
func (s *InMemoryObjectStorage) GenerateDownloadURL(
	_ context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/" + storageKey, expiresAt, nil
}

// DeleteObject removes the object; deleting a missing key succeeds
func (s *InMemoryObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	delete(s.objects, storageKey)
	s.mu.Unlock()
	return nil
}

// ObjectExists reports whether the object is stored
func (s *InMemoryObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	_, ok := s.objects[storageKey]
	s.mu.RUnlock()
	return ok, nil
}

// Object returns the stored bytes and content type for inspection in tests
func (s *InMemoryObjectStorage) Object(storageKey string) ([]byte, string, bool) {
	s.mu.RLock()
	obj, ok := s.objects[storageKey]
	s.mu.RUnlock()
	return obj.data, obj.contentType, ok
}
