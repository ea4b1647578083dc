package storage

import (
	"context"
	"net/url"
	"sync"
	"time"

	settingsapp "github.com/erp/backoffice/internal/application/settings"
)

var _ settingsapp.ObjectStorage = (*MemoryStorage)(nil)

// MemoryStorage keeps objects in a map. Signed URLs point at BaseURL and are
// never served; callers simulate a client upload with Put.
type MemoryStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStorage returns an empty store
func NewMemoryStorage(baseURL string) *MemoryStorage {
	return &MemoryStorage{BaseURL: baseURL, objects: make(map[string][]byte)}
}

// Put stores data under storageKey
func (m *MemoryStorage) Put(storageKey string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[storageKey] = append([]byte(nil), data...)
}

// Len returns the number of stored objects
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

func (m *MemoryStorage) GenerateUploadURL(_ context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	expiresAt := time.Now().Add(expiresIn)
	q := url.Values{"content_type": {contentType}, "expires": {expiresAt.UTC().Format(time.RFC3339)}}
	return m.BaseURL + "/" + storageKey + "?" + q.Encode(), expiresAt, nil
}

func (m *MemoryStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	expiresAt := time.Now().Add(expiresIn)
	q := url.Values{"expires": {expiresAt.UTC().Format(time.RFC3339)}}
	return m.BaseURL + "/" + storageKey + "?" + q.Encode(), expiresAt, nil
}

func (m *MemoryStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[storageKey]
	return ok, nil
}

func (m *MemoryStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, storageKey)
	return nil
}
