package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testStorageConfig(endpoint string) config.StorageConfig {
	return config.StorageConfig{
		Enabled:      true,
		Endpoint:     endpoint,
		Bucket:       "erp-files",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		UsePathStyle: true,
	}
}

// fakeS3 answers HEAD and DELETE for a fixed set of keys under /erp-files/
type fakeS3 struct {
	mu       sync.Mutex
	objects  map[string]bool
	requests []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.TrimPrefix(r.URL.Path, "/erp-files/")
	f.requests = append(f.requests, r.Method+" "+key)

	switch r.Method {
	case http.MethodHead:
		if f.objects[key] {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newFakeS3Storage(t *testing.T, keys ...string) (*S3Storage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string]bool{}}
	for _, k := range keys {
		fake.objects[k] = true
	}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewS3Storage(context.Background(), testStorageConfig(srv.URL), zap.NewNop())
	require.NoError(t, err)
	return s, fake
}

func TestNewS3Storage_Validation(t *testing.T) {
	ctx := context.Background()

	cfg := testStorageConfig("http://localhost:9000")
	cfg.Bucket = ""
	_, err := NewS3Storage(ctx, cfg, zap.NewNop())
	assert.ErrorContains(t, err, "bucket is required")

	cfg = testStorageConfig("http://localhost:9000")
	cfg.SecretKey = ""
	_, err = NewS3Storage(ctx, cfg, zap.NewNop())
	assert.ErrorContains(t, err, "credentials are required")

	s, err := NewS3Storage(ctx, testStorageConfig("http://localhost:9000"), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "erp-files", s.Bucket())
	assert.Equal(t, defaultPresignExpiration, s.presignExpiration)
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "", endpointURL("", true))
	assert.Equal(t, "https://s3.local:9000", endpointURL("s3.local:9000", true))
	assert.Equal(t, "http://s3.local:9000", endpointURL("s3.local:9000/", false))
	assert.Equal(t, "http://minio:9000", endpointURL("http://minio:9000", true))
}

func TestS3Storage_PresignedURLs(t *testing.T) {
	s, err := NewS3Storage(context.Background(), testStorageConfig("http://localhost:9000"), zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	before := time.Now()
	raw, expiresAt, err := s.GenerateUploadURL(ctx, "company/logo/a.png", "image/png", 10*time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(10*time.Minute), expiresAt, 5*time.Second)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/erp-files/company/logo/a.png", u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))

	raw, _, err = s.GenerateDownloadURL(ctx, "company/logo/a.png", 0)
	require.NoError(t, err)
	u, err = url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
}

func TestS3Storage_EmptyKey(t *testing.T) {
	s, err := NewS3Storage(context.Background(), testStorageConfig("http://localhost:9000"), zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	_, _, err = s.GenerateUploadURL(ctx, "", "image/png", time.Minute)
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, _, err = s.GenerateDownloadURL(ctx, "", time.Minute)
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, err = s.ObjectExists(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
	assert.ErrorIs(t, s.DeleteObject(ctx, ""), ErrEmptyKey)
}

func TestS3Storage_ObjectExists(t *testing.T) {
	s, _ := newFakeS3Storage(t, "company/logo/present.png")
	ctx := context.Background()

	ok, err := s.ObjectExists(ctx, "company/logo/present.png")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.ObjectExists(ctx, "company/logo/missing.png")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3Storage_DeleteObject(t *testing.T) {
	s, fake := newFakeS3Storage(t, "company/logo/old.png")
	ctx := context.Background()

	require.NoError(t, s.DeleteObject(ctx, "company/logo/old.png"))

	ok, err := s.ObjectExists(ctx, "company/logo/old.png")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, fake.requests, "DELETE company/logo/old.png")
}
