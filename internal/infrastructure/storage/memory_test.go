package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	m := NewMemoryStorage("https://files.test")
	ctx := context.Background()

	upload, expiresAt, err := m.GenerateUploadURL(ctx, "company/logo/x.png", "image/png", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(upload, "https://files.test/company/logo/x.png?"))
	assert.Contains(t, upload, "content_type=image%2Fpng")
	assert.True(t, expiresAt.After(time.Now()))

	ok, err := m.ObjectExists(ctx, "company/logo/x.png")
	require.NoError(t, err)
	assert.False(t, ok)

	m.Put("company/logo/x.png", []byte("png"))
	ok, err = m.ObjectExists(ctx, "company/logo/x.png")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, m.Len())

	download, _, err := m.GenerateDownloadURL(ctx, "company/logo/x.png", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(download, "https://files.test/company/logo/x.png?"))

	require.NoError(t, m.DeleteObject(ctx, "company/logo/x.png"))
	assert.Zero(t, m.Len())
}

func TestMemoryStorage_EmptyKey(t *testing.T) {
	m := NewMemoryStorage("")
	ctx := context.Background()
	_, _, err := m.GenerateUploadURL(ctx, "", "", time.Minute)
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, err = m.ObjectExists(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
}
