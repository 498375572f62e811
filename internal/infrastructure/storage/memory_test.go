package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("upload and exists round trip", func(t *testing.T) {
		s := NewInMemoryObjectStorage()

		require.NoError(t, s.Upload(ctx, "user-1/logo-1.png", []byte{0x89, 'P', 'N', 'G'}, "image/png"))

		ok, err := s.ObjectExists(ctx, "user-1/logo-1.png")
		require.NoError(t, err)
		assert.True(t, ok)

		data, contentType, found := s.Object("user-1/logo-1.png")
		require.True(t, found)
		assert.Equal(t, "image/png", contentType)
		assert.Len(t, data, 4)
	})

	t.Run("delete removes object and is idempotent", func(t *testing.T) {
		s := NewInMemoryObjectStorage()

		require.NoError(t, s.Upload(ctx, "user-1/logo-1.png", []byte("x"), "image/png"))
		require.NoError(t, s.DeleteObject(ctx, "user-1/logo-1.png"))

		ok, err := s.ObjectExists(ctx, "user-1/logo-1.png")
		require.NoError(t, err)
		assert.False(t, ok)

		assert.NoError(t, s.DeleteObject(ctx, "user-1/logo-1.png"))
	})

	t.Run("download URL embeds the key", func(t *testing.T) {
		s := NewInMemoryObjectStorage()

		url, expiresAt, err := s.GenerateDownloadURL(ctx, "user-1/logo-1.png", time.Hour)
		require.NoError(t, err)
		assert.Contains(t, url, "user-1/logo-1.png")
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)
	})

	t.Run("rejects empty keys", func(t *testing.T) {
		s := NewInMemoryObjectStorage()

		assert.Error(t, s.Upload(ctx, "", nil, ""))
		assert.Error(t, s.DeleteObject(ctx, ""))
		_, err := s.ObjectExists(ctx, "")
		assert.Error(t, err)
	})
}
