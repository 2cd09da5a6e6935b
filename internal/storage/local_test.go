package storage

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(LocalConfig{
		BasePath: t.TempDir(),
		BaseURL:  "http://localhost:8080/files",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return s
}

func TestLocalStore_PutGetDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Put(ctx, "evidence/r1/photo.jpg", bytes.NewReader([]byte("fake-jpeg")), PutOptions{ContentType: "image/jpeg"})
	require.NoError(t, err)

	exists, err := s.Exists(ctx, "evidence/r1/photo.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, info, err := s.Get(ctx, "evidence/r1/photo.jpg")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "fake-jpeg", string(data))
	assert.Equal(t, int64(9), info.Size)

	require.NoError(t, s.Delete(ctx, "evidence/r1/photo.jpg"))
	exists, err = s.Exists(ctx, "evidence/r1/photo.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting again is idempotent.
	assert.NoError(t, s.Delete(ctx, "evidence/r1/photo.jpg"))
}

func TestLocalStore_NoOverwrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "ledger/2025-03.csv", strings.NewReader("a"), PutOptions{}))

	err := s.Put(ctx, "ledger/2025-03.csv", strings.NewReader("b"), PutOptions{})
	assert.ErrorIs(t, err, ErrKeyExists)

	assert.NoError(t, s.Put(ctx, "ledger/2025-03.csv", strings.NewReader("b"), PutOptions{Overwrite: true}))
}

func TestLocalStore_MaxSize(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Put(ctx, "evidence/big.jpg", strings.NewReader("0123456789"), PutOptions{MaxSize: 5})
	assert.ErrorIs(t, err, ErrTooLarge)

	exists, _ := s.Exists(ctx, "evidence/big.jpg")
	assert.False(t, exists, "oversized upload must not leave a partial file")
}

func TestLocalStore_PathTraversal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "../etc/passwd", "/abs/path", "a/../../b"} {
		err := s.Put(ctx, key, strings.NewReader("x"), PutOptions{})
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestLocalStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.Get(context.Background(), "nope.csv")
	assert.True(t, IsNotFound(err))
}

func TestLocalStore_URL(t *testing.T) {
	s := newTestStore(t)

	url, err := s.URL(context.Background(), "evidence/r1/photo.jpg", 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/evidence/r1/photo.jpg", url)
}
