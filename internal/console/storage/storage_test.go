package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSize(t *testing.T) {
	assert.NoError(t, CheckSize(MaxUploadSize))
	assert.ErrorIs(t, CheckSize(MaxUploadSize+1), ErrTooLarge)
}

func TestCheckProfileImage(t *testing.T) {
	for _, ct := range []string{"image/jpeg", "image/png", "image/gif", "image/webp"} {
		assert.NoError(t, CheckProfileImage(ct, 1024), ct)
	}
	assert.ErrorIs(t, CheckProfileImage("image/bmp", 1024), ErrUnsupportedProfile)
	assert.ErrorIs(t, CheckProfileImage("application/pdf", 1024), ErrUnsupportedProfile)
	assert.ErrorIs(t, CheckProfileImage("image/png", MaxUploadSize+1), ErrTooLarge)
}

func TestObjectKeyShardsAndUniquifies(t *testing.T) {
	k1 := ObjectKey("hardware", "spec.pdf")
	k2 := ObjectKey("hardware", "spec.pdf")

	assert.True(t, strings.HasPrefix(k1, "hardware/"))
	assert.True(t, strings.HasSuffix(k1, "_spec.pdf"))
	assert.NotEqual(t, k1, k2)
}

func TestLocalStoreSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/uploads")
	ctx := context.Background()

	content := "사무실 이전 메모"
	key := ObjectKey("hardware", "notes.txt")
	url, err := store.Save(ctx, key, strings.NewReader(content), int64(len(content)), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/"+key, url)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	require.NoError(t, store.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is a no-op
	assert.NoError(t, store.Delete(ctx, key))
}

func TestLocalStoreRejectsOversize(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/uploads")
	_, err := store.Save(context.Background(), "big.bin", strings.NewReader("x"), MaxUploadSize+1, "application/octet-stream")
	assert.ErrorIs(t, err, ErrTooLarge)
}
