package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStorage(t *testing.T) {
	root := t.TempDir()
	store, err := NewDiskStorage(root, "/files/")
	require.NoError(t, err)

	ctx := context.Background()
	key := PathDocuments + "abc.pdf"

	require.NoError(t, store.Upload(ctx, key, []byte("%PDF-1.4"), "application/pdf"))

	data, err := os.ReadFile(filepath.Join(root, "documents", "abc.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
	assert.Equal(t, "/files/documents/abc.pdf", store.URL(key))

	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key), "deleting twice is fine")

	_, err = os.Stat(filepath.Join(root, "documents", "abc.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStorage_RejectsEscapingKeys(t *testing.T) {
	store, err := NewDiskStorage(t.TempDir(), "/files")
	require.NoError(t, err)

	for _, key := range []string{"", "../secret", "documents/../../x"} {
		assert.Error(t, store.Upload(context.Background(), key, []byte("x"), "text/plain"), key)
	}
}
