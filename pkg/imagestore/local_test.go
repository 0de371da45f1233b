package imagestore

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_UploadAndDestroy(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	payload := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	asset, err := store.UploadBase64(ctx, payload, "avatars")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(asset.PublicID, "avatars/"))
	assert.Equal(t, "/uploads/"+asset.PublicID+".jpg", asset.URL)

	onDisk := filepath.Join(dir, filepath.FromSlash(asset.PublicID)+".jpg")
	content, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(content))

	require.NoError(t, store.Destroy(ctx, asset.PublicID))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	// already gone
	assert.NoError(t, store.Destroy(ctx, asset.PublicID))
}

func TestLocalStore_AcceptsDataURI(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png"))
	_, err = store.UploadBase64(context.Background(), uri, "products")
	assert.NoError(t, err)
}

func TestLocalStore_Rejects(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.UploadBase64(ctx, "  ", "avatars")
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = store.UploadBase64(ctx, "!!not base64!!", "avatars")
	assert.Error(t, err)

	assert.Error(t, store.Destroy(ctx, "../../etc/passwd"))
}

func TestDataURI(t *testing.T) {
	assert.Equal(t, "data:image/jpeg;base64,abc", dataURI("abc"))
	assert.Equal(t, "data:image/png;base64,abc", dataURI("data:image/png;base64,abc"))
	assert.Equal(t, "abc", rawBase64("data:image/png;base64,abc"))
}
