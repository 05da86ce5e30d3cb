package photos

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewStore(t *testing.T) {
	_, err := NewStore("")
	require.Error(t, err)

	rootPath := filepath.Join(t.TempDir(), "photos")
	store, err := NewStore(rootPath)
	require.NoError(t, err)
	require.NotNil(t, store)

	// root dir got created
	stat, err := os.Stat(rootPath)
	require.NoError(t, err)
	assert.True(t, stat.IsDir())
}

func TestStore_SaveOpenRemove(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	publicPath, err := store.Save(ctx, "horse-1", "portrait.JPG", strings.NewReader("photo-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(publicPath, PublicPathPrefix+"/horse-1/"))
	assert.True(t, strings.HasSuffix(publicPath, ".jpg"))

	name := filepath.Base(publicPath)
	file, err := store.Open(ctx, "horse-1", name)
	require.NoError(t, err)
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, "photo-bytes", string(content))

	require.NoError(t, store.Remove(ctx, publicPath))
	_, err = store.Open(ctx, "horse-1", name)
	assert.ErrorIs(t, err, ErrPhotoNotFound)

	// removing again is fine
	require.NoError(t, store.Remove(ctx, publicPath))
}

func TestStore_PathTraversal(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	err = store.Remove(ctx, "/photos/../../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidPhotoURL)

	err = store.Remove(ctx, "/elsewhere/horse-1/photo.jpg")
	assert.ErrorIs(t, err, ErrInvalidPhotoURL)

	_, err = store.Open(ctx, "..", "passwd")
	assert.ErrorIs(t, err, ErrInvalidPhotoURL)
}
