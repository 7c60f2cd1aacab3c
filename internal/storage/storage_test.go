package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeFilename(t *testing.T) {
	cases := map[string]string{
		"photo.png":             "photo.png",
		"my photo.JPG":          "my_photo.JPG",
		"../../etc/passwd":      "etc_passwd",
		`C:\Users\ana\pic.webp`: "C_Users_ana_pic.webp",
		"équipe.gif":            "quipe.gif",
		"..hidden":              "hidden",
	}
	for in, want := range cases {
		assert.Equal(t, want, SafeFilename(in), in)
	}
}

func TestImageNamePrefixesCode(t *testing.T) {
	assert.Equal(t, "EQ-001_front_view.png", ImageName("EQ-001", "front view.png"))
	assert.Equal(t, "EQ-001_pic.jpg", ImageName("EQ-001", `C:\tmp\pic.jpg`))
}

func TestAllowedExtension(t *testing.T) {
	allowed := []string{"png", "jpg", "jpeg", "gif", "webp"}
	assert.True(t, AllowedExtension("a.PNG", allowed))
	assert.True(t, AllowedExtension("a.webp", allowed))
	assert.False(t, AllowedExtension("a.exe", allowed))
	assert.False(t, AllowedExtension("png", allowed))
	assert.Equal(t, "image/jpeg", ContentType("x.jpeg"))
	assert.Equal(t, "application/octet-stream", ContentType("x.bin"))
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "EQ-1_pic.png", strings.NewReader("img"), 3, "image/png"))

	rc, size, err := store.Open(ctx, "EQ-1_pic.png")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "img", string(body))
	assert.Equal(t, int64(3), size)

	require.NoError(t, store.Delete(ctx, "EQ-1_pic.png"))
	_, err = os.Stat(filepath.Join(dir, "EQ-1_pic.png"))
	assert.True(t, os.IsNotExist(err))

	// deleting again is fine, opening is not
	require.NoError(t, store.Delete(ctx, "EQ-1_pic.png"))
	_, _, err = store.Open(ctx, "EQ-1_pic.png")
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = store.Save(context.Background(), "../escape.png", strings.NewReader("x"), 1, "image/png")
	assert.Error(t, err)
	_, _, err = store.Open(context.Background(), "../escape.png")
	assert.ErrorIs(t, err, ErrImageNotFound)
}
