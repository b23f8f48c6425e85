package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	ref, err := s.Save(context.Background(), "cover.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/static/uploads/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	path := filepath.Join(dir, filepath.Base(ref))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Delete(context.Background(), ref))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// 2回目も、外部URLもエラーにしない
	require.NoError(t, s.Delete(context.Background(), ref))
	require.NoError(t, s.Delete(context.Background(), "https://example.com/a.png"))
}

func TestLocalStore_RejectsNonImage(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "evil.exe", strings.NewReader("x"))
	require.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestLocalStore_SaveRemovesFileOnWriteError(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "cover.png", io.MultiReader(strings.NewReader("partial"), failingReader{}))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStore_SaveClosesFileBeforeReturning(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	body := strings.Repeat("x", 1<<20)
	ref, err := s.Save(context.Background(), "big.jpg", strings.NewReader(body))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(ref)))
	require.NoError(t, err)
	assert.Len(t, data, len(body))

	// Close済みなのですぐ消せる
	require.NoError(t, s.Delete(context.Background(), ref))
}

func TestCloudinaryPublicID_DropsUppercaseExtension(t *testing.T) {
	for _, in := range []string{"cover.JPG", "cover.jpg", "cover.Png"} {
		id := cloudinaryPublicID(uniqueName(in))
		assert.Empty(t, filepath.Ext(id), in)
		assert.NotEmpty(t, id, in)
	}
}

func TestPublicIDFromURL(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1712345678/bookex/books/abc.jpg": "bookex/books/abc",
		"https://res.cloudinary.com/demo/image/upload/bookex/books/abc.png":             "bookex/books/abc",
		"/static/uploads/abc.png": "",
	}
	for in, want := range cases {
		assert.Equal(t, want, PublicIDFromURL(in), in)
	}
}

func TestNewCloudinaryStore_RequiresURL(t *testing.T) {
	_, err := NewCloudinaryStore("")
	require.Error(t, err)
}
