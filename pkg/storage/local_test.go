package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(LocalConfig{BasePath: t.TempDir()})
	require.NoError(t, err)
	return s
}

func TestLocalWriteReadRoundTrip(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	content := "attachment payload"
	require.NoError(t, s.Write(ctx, "a1b2.png", strings.NewReader(content), int64(len(content)), "image/png"))

	ok, err := s.Exists(ctx, "a1b2.png")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Read(ctx, "a1b2.png")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestLocalGetURL(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "doc.pdf", strings.NewReader("x"), 1, "application/pdf"))

	url, err := s.GetURL(ctx, "doc.pdf", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/doc.pdf", url)

	_, err = s.GetURL(ctx, "missing.pdf", time.Hour)
	assert.Error(t, err)
}

func TestLocalDelete(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "gone.txt", strings.NewReader("x"), 1, "text/plain"))
	require.NoError(t, s.Delete(ctx, "gone.txt"))

	ok, err := s.Exists(ctx, "gone.txt")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing key is not an error.
	assert.NoError(t, s.Delete(ctx, "gone.txt"))
}

func TestLocalRejectsTraversal(t *testing.T) {
	s := newLocal(t)
	ctx := context.Background()

	err := s.Write(ctx, "../escape.txt", strings.NewReader("x"), 1, "text/plain")
	assert.Error(t, err)

	// Nothing lands outside the base directory.
	_, statErr := os.Stat(filepath.Join(s.BasePath(), "..", "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}
