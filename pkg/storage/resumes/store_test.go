package resumes

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveResolveRemove(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save(context.Background(), "My Resume.PDF", []byte("%PDF-1.4"))
	require.NoError(t, err)
	// Client filenames never reach the filesystem.
	assert.NotContains(t, path, "My Resume")
	assert.Equal(t, ".pdf", filepath.Ext(path))

	full, err := store.Resolve(path)
	require.NoError(t, err)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)

	require.NoError(t, store.Remove(context.Background(), path))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))
}

func TestSaveRejectsUnsupportedTypes(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"resume.exe", "resume.txt", "resume", "resume.pdf.sh"} {
		_, err := store.Save(context.Background(), name, []byte("x"))
		assert.ErrorIs(t, err, ErrUnsupportedType, "filename %q", name)
	}
}

func TestResolveRefusesEscapingPaths(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	for _, path := range []string{"", "../secrets.pdf", "a/b.pdf", "/etc/passwd"} {
		_, err := store.Resolve(path)
		assert.Error(t, err, "path %q", path)
	}
}
