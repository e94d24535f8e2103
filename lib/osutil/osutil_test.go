package osutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "artifact.json")

	err := WriteFileAtomic(path, []byte("first"))
	require.NoError(t, err)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "first", string(contents))

	// overwriting replaces the file wholesale
	err = WriteFileAtomic(path, []byte("second"))
	require.NoError(t, err)

	contents, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(contents))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestWriteFileAtomicCreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "artifact.csv")

	err := WriteFileAtomic(path, []byte("a;b;c\n"))
	require.NoError(t, err)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "a;b;c\n", string(contents))
}
