package fs

import (
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystem_RoundTrip(t *testing.T) {
	t.Parallel()

	f := NewFileSystem()
	root := t.TempDir()

	require.NoError(t, f.MkdirAll(filepath.Join(root, "a", "b"), 0o755))
	src := filepath.Join(root, "a", "b", "c.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	dst := filepath.Join(root, "copy.txt")
	n, err := f.CopyFile(src, dst)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	rc, err := f.Open(dst)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(data))

	var seen []string
	require.NoError(t, f.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		require.NoError(t, err)
		if !d.IsDir() {
			rel, _ := filepath.Rel(root, path)
			seen = append(seen, filepath.ToSlash(rel))
		}
		return nil
	}))
	assert.ElementsMatch(t, []string{"a/b/c.txt", "copy.txt"}, seen)

	moved := filepath.Join(root, "moved.txt")
	require.NoError(t, f.Rename(dst, moved))
	_, err = f.Stat(dst)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, f.Remove(moved))
	require.NoError(t, f.RemoveAll(filepath.Join(root, "a")))
	_, err = f.Stat(filepath.Join(root, "a"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOSFileSystem_MkdirTemp(t *testing.T) {
	t.Parallel()

	f := NewFileSystem()
	root := t.TempDir()

	dir, err := f.MkdirTemp(root, ".dest-*")
	require.NoError(t, err)
	assert.Equal(t, root, filepath.Dir(dir))

	info, err := f.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, f.Chmod(dir, 0o750))
	info, err = f.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())
}

func TestOSFileSystem_EvalSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on windows")
	}
	t.Parallel()

	f := NewFileSystem()
	target, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	link := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(target, link))

	resolved, err := f.EvalSymlinks(link)
	require.NoError(t, err)
	assert.Equal(t, target, resolved)

	_, err = f.EvalSymlinks(filepath.Join(link, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
