package testutils

import (
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/speakeasy-api/mergerepo/internal/fs"
	"github.com/stretchr/testify/require"
)

// WriteTree creates every file in files under root. Keys are slash-separated
// relative paths, values the exact file contents.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// ReadTree returns the contents of every regular file under root keyed by
// slash-separated relative path.
func ReadTree(t *testing.T, root string) map[string]string {
	t.Helper()

	files := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(content)
		return nil
	})
	require.NoError(t, err)

	return files
}

// FailingFS wraps a FileSystem and fails any call for which Fail returns a
// non-nil error. Method is the FileSystem method name, e.g. "Open".
type FailingFS struct {
	fs.FileSystem
	Fail func(method, path string) error

	mu    sync.Mutex
	calls []string
}

var _ fs.FileSystem = (*FailingFS)(nil)

func NewFailingFS(fail func(method, path string) error) *FailingFS {
	return &FailingFS{FileSystem: fs.NewFileSystem(), Fail: fail}
}

// FailOnSuffix fails method for every path ending in suffix.
func FailOnSuffix(method, suffix string, err error) func(string, string) error {
	return func(m, path string) error {
		if m == method && strings.HasSuffix(filepath.ToSlash(path), suffix) {
			return err
		}
		return nil
	}
}

// Calls lists "Method path" for every intercepted call in order.
func (f *FailingFS) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FailingFS) check(method, path string) error {
	f.mu.Lock()
	f.calls = append(f.calls, method+" "+path)
	f.mu.Unlock()

	if f.Fail == nil {
		return nil
	}
	return f.Fail(method, path)
}

func (f *FailingFS) Stat(path string) (os.FileInfo, error) {
	if err := f.check("Stat", path); err != nil {
		return nil, err
	}
	return f.FileSystem.Stat(path)
}

func (f *FailingFS) Open(path string) (io.ReadCloser, error) {
	if err := f.check("Open", path); err != nil {
		return nil, err
	}
	return f.FileSystem.Open(path)
}

func (f *FailingFS) MkdirAll(path string, perm os.FileMode) error {
	if err := f.check("MkdirAll", path); err != nil {
		return err
	}
	return f.FileSystem.MkdirAll(path, perm)
}

func (f *FailingFS) Remove(path string) error {
	if err := f.check("Remove", path); err != nil {
		return err
	}
	return f.FileSystem.Remove(path)
}

func (f *FailingFS) RemoveAll(path string) error {
	if err := f.check("RemoveAll", path); err != nil {
		return err
	}
	return f.FileSystem.RemoveAll(path)
}

func (f *FailingFS) Rename(oldPath, newPath string) error {
	if err := f.check("Rename", newPath); err != nil {
		return err
	}
	return f.FileSystem.Rename(oldPath, newPath)
}

func (f *FailingFS) CopyFile(src, dst string) (int64, error) {
	if err := f.check("CopyFile", src); err != nil {
		return 0, err
	}
	return f.FileSystem.CopyFile(src, dst)
}
