package fs

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/speakeasy-api/mergerepo/internal/utils"
)

// FileSystem is the set of filesystem primitives the snapshot pipeline is
// built on. All paths are native, absolute paths.
type FileSystem interface {
	Stat(path string) (os.FileInfo, error)
	EvalSymlinks(path string) (string, error)
	Open(path string) (io.ReadCloser, error)
	WalkDir(root string, fn fs.WalkDirFunc) error
	MkdirAll(path string, perm os.FileMode) error
	Chmod(path string, mode os.FileMode) error
	MkdirTemp(dir, pattern string) (string, error)
	Remove(path string) error
	RemoveAll(path string) error
	Rename(oldPath, newPath string) error
	CopyFile(src, dst string) (int64, error)
}

// OSFileSystem implements FileSystem on top of the os package.
type OSFileSystem struct{}

var _ FileSystem = (*OSFileSystem)(nil)

func NewFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (f *OSFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (f *OSFileSystem) EvalSymlinks(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

func (f *OSFileSystem) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (f *OSFileSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

func (f *OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (f *OSFileSystem) Chmod(path string, mode os.FileMode) error {
	return os.Chmod(path, mode)
}

func (f *OSFileSystem) MkdirTemp(dir, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

func (f *OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}

func (f *OSFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

func (f *OSFileSystem) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

func (f *OSFileSystem) CopyFile(src, dst string) (int64, error) {
	return utils.CopyFile(src, dst)
}
