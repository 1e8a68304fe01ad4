package snapshot

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/speakeasy-api/mergerepo/internal/fs"
)

// CheckRoot verifies that root exists and is a directory.
func CheckRoot(fsys fs.FileSystem, role, root string) error {
	info, err := fsys.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &NotFoundError{Role: role, Path: root}
		}
		return ioFailure(OpWalk, root, err)
	}

	if !info.IsDir() {
		return &NotADirectoryError{Role: role, Path: root}
	}

	return nil
}

// Catalog returns the relative path of every regular file under root,
// skipping whatever the excluder matches. Symlinks resolving to regular
// files count as files; symlinked directories below root are not followed.
// A symlinked root is walked at its target.
func Catalog(ctx context.Context, fsys fs.FileSystem, root string, excluder *Excluder) (PathSet, error) {
	root, err := walkRoot(fsys, root)
	if err != nil {
		return nil, err
	}

	paths := NewPathSet()

	err = fsys.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, relErr := relativePath(root, path)
		if relErr != nil {
			return ioFailure(OpWalk, path, relErr)
		}

		if err != nil {
			return ioFailure(OpWalk, rel, err)
		}

		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if excluder.Excluded(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !isFile(fsys, path, d) || excluder.Excluded(rel, false) {
			return nil
		}

		paths.Add(rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}

// walkRoot checks root and resolves it through any symlinks, since WalkDir
// does not descend into a root that is itself a link.
func walkRoot(fsys fs.FileSystem, root string) (string, error) {
	if err := CheckRoot(fsys, "", root); err != nil {
		return "", err
	}

	resolved, err := fsys.EvalSymlinks(root)
	if err != nil {
		return "", ioFailure(OpWalk, root, err)
	}

	return resolved, nil
}

func relativePath(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

func isFile(fsys fs.FileSystem, path string, d iofs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}

	if d.Type()&iofs.ModeSymlink == 0 {
		return false
	}

	info, err := fsys.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
