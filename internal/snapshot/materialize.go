package snapshot

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"github.com/speakeasy-api/mergerepo/internal/fs"
	"github.com/speakeasy-api/mergerepo/internal/log"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Materializer builds the merged tree. The destination is always rebuilt
// from scratch: any existing directory at destRoot is replaced.
type Materializer struct {
	FS      fs.FileSystem
	Workers int
	// Staged builds the tree in a temporary sibling of the destination and
	// renames it into place only once every step succeeded.
	Staged bool
}

// MaterializeResult carries the side observations of a materialization.
type MaterializeResult struct {
	// MissingOnRemove lists removed paths that were already absent from the
	// baseline copy, which means the catalog and the copy disagreed.
	MissingOnRemove []string
	BytesCopied     int64
}

func (m *Materializer) Materialize(ctx context.Context, oldRoot, newRoot, destRoot string, changes ChangeSet) (result MaterializeResult, err error) {
	fsys := m.FS
	if fsys == nil {
		fsys = fs.NewFileSystem()
	}

	build := destRoot
	if m.Staged {
		build, err = m.stage(fsys, destRoot)
		if err != nil {
			return result, err
		}
		defer func() {
			if err == nil {
				return
			}
			if cleanupErr := fsys.RemoveAll(build); cleanupErr != nil {
				err = multierror.Append(err, fmt.Errorf("failed to clean up staging directory %s: %w", build, cleanupErr))
			}
		}()
	} else {
		if err := wipe(ctx, fsys, destRoot); err != nil {
			return result, err
		}
	}

	var copied atomic.Int64

	if err := m.copyTree(ctx, fsys, oldRoot, build, &copied); err != nil {
		return result, err
	}

	missing, err := m.removeAll(ctx, fsys, build, changes.Removed)
	if err != nil {
		return result, err
	}
	result.MissingOnRemove = missing

	if err := m.copyAll(ctx, fsys, newRoot, build, changes.Added, OpCopy, &copied); err != nil {
		return result, err
	}

	if err := m.copyAll(ctx, fsys, newRoot, build, changes.Modified, OpReplace, &copied); err != nil {
		return result, err
	}

	if m.Staged {
		if err := commit(ctx, fsys, build, destRoot); err != nil {
			return result, err
		}
	}

	result.BytesCopied = copied.Load()
	return result, nil
}

func (m *Materializer) stage(fsys fs.FileSystem, destRoot string) (string, error) {
	parent := filepath.Dir(destRoot)
	if err := fsys.MkdirAll(parent, 0o755); err != nil {
		return "", ioFailure(OpStage, parent, err)
	}

	dir, err := fsys.MkdirTemp(parent, "."+filepath.Base(destRoot)+".mergerepo-*")
	if err != nil {
		return "", ioFailure(OpStage, parent, err)
	}

	return dir, nil
}

func wipe(ctx context.Context, fsys fs.FileSystem, destRoot string) error {
	if _, err := fsys.Stat(destRoot); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return ioFailure(OpWipe, destRoot, err)
	}

	log.From(ctx).Info("Cleaning any previous merged repositories...")
	if err := fsys.RemoveAll(destRoot); err != nil {
		return ioFailure(OpWipe, destRoot, err)
	}

	return nil
}

// commit swaps the staged tree into place. An existing destination is moved
// aside first and put back if the final rename fails.
func commit(ctx context.Context, fsys fs.FileSystem, staged, destRoot string) error {
	aside := ""
	if _, err := fsys.Stat(destRoot); err == nil {
		log.From(ctx).Info("Cleaning any previous merged repositories...")
		aside = staged + ".previous"
		if err := fsys.Rename(destRoot, aside); err != nil {
			return ioFailure(OpCommit, destRoot, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return ioFailure(OpCommit, destRoot, err)
	}

	if err := fsys.Rename(staged, destRoot); err != nil {
		var result error = ioFailure(OpCommit, destRoot, err)
		if aside != "" {
			if restoreErr := fsys.Rename(aside, destRoot); restoreErr != nil {
				result = multierror.Append(result, fmt.Errorf("failed to restore previous destination from %s: %w", aside, restoreErr))
			}
		}
		return result
	}

	if aside != "" {
		if err := fsys.RemoveAll(aside); err != nil {
			log.From(ctx).Warn("failed to remove previous destination", zap.String("path", aside), zap.Error(err))
		}
	}

	return nil
}

// copyTree copies src into dst in its entirety, excluded directories included.
func (m *Materializer) copyTree(ctx context.Context, fsys fs.FileSystem, src, dst string, copied *atomic.Int64) error {
	l := log.From(ctx)

	src, err := walkRoot(fsys, src)
	if err != nil {
		return err
	}

	return fsys.WalkDir(src, func(path string, d iofs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, relErr := relativePath(src, path)
		if relErr != nil {
			return ioFailure(OpCopy, path, relErr)
		}
		if err != nil {
			return ioFailure(OpCopy, rel, err)
		}

		target := filepath.Join(dst, filepath.FromSlash(rel))

		if d.IsDir() {
			perm := os.FileMode(0o755)
			if info, err := d.Info(); err == nil {
				perm = info.Mode().Perm() | 0o700
			}
			if err := fsys.MkdirAll(target, perm); err != nil {
				return ioFailure(OpCopy, rel, err)
			}
			// The root may predate the walk (a staging directory), so its mode is set explicitly
			if rel == "." {
				if err := fsys.Chmod(target, perm); err != nil {
					return ioFailure(OpCopy, rel, err)
				}
			}
			return nil
		}

		if !isFile(fsys, path, d) {
			l.WithAssociatedFile(rel).Warn("skipping entry that is not a regular file", zap.String("path", rel))
			return nil
		}

		n, err := fsys.CopyFile(path, target)
		if err != nil {
			return ioFailure(OpCopy, rel, err)
		}
		copied.Add(n)

		return nil
	})
}

func (m *Materializer) removeAll(ctx context.Context, fsys fs.FileSystem, root string, removed PathSet) ([]string, error) {
	l := log.From(ctx)
	missing := []string{}

	for _, rel := range removed.Sorted() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		target := filepath.Join(root, filepath.FromSlash(rel))
		if err := fsys.Remove(target); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				l.WithAssociatedFile(rel).Warn("removed path was already absent from the baseline copy", zap.String("path", rel))
				missing = append(missing, rel)
				continue
			}
			return nil, ioFailure(OpDelete, rel, err)
		}

		if err := pruneEmptyParents(fsys, root, filepath.Dir(target)); err != nil {
			return nil, ioFailure(OpDelete, rel, err)
		}
	}

	return missing, nil
}

// pruneEmptyParents removes dir and its ancestors below root for as long as
// they are empty, so a directory that only held removed files disappears
// along with them.
func pruneEmptyParents(fsys fs.FileSystem, root, dir string) error {
	for dir != root && len(dir) > len(root) {
		empty, err := isEmptyDir(fsys, dir)
		if err != nil || !empty {
			return err
		}
		if err := fsys.Remove(dir); err != nil {
			return err
		}
		dir = filepath.Dir(dir)
	}

	return nil
}

func isEmptyDir(fsys fs.FileSystem, dir string) (bool, error) {
	empty := true
	err := fsys.WalkDir(dir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		empty = false
		return filepath.SkipAll
	})

	return empty, err
}

// copyAll copies every path from srcRoot to dstRoot, replacing whatever is
// already there. Paths are independent of each other so they are copied
// concurrently; the first failure cancels the rest.
func (m *Materializer) copyAll(ctx context.Context, fsys fs.FileSystem, srcRoot, dstRoot string, paths PathSet, op Op, copied *atomic.Int64) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(m.Workers, 1))

	for _, rel := range paths.Sorted() {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			n, err := replaceFile(fsys, filepath.Join(srcRoot, filepath.FromSlash(rel)), filepath.Join(dstRoot, filepath.FromSlash(rel)))
			if err != nil {
				return ioFailure(op, rel, err)
			}
			copied.Add(n)

			return nil
		})
	}

	return g.Wait()
}

func replaceFile(fsys fs.FileSystem, src, dst string) (int64, error) {
	if err := fsys.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}

	if err := fsys.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return 0, err
	}

	return fsys.CopyFile(src, dst)
}
