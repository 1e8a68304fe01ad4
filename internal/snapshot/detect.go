package snapshot

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/speakeasy-api/mergerepo/internal/fs"
	"golang.org/x/sync/errgroup"
)

// DetectModified returns the subset of common whose contents differ between
// oldRoot and newRoot, ignoring line-ending style. Any unreadable file fails
// the whole detection.
func DetectModified(ctx context.Context, fsys fs.FileSystem, common PathSet, oldRoot, newRoot string, workers int) (PathSet, error) {
	modified := NewPathSet()
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for _, rel := range common.Sorted() {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			equal, err := ContentEqual(fsys, filepath.Join(oldRoot, filepath.FromSlash(rel)), filepath.Join(newRoot, filepath.FromSlash(rel)))
			if err != nil {
				return ioFailure(OpCompare, rel, err)
			}

			if !equal {
				mu.Lock()
				modified.Add(rel)
				mu.Unlock()
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return modified, nil
}

// ContentEqual compares two files line by line, treating CRLF, CR and LF
// as the same terminator. All other bytes must match exactly.
func ContentEqual(fsys fs.FileSystem, a, b string) (bool, error) {
	fa, err := fsys.Open(a)
	if err != nil {
		return false, err
	}
	defer fa.Close()

	fb, err := fsys.Open(b)
	if err != nil {
		return false, err
	}
	defer fb.Close()

	return equalIgnoreEOL(fa, fb)
}
