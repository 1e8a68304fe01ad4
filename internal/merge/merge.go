// Package merge runs the snapshot pipeline end to end: validate both roots,
// catalog them, reconcile, detect modifications and (for Merge) materialize.
package merge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/speakeasy-api/mergerepo/internal/env"
	"github.com/speakeasy-api/mergerepo/internal/fs"
	"github.com/speakeasy-api/mergerepo/internal/locks"
	"github.com/speakeasy-api/mergerepo/internal/log"
	"github.com/speakeasy-api/mergerepo/internal/snapshot"
	"github.com/speakeasy-api/mergerepo/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const lockRetryDelay = 100 * time.Millisecond

type Options struct {
	PreviousRoot    string
	NewerRoot       string
	DestinationRoot string

	// Excludes are gitignore-style patterns skipped by both catalog walks.
	Excludes []string
	Workers  int
	// Atomic stages the merged tree next to the destination and renames it
	// into place on success.
	Atomic bool
	// Patch attaches unified diffs of modified files to the report.
	Patch bool

	LockTimeout time.Duration
	// LockDir overrides where destination lock files live.
	LockDir string

	FS fs.FileSystem
}

func (o Options) fileSystem() fs.FileSystem {
	if o.FS == nil {
		return fs.NewFileSystem()
	}
	return o.FS
}

// Diff computes the change report between the two snapshots without
// touching the filesystem.
func Diff(ctx context.Context, opts Options) (snapshot.Report, error) {
	opts, err := resolve(opts, false)
	if err != nil {
		return snapshot.Report{}, err
	}

	changes, err := detect(ctx, opts)
	if err != nil {
		return snapshot.Report{}, err
	}

	report := snapshot.NewReport(changes)
	if opts.Patch {
		if report.Patches, err = patches(opts, report.Modified); err != nil {
			return snapshot.Report{}, err
		}
	}

	return report, nil
}

// Merge computes the change report and materializes the merged tree at
// opts.DestinationRoot, replacing anything already there.
func Merge(ctx context.Context, opts Options) (snapshot.Report, error) {
	opts, err := resolve(opts, true)
	if err != nil {
		return snapshot.Report{}, err
	}

	changes, err := detect(ctx, opts)
	if err != nil {
		return snapshot.Report{}, err
	}

	report := snapshot.NewReport(changes)
	if opts.Patch {
		if report.Patches, err = patches(opts, report.Modified); err != nil {
			return snapshot.Report{}, err
		}
	}

	l := log.From(ctx)

	if !env.IsLockDisabled() {
		mu := locks.ForDestination(opts.DestinationRoot, locks.Opts{Dir: opts.LockDir})
		if err := mu.Acquire(ctx, opts.LockTimeout, lockRetryDelay); err != nil {
			return snapshot.Report{}, err
		}
		defer func() {
			if err := mu.Unlock(); err != nil {
				l.Warn("failed to release destination lock", zap.String("path", mu.Path()), zap.Error(err))
			}
		}()
	}

	l.Info("Merging from newer to older repository...")

	m := &snapshot.Materializer{
		FS:      opts.fileSystem(),
		Workers: opts.Workers,
		Staged:  opts.Atomic,
	}
	result, err := m.Materialize(ctx, opts.PreviousRoot, opts.NewerRoot, opts.DestinationRoot, changes)
	if err != nil {
		return snapshot.Report{}, err
	}

	report.MissingOnRemove = result.MissingOnRemove
	report.Materialized = true
	report.Destination = opts.DestinationRoot
	report.BytesCopied = result.BytesCopied

	return report, nil
}

// resolve makes every root absolute and checks the roots before anything
// is read or written.
func resolve(opts Options, withDestination bool) (Options, error) {
	opts.PreviousRoot = utils.SanitizeFilePath(opts.PreviousRoot)
	opts.NewerRoot = utils.SanitizeFilePath(opts.NewerRoot)

	fsys := opts.fileSystem()
	if err := snapshot.CheckRoot(fsys, "previous version", opts.PreviousRoot); err != nil {
		return opts, err
	}
	if err := snapshot.CheckRoot(fsys, "newer version", opts.NewerRoot); err != nil {
		return opts, err
	}

	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = 30 * time.Second
	}

	if !withDestination {
		return opts, nil
	}

	if opts.DestinationRoot == "" {
		return opts, &snapshot.UsageError{Msg: "a destination directory is required"}
	}
	opts.DestinationRoot = utils.SanitizeFilePath(opts.DestinationRoot)

	dest, err := realPath(fsys, opts.DestinationRoot)
	if err != nil {
		return opts, err
	}

	for _, input := range []struct{ role, root string }{
		{"previous version", opts.PreviousRoot},
		{"newer version", opts.NewerRoot},
	} {
		root, err := realPath(fsys, input.root)
		if err != nil {
			return opts, err
		}
		if utils.IsWithin(root, dest) || utils.IsWithin(dest, root) {
			return opts, &snapshot.UsageError{Msg: fmt.Sprintf("the destination %s overlaps the %s %s", opts.DestinationRoot, input.role, input.root)}
		}
	}

	return opts, nil
}

// realPath resolves symlinks in path. The destination may not exist yet, so
// the deepest existing ancestor is resolved and the rest is joined back on.
func realPath(fsys fs.FileSystem, path string) (string, error) {
	var tail []string
	current := path

	for {
		resolved, err := fsys.EvalSymlinks(current)
		if err == nil {
			return filepath.Join(append([]string{resolved}, tail...)...), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", &snapshot.IOFailure{Op: snapshot.OpWalk, Path: current, Err: err}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return path, nil
		}
		tail = append([]string{filepath.Base(current)}, tail...)
		current = parent
	}
}

func detect(ctx context.Context, opts Options) (snapshot.ChangeSet, error) {
	l := log.From(ctx)
	fsys := opts.fileSystem()
	excluder := snapshot.NewExcluder(opts.Excludes)

	var oldPaths, newPaths snapshot.PathSet

	l.Info("Reading files from older version...")
	l.Info("Reading files from newer version...")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		oldPaths, err = snapshot.Catalog(gctx, fsys, opts.PreviousRoot, excluder)
		return err
	})
	g.Go(func() error {
		var err error
		newPaths, err = snapshot.Catalog(gctx, fsys, opts.NewerRoot, excluder)
		return err
	})
	if err := g.Wait(); err != nil {
		return snapshot.ChangeSet{}, err
	}

	r := snapshot.Reconcile(oldPaths, newPaths)

	l.Infof("Comparing %d files present in both versions...", r.Common.Len())
	modified, err := snapshot.DetectModified(ctx, fsys, r.Common, opts.PreviousRoot, opts.NewerRoot, opts.Workers)
	if err != nil {
		return snapshot.ChangeSet{}, err
	}

	return snapshot.ChangeSet{
		Removed:  r.Removed,
		Added:    r.Added,
		Modified: modified,
	}, nil
}

func patches(opts Options, modified []string) ([]snapshot.Patch, error) {
	fsys := opts.fileSystem()
	out := make([]snapshot.Patch, 0, len(modified))

	for _, rel := range modified {
		p, err := snapshot.UnifiedDiff(fsys, opts.PreviousRoot, opts.NewerRoot, rel)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, nil
}
