// Package snapshot implements the repository-snapshot merge pipeline.
//
// Two snapshots of the same logical file tree are catalogued, reconciled into
// removed, added and common paths, compared for line-ending-insensitive
// content changes and finally materialized into a destination tree that
// starts as the older snapshot with the newer content applied on top:
//
//	Catalog (old) ─┐
//	               ├─> Reconcile ─> DetectModified ─> Materializer
//	Catalog (new) ─┘
//
// Relative paths are always slash-separated regardless of platform.
package snapshot
