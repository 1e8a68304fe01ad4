package snapshot

// Reconciliation partitions the union of two catalogs. Removed and Added are
// the two halves of the symmetric difference; Common is the intersection.
type Reconciliation struct {
	Removed PathSet
	Added   PathSet
	Common  PathSet
}

func Reconcile(oldPaths, newPaths PathSet) Reconciliation {
	r := Reconciliation{
		Removed: NewPathSet(),
		Added:   NewPathSet(),
		Common:  NewPathSet(),
	}

	for p := range oldPaths {
		if newPaths.Contains(p) {
			r.Common.Add(p)
		} else {
			r.Removed.Add(p)
		}
	}

	for p := range newPaths {
		if !oldPaths.Contains(p) {
			r.Added.Add(p)
		}
	}

	return r
}

// ChangeSet drives materialization. Modified is a subset of the common
// paths; anything common but not modified is left as the older copy.
type ChangeSet struct {
	Removed  PathSet
	Added    PathSet
	Modified PathSet
}

func (c ChangeSet) Empty() bool {
	return c.Removed.Len() == 0 && c.Added.Len() == 0 && c.Modified.Len() == 0
}
