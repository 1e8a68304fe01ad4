package snapshot

import (
	"slices"

	"github.com/samber/lo"
)

// PathSet is a hashed set of slash-separated relative paths.
type PathSet map[string]struct{}

func NewPathSet(paths ...string) PathSet {
	return PathSet(lo.SliceToMap(paths, func(p string) (string, struct{}) {
		return p, struct{}{}
	}))
}

func (s PathSet) Add(path string) {
	s[path] = struct{}{}
}

func (s PathSet) Contains(path string) bool {
	_, ok := s[path]
	return ok
}

func (s PathSet) Len() int {
	return len(s)
}

// Sorted returns the paths in lexicographic order.
func (s PathSet) Sorted() []string {
	paths := lo.Keys(s)
	slices.Sort(paths)
	return paths
}

func (s PathSet) Union(other PathSet) PathSet {
	return lo.Assign(s, other)
}
