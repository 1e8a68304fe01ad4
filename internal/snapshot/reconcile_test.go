package snapshot_test

import (
	"testing"

	"github.com/speakeasy-api/mergerepo/internal/snapshot"
	"github.com/stretchr/testify/assert"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name        string
		old         []string
		new         []string
		wantRemoved []string
		wantAdded   []string
		wantCommon  []string
	}{
		{
			name:        "overlapping",
			old:         []string{"x", "y"},
			new:         []string{"y", "z"},
			wantRemoved: []string{"x"},
			wantAdded:   []string{"z"},
			wantCommon:  []string{"y"},
		},
		{
			name:        "identical",
			old:         []string{"a", "b/c"},
			new:         []string{"a", "b/c"},
			wantRemoved: []string{},
			wantAdded:   []string{},
			wantCommon:  []string{"a", "b/c"},
		},
		{
			name:        "disjoint",
			old:         []string{"a"},
			new:         []string{"b"},
			wantRemoved: []string{"a"},
			wantAdded:   []string{"b"},
			wantCommon:  []string{},
		},
		{
			name:        "empty old",
			new:         []string{"a", "b"},
			wantRemoved: []string{},
			wantAdded:   []string{"a", "b"},
			wantCommon:  []string{},
		},
		{
			name:        "both empty",
			wantRemoved: []string{},
			wantAdded:   []string{},
			wantCommon:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldSet, newSet := snapshot.NewPathSet(tt.old...), snapshot.NewPathSet(tt.new...)

			r := snapshot.Reconcile(oldSet, newSet)

			assert.Equal(t, tt.wantRemoved, r.Removed.Sorted())
			assert.Equal(t, tt.wantAdded, r.Added.Sorted())
			assert.Equal(t, tt.wantCommon, r.Common.Sorted())

			// The three sets partition the union.
			union := oldSet.Union(newSet)
			assert.Equal(t, union.Len(), r.Removed.Len()+r.Added.Len()+r.Common.Len())
			for p := range union {
				n := 0
				for _, s := range []snapshot.PathSet{r.Removed, r.Added, r.Common} {
					if s.Contains(p) {
						n++
					}
				}
				assert.Equal(t, 1, n, p)
			}
		})
	}
}

func TestChangeSet_Empty(t *testing.T) {
	empty := snapshot.ChangeSet{
		Removed:  snapshot.NewPathSet(),
		Added:    snapshot.NewPathSet(),
		Modified: snapshot.NewPathSet(),
	}
	assert.True(t, empty.Empty())

	empty.Modified.Add("a")
	assert.False(t, empty.Empty())
}
