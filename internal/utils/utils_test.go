package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/speakeasy-api/mergerepo/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.sh")
	dst := filepath.Join(dir, "dst.sh")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\r\necho hi\r\n"), 0o755))

	n, err := utils.CopyFile(src, dst)
	require.NoError(t, err)
	assert.EqualValues(t, 20, n)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\r\necho hi\r\n", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestCopyFile_MissingSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := utils.CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIsWithin(t *testing.T) {
	t.Parallel()

	sep := string(filepath.Separator)
	root := sep + filepath.Join("work", "repo")

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "same path", path: root, want: true},
		{name: "nested", path: filepath.Join(root, "a", "b"), want: true},
		{name: "sibling with shared prefix", path: root + "-merged", want: false},
		{name: "parent", path: filepath.Dir(root), want: false},
		{name: "dotdot-prefixed name", path: filepath.Join(root, "..merged"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.IsWithin(root, tt.path))
		})
	}
}

func TestCapitalizeFirst(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", utils.CapitalizeFirst(""))
	assert.Equal(t, "Done merging", utils.CapitalizeFirst("done merging"))
}
