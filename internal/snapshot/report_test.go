package snapshot_test

import (
	"bytes"
	"testing"

	"github.com/speakeasy-api/mergerepo/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReport(t *testing.T) {
	r := snapshot.NewReport(changeSet([]string{"x", "a"}, []string{"z"}, nil))

	assert.Equal(t, []string{"a", "x"}, r.Removed)
	assert.Equal(t, []string{"z"}, r.Added)
	assert.Equal(t, []string{}, r.Modified)
	assert.False(t, r.Materialized)
}

func TestReport_RenderText(t *testing.T) {
	r := snapshot.NewReport(changeSet([]string{"x.txt"}, []string{"z.txt", "dir/a.txt"}, []string{"y.txt"}))

	var buf bytes.Buffer
	require.NoError(t, r.RenderText(&buf))

	out := buf.String()
	assert.Contains(t, out, "Files removed in newer version: 1\n    x.txt\n")
	assert.Contains(t, out, "Files added in newer version: 2\n    dir/a.txt\n    z.txt\n")
	assert.Contains(t, out, "Files modified in newer version: 1\n    y.txt\n")
	assert.NotContains(t, out, "Copied")
	assert.NotContains(t, out, "already absent")

	assert.Less(t, bytes.Index(buf.Bytes(), []byte("removed")), bytes.Index(buf.Bytes(), []byte("added")))
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("added")), bytes.Index(buf.Bytes(), []byte("modified")))
}

func TestReport_RenderTextMaterialized(t *testing.T) {
	r := snapshot.NewReport(changeSet(nil, nil, nil))
	r.Materialized = true
	r.Destination = "/work/merged"
	r.BytesCopied = 2048
	r.MissingOnRemove = []string{"ghost.txt"}

	var buf bytes.Buffer
	require.NoError(t, r.RenderText(&buf))

	out := buf.String()
	assert.Contains(t, out, "Files removed in newer version: 0\n")
	assert.Contains(t, out, "Removed files already absent from the previous version copy: 1\n    ghost.txt\n")
	assert.Contains(t, out, "Copied 2.0 kB into /work/merged")
}
