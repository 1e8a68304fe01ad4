package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/speakeasy-api/mergerepo/internal/charm/styles"
	"github.com/speakeasy-api/mergerepo/internal/fs"
)

const binarySniffLen = 8192

// Patch is a unified diff preview of one modified file.
type Patch struct {
	Path    string `json:"path" yaml:"path"`
	Binary  bool   `json:"binary,omitempty" yaml:"binary,omitempty"`
	Diff    string `json:"diff,omitempty" yaml:"diff,omitempty"`
	Added   int    `json:"linesAdded" yaml:"linesAdded"`
	Removed int    `json:"linesRemoved" yaml:"linesRemoved"`
}

// UnifiedDiff renders the change to rel between the two roots after
// line-ending normalization.
func UnifiedDiff(fsys fs.FileSystem, oldRoot, newRoot, rel string) (Patch, error) {
	p := Patch{Path: rel}

	before, err := readAll(fsys, filepath.Join(oldRoot, filepath.FromSlash(rel)))
	if err != nil {
		return p, ioFailure(OpCompare, rel, err)
	}
	after, err := readAll(fsys, filepath.Join(newRoot, filepath.FromSlash(rel)))
	if err != nil {
		return p, ioFailure(OpCompare, rel, err)
	}

	if isBinary(before) || isBinary(after) {
		p.Binary = true
		return p, nil
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(normalizeLineEndings(string(before))),
		B:        difflib.SplitLines(normalizeLineEndings(string(after))),
		FromFile: "previous/" + rel,
		ToFile:   "newer/" + rel,
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return p, fmt.Errorf("failed to diff %s: %w", rel, err)
	}

	p.Diff = text
	p.Added, p.Removed = countDiffStats(text)
	return p, nil
}

func (p Patch) RenderText(w io.Writer) error {
	if p.Binary {
		_, err := fmt.Fprintf(w, "%s\n", styles.Dimmed.Render(fmt.Sprintf("Binary file %s differs", p.Path)))
		return err
	}

	if _, err := fmt.Fprintf(w, "%s\n", styles.Dimmed.Render(fmt.Sprintf("%s (+%d -%d)", p.Path, p.Added, p.Removed))); err != nil {
		return err
	}

	for _, line := range strings.SplitAfter(p.Diff, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			line = styles.Added.Render(strings.TrimSuffix(line, "\n")) + "\n"
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			line = styles.Removed.Render(strings.TrimSuffix(line, "\n")) + "\n"
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}

	return nil
}

func readAll(fsys fs.FileSystem, path string) ([]byte, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// isBinary reports whether content contains a NUL byte in its first 8KiB.
func isBinary(content []byte) bool {
	return bytes.IndexByte(content[:min(len(content), binarySniffLen)], 0) >= 0
}

// normalizeLineEndings converts all line endings to LF and terminates the
// last line, mirroring the comparison done by ContentEqual.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}

// countDiffStats counts added and removed lines in a unified diff.
func countDiffStats(diffText string) (added, removed int) {
	for _, line := range strings.Split(diffText, "\n") {
		if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
			added++
		} else if strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---") {
			removed++
		}
	}
	return added, removed
}
