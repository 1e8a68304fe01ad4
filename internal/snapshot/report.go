package snapshot

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/speakeasy-api/mergerepo/internal/charm/styles"
	"github.com/speakeasy-api/mergerepo/internal/log"
)

// Report is the observable outcome of a run besides the merged tree itself.
// Every list is sorted.
type Report struct {
	Removed  []string `json:"removed" yaml:"removed"`
	Added    []string `json:"added" yaml:"added"`
	Modified []string `json:"modified" yaml:"modified"`

	MissingOnRemove []string `json:"missingOnRemove,omitempty" yaml:"missingOnRemove,omitempty"`

	Materialized bool   `json:"materialized" yaml:"materialized"`
	Destination  string `json:"destination,omitempty" yaml:"destination,omitempty"`
	BytesCopied  int64  `json:"bytesCopied,omitempty" yaml:"bytesCopied,omitempty"`

	Patches []Patch `json:"patches,omitempty" yaml:"patches,omitempty"`
}

var _ log.TextRenderer = Report{}

func NewReport(changes ChangeSet) Report {
	return Report{
		Removed:  changes.Removed.Sorted(),
		Added:    changes.Added.Sorted(),
		Modified: changes.Modified.Sorted(),
	}
}

func (r Report) RenderText(w io.Writer) error {
	sections := []struct {
		heading string
		paths   []string
		render  func(strs ...string) string
	}{
		{heading: "Files removed in newer version", paths: r.Removed, render: styles.Removed.Render},
		{heading: "Files added in newer version", paths: r.Added, render: styles.Added.Render},
		{heading: "Files modified in newer version", paths: r.Modified, render: styles.Modified.Render},
	}

	for _, s := range sections {
		if _, err := fmt.Fprintf(w, "%s: %d\n", styles.MakeBold(s.heading), len(s.paths)); err != nil {
			return err
		}
		for _, p := range s.paths {
			if _, err := fmt.Fprintf(w, "    %s\n", s.render(p)); err != nil {
				return err
			}
		}
	}

	if len(r.MissingOnRemove) > 0 {
		if _, err := fmt.Fprintf(w, "%s: %d\n", styles.MakeBold("Removed files already absent from the previous version copy"), len(r.MissingOnRemove)); err != nil {
			return err
		}
		for _, p := range r.MissingOnRemove {
			if _, err := fmt.Fprintf(w, "    %s\n", styles.Warning.Render(p)); err != nil {
				return err
			}
		}
	}

	for _, p := range r.Patches {
		if err := p.RenderText(w); err != nil {
			return err
		}
	}

	if r.Materialized {
		if _, err := fmt.Fprintf(w, "%s\n", styles.Dimmed.Render(fmt.Sprintf("Copied %s into %s", humanize.Bytes(uint64(max(r.BytesCopied, 0))), r.Destination))); err != nil {
			return err
		}
	}

	return nil
}
