package snapshot

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Excluder decides which paths a catalog walk skips. Patterns use gitignore
// syntax: "CVS/" prunes every directory named CVS, "*.orig" skips matching
// files anywhere, "/build/" only the top-level build directory.
type Excluder struct {
	patterns []string
	matcher  gitignore.Matcher
}

func NewExcluder(patterns []string) *Excluder {
	parsed := make([]gitignore.Pattern, 0, len(patterns))
	kept := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		kept = append(kept, p)
		parsed = append(parsed, gitignore.ParsePattern(p, nil))
	}

	return &Excluder{
		patterns: kept,
		matcher:  gitignore.NewMatcher(parsed),
	}
}

func (e *Excluder) Patterns() []string {
	if e == nil {
		return nil
	}
	return e.patterns
}

// Excluded reports whether the slash-separated relative path is skipped.
func (e *Excluder) Excluded(rel string, isDir bool) bool {
	if e == nil || len(e.patterns) == 0 {
		return false
	}

	return e.matcher.Match(strings.Split(rel, "/"), isDir)
}
