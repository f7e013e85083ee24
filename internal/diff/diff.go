// Package diff renders a unified diff between two text blobs, used by the
// classindex test suite to show exactly where a stdout dump drifted from
// its expected format instead of dumping two large strings.
package diff

import (
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// Unified returns a classic unified patch (---/+++ headers, @@ hunks) for
// a -> b, labeled aName/bName. An empty result means a and b are identical.
func Unified(aName, bName, a, b string) string {
	if a == b {
		return ""
	}
	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(a),
		B:        splitLinesKeepNL(b),
		FromFile: aName,
		ToFile:   bName,
		Context:  4,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil || s == "" {
		return fmt.Sprintf("--- %s\n+++ %s\n(contents differ; diff generation failed: %v)\n", aName, bName, err)
	}
	return s
}

func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.SplitAfter(s, "\n")
}
