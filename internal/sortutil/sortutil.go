// Package sortutil provides small deterministic-ordering helpers shared by
// classindex's dump and enumeration methods, which promise stable output
// even though their backing maps do not.
package sortutil

import "sort"

// StablePathSort returns a new slice containing the input strings sorted
// lexicographically. The original slice is not modified.
func StablePathSort(paths []string) []string {
	out := make([]string, len(paths))
	copy(out, paths)
	sort.Strings(out)
	return out
}
