package binder

import (
	"fmt"
	"maps"
	"slices"

	"github.com/agnivade/levenshtein"
)

// closest returns the candidate nearest to s, or "" if none is close
// enough to be a plausible typo.
func closest(s string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(s, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > len(s)/2+1 {
		return ""
	}
	return best
}

// checkExclusions warns about plain names in the exclusion regex that
// match no function or method of the header.
func (t *translator) checkExclusions() {
	seen := map[string]struct{}{}
	for _, n := range t.fnNames {
		seen[n] = struct{}{}
	}
	names := slices.Sorted(maps.Keys(seen))
	for _, lit := range t.opts.ExcludedLiterals() {
		if _, ok := seen[lit]; ok {
			continue
		}
		msg := fmt.Sprintf("fn-exclude-by-name-regex: %q matches no function", lit)
		if s := closest(lit, names); s != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", s)
		}
		t.warn(0, msg)
	}
}
