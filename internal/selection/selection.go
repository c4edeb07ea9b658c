// Package selection applies a parsed rule to a directory listing and splits
// the matches into entries to delete and entries to keep.
package selection

import (
	"slices"
	"time"

	"github.com/ipChrisLee/drm/internal/rule"
)

// Result is the outcome of one selection. Entries outside the time window
// appear in neither Delete nor Keep.
type Result struct {
	// Filtered holds the entries inside the window, oldest first.
	Filtered []Entry
	// Start and End are the resolved slice bounds into Filtered.
	Start, End int
	Delete     []Entry
	Keep       []Entry
}

// Inner returns Filtered[Start:End], the slice the index range names.
func (r Result) Inner() []Entry {
	if r.Start >= r.End {
		return nil
	}
	return r.Filtered[r.Start:r.End]
}

// Select sorts entries by modification time, keeps those inside the rule's
// window and slices them by the rule's index range. With reverse set the
// slice is kept and everything else in the window is deleted.
func Select(r rule.Rule, now time.Time, entries []Entry, reverse bool) Result {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return a.ModTime.Compare(b.ModTime)
	})

	filtered := make([]Entry, 0, len(sorted))
	for _, e := range sorted {
		if r.Window.Contains(now, e.ModTime) {
			filtered = append(filtered, e)
		}
	}

	n := len(filtered)
	res := Result{
		Filtered: filtered,
		Start:    ResolveIndex(r.Index.Start, 0, n),
		End:      ResolveIndex(r.Index.End, n, n),
	}

	inner := res.Inner()
	outer := make([]Entry, 0, n-len(inner))
	outer = append(outer, filtered[:res.Start]...)
	if res.End > res.Start {
		outer = append(outer, filtered[res.End:]...)
	} else {
		outer = append(outer, filtered[res.Start:]...)
	}

	if reverse {
		res.Delete, res.Keep = outer, slices.Clone(inner)
	} else {
		res.Delete, res.Keep = slices.Clone(inner), outer
	}
	return res
}

// ResolveIndex turns an optional signed index into a position in a
// sequence of length n. Unset bounds take def, negative values count from
// the end, and the result is clamped to [0, n].
func ResolveIndex(b rule.Bound, def, n int) int {
	if !b.Set {
		return def
	}
	v := b.Value
	if v < 0 {
		v += int64(n)
	}
	return int(min(max(v, 0), int64(n)))
}
