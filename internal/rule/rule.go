// Package rule parses drm range expressions.
//
// A range expression combines a relative modification-time window with a
// slice over the entries that fall inside it:
//
//	(-3d:)[-5:]   the last 5 entries modified within the past 3 days
//	(:-1M)[:10]   the first 10 entries older than one month
//	(:-1Y)[:]     everything older than a year
//	(:)[10:]      all but the 10 oldest entries
//	(:)[:]        everything
//
// Time bounds are "/"-separated terms of an integer and a unit letter. The
// units are approximations: Y is 360 days, M is 30 days, d and D are days,
// h hours, m minutes and s seconds. Repeated units add up, so "1h/30m" and
// "90m" are the same bound.
package rule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Offset is a signed span relative to "now". It may be infinite in either
// direction.
type Offset struct {
	d   time.Duration
	inf int8
}

var (
	NegInf = Offset{inf: -1}
	PosInf = Offset{inf: 1}
)

// Finite returns an offset of exactly d.
func Finite(d time.Duration) Offset {
	return Offset{d: d}
}

// Duration returns the finite span. It is zero for infinite offsets.
func (o Offset) Duration() time.Duration {
	return o.d
}

// Inf reports -1 or +1 for infinite offsets and 0 otherwise.
func (o Offset) Inf() int {
	return int(o.inf)
}

func (o Offset) String() string {
	switch o.inf {
	case -1:
		return "-inf"
	case 1:
		return "+inf"
	}
	return formatDuration(o.d)
}

// Window is the half-open pair of offsets applied to modification times.
// Start after End is allowed and matches nothing.
type Window struct {
	Start Offset
	End   Offset
}

// Contains reports whether t lies strictly between now+Start and now+End.
func (w Window) Contains(now, t time.Time) bool {
	return afterStart(w.Start, now, t) && beforeEnd(w.End, now, t)
}

func afterStart(o Offset, now, t time.Time) bool {
	switch o.inf {
	case -1:
		return true
	case 1:
		return false
	}
	return t.After(now.Add(o.d))
}

func beforeEnd(o Offset, now, t time.Time) bool {
	switch o.inf {
	case 1:
		return true
	case -1:
		return false
	}
	return t.Before(now.Add(o.d))
}

// Bound is an optional signed index.
type Bound struct {
	Value int64
	Set   bool
}

// At returns a set bound.
func At(v int64) Bound {
	return Bound{Value: v, Set: true}
}

func (b Bound) String() string {
	if !b.Set {
		return ""
	}
	return strconv.FormatInt(b.Value, 10)
}

// IndexRange selects a slice of the time-sorted matches. Negative values
// count from the end, unset values mean the start or end of the sequence.
type IndexRange struct {
	Start Bound
	End   Bound
}

// Rule is a parsed range expression.
type Rule struct {
	Window Window
	Index  IndexRange
}

// String renders the rule back into range syntax. Bounds that saturated
// while parsing print as "+inf" or "-inf", which Parse does not accept.
func (r Rule) String() string {
	var b strings.Builder
	b.WriteByte('(')
	if r.Window.Start != NegInf {
		b.WriteString(r.Window.Start.String())
	}
	b.WriteByte(':')
	if r.Window.End != PosInf {
		b.WriteString(r.Window.End.String())
	}
	b.WriteString(")[")
	b.WriteString(r.Index.Start.String())
	b.WriteByte(':')
	b.WriteString(r.Index.End.String())
	b.WriteByte(']')
	return b.String()
}

// formatDuration writes d as h/m/s terms, e.g. -90m becomes "-1h/-30m".
func formatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs == 0 {
		return "0s"
	}
	h, m, s := secs/3600, (secs%3600)/60, secs%60

	var parts []string
	if h != 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m != 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	if s != 0 {
		parts = append(parts, fmt.Sprintf("%ds", s))
	}
	return strings.Join(parts, "/")
}
