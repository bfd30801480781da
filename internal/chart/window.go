package chart

import "math"

// Range is a half-open time interval [Begin, End) in absolute microseconds.
type Range struct {
	Begin float64
	End   float64
}

// Duration returns End - Begin.
func (r Range) Duration() float64 {
	return r.End - r.Begin
}

// Valid reports whether the range is non-empty.
func (r Range) Valid() bool {
	return r.Begin < r.End
}

// Contains reports whether us falls inside the range.
func (r Range) Contains(us float64) bool {
	return us >= r.Begin && us < r.End
}

// Window is the requested view. A live window follows the newest sample and
// only Duration matters; a pinned window holds explicit Begin and End.
//
// The cursor, when set, narrows the statistics range without changing the
// plotted extent.
type Window struct {
	Pinned    bool
	Begin     float64
	End       float64
	Duration  float64
	Cursor    Range
	HasCursor bool
}

// Resolve computes the effective window for a buffer whose samples span
// [earliestUs, latestUs]. It never fails: an inverted or empty result
// collapses to the smallest representable interval starting at Begin.
func Resolve(w Window, latestUs, earliestUs float64) Range {
	var r Range
	if w.Pinned {
		r = Range{
			Begin: math.Max(w.Begin, earliestUs),
			End:   math.Min(w.End, latestUs),
		}
	} else {
		r = Range{Begin: latestUs - w.Duration, End: latestUs}
	}
	if !r.Valid() {
		return minimalRange(r.Begin)
	}
	return r
}

// StatsRange returns the interval statistics are computed over: the cursor
// when one is set, otherwise the resolved window.
func StatsRange(w Window, resolved Range) Range {
	if !w.HasCursor {
		return resolved
	}
	c := w.Cursor
	if c.End < c.Begin {
		c.Begin, c.End = c.End, c.Begin
	}
	return c
}

func minimalRange(begin float64) Range {
	return Range{Begin: begin, End: math.Nextafter(begin, math.Inf(1))}
}
