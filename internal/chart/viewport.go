package chart

import (
	"math"

	"github.com/tracescope/tracescope/internal/mathutil"
)

// MinDurationUs is the narrowest window Zoom will produce.
const MinDurationUs = 50.0

// Viewport owns the Window and applies the navigation actions the UI offers.
// Every action leaves the window in a state Resolve accepts.
type Viewport struct {
	window      Window
	maxDuration float64
}

// NewViewport returns a live viewport showing durationUs of history. Zooming
// out stops at maxDurationUs, normally the time the buffer can hold.
func NewViewport(durationUs, maxDurationUs float64) *Viewport {
	maxDurationUs = math.Max(maxDurationUs, MinDurationUs)
	return &Viewport{
		window:      Window{Duration: clampDuration(durationUs, maxDurationUs)},
		maxDuration: maxDurationUs,
	}
}

// Window returns the current window.
func (v *Viewport) Window() Window {
	return v.window
}

// Paused reports whether the window is pinned.
func (v *Viewport) Paused() bool {
	return v.window.Pinned
}

// Resolve returns the effective range for the current buffer bounds.
func (v *Viewport) Resolve(latestUs, earliestUs float64) Range {
	return Resolve(v.window, latestUs, earliestUs)
}

// Live makes the window follow the newest sample again. The cursor is kept.
func (v *Viewport) Live() {
	v.window.Pinned = false
	v.window.Begin = 0
	v.window.End = 0
}

// Pause pins the window at its current live position.
func (v *Viewport) Pause(latestUs float64) {
	if v.window.Pinned {
		return
	}
	v.window.Pinned = true
	v.window.End = latestUs
	v.window.Begin = latestUs - v.window.Duration
}

// Set pins the window to [beginUs, endUs) clamped to the buffer bounds.
func (v *Viewport) Set(beginUs, endUs, latestUs, earliestUs float64) {
	r := Range{
		Begin: math.Max(beginUs, earliestUs),
		End:   math.Min(endUs, latestUs),
	}
	if !r.Valid() {
		r = minimalRange(r.Begin)
	}
	v.window.Pinned = true
	v.window.Begin = r.Begin
	v.window.End = r.End
	v.window.Duration = r.Duration()
}

// Pan shifts the window by deltaUs, pausing first when live. The window keeps
// its width while it fits inside the buffer.
func (v *Viewport) Pan(deltaUs, latestUs, earliestUs float64) {
	v.Pause(latestUs)
	begin, end := shiftInside(v.window.Begin+deltaUs, v.window.End+deltaUs, latestUs, earliestUs)
	v.Set(begin, end, latestUs, earliestUs)
}

// Zoom scales the window duration by factor; values below 1 zoom in. A live
// window stays anchored at the newest sample, a pinned one at its centre.
func (v *Viewport) Zoom(factor, latestUs, earliestUs float64) {
	if !(factor > 0) {
		return
	}
	d := clampDuration(v.window.Duration*factor, v.maxDuration)
	if !v.window.Pinned {
		v.window.Duration = d
		return
	}

	centre := (v.window.Begin + v.window.End) / 2
	begin, end := shiftInside(centre-d/2, centre+d/2, latestUs, earliestUs)
	v.Set(begin, end, latestUs, earliestUs)
}

// SetDuration changes the live window length. A pinned window keeps its end.
func (v *Viewport) SetDuration(durationUs float64) {
	d := clampDuration(durationUs, v.maxDuration)
	v.window.Duration = d
	if v.window.Pinned {
		v.window.Begin = v.window.End - d
	}
}

// SetCursor marks [aUs, bUs] for statistics, in either order.
func (v *Viewport) SetCursor(aUs, bUs float64) {
	v.window.Cursor = Range{Begin: math.Min(aUs, bUs), End: math.Max(aUs, bUs)}
	v.window.HasCursor = true
}

// ClearCursor drops the cursor so statistics follow the window again.
func (v *Viewport) ClearCursor() {
	v.window.Cursor = Range{}
	v.window.HasCursor = false
}

func clampDuration(d, maxDuration float64) float64 {
	if math.IsNaN(d) {
		return MinDurationUs
	}
	return mathutil.Clamp(d, MinDurationUs, maxDuration)
}

func shiftInside(begin, end, latestUs, earliestUs float64) (float64, float64) {
	if begin < earliestUs {
		end += earliestUs - begin
		begin = earliestUs
	}
	if end > latestUs {
		begin -= end - latestUs
		end = latestUs
	}
	return begin, end
}
