package chart

import "math"

// Stats summarises the valid samples of an interval at full resolution.
// Charge is in µC when values are in µA.
type Stats struct {
	Sum     float64
	Count   int
	Max     float64
	HasMax  bool
	Average float64
	DeltaUs float64
	Charge  float64
}

// MaxOrZero returns Max, or 0 when the interval held no valid sample.
func (s Stats) MaxOrZero() float64 {
	if !s.HasMax {
		return 0
	}
	return s.Max
}

// Aggregate scans every sample in [ceil(index(r.Begin)), floor(index(r.End))]
// skipping NaN. At most one buffer's worth of samples ending at r.End is
// read, so a range longer than the buffer never counts a slot twice.
func Aggregate(src Source, r Range) Stats {
	st := Stats{DeltaUs: r.Duration()}

	if capacity := int64(src.Capacity()); capacity > 0 {
		fFrom := src.TimeToIndex(r.Begin)
		fTo := src.TimeToIndex(r.End)
		if finite(fFrom) && finite(fTo) {
			first := int64(math.Ceil(fFrom))
			last := int64(math.Floor(fTo))
			first = max(first, last-capacity+1)

			for n := first; n <= last; n++ {
				v := src.Value(n)
				if isNaN(v) {
					continue
				}
				fv := float64(v)
				if !st.HasMax || fv > st.Max {
					st.Max = fv
					st.HasMax = true
				}
				st.Sum += fv
				st.Count++
			}
		}
	}

	st.Average = st.Sum / float64(max(st.Count, 1))
	st.Charge = st.Average * st.DeltaUs / 1e6
	return st
}
