package chart

import (
	"math"

	"github.com/tracescope/tracescope/internal/mathutil"
)

// MaxWidth caps the number of output columns a single call may request.
const MaxWidth = 2000

// SelectMode picks the decimation path for a given number of raw samples per
// output column.
func SelectMode(step float64) Mode {
	if step > 1 {
		return EnvelopeMode
	}
	return HoldMode
}

// Decimate fills dst with the analog series and the first channels digital
// series of src over r, sized for width output columns. Width is clamped to
// [1, MaxWidth] and channels to [0, MaxChannels].
func Decimate(dst *Output, src Source, r Range, width, channels int) {
	s, width, ok := prepare(dst, src, &r, width, channels)
	if !ok {
		return
	}
	step := s.step(width)
	if SelectMode(step) == EnvelopeMode {
		envelope(dst, src, r, s, width)
	} else {
		hold(dst, src, s)
	}
	dst.Step = step
}

// Envelope runs the min/max path regardless of step. Buckets narrower than
// one sample come out as gaps.
func Envelope(dst *Output, src Source, r Range, width, channels int) {
	s, width, ok := prepare(dst, src, &r, width, channels)
	if !ok {
		return
	}
	envelope(dst, src, r, s, width)
	dst.Step = s.step(width)
}

// Hold runs the per-sample path regardless of step. The walk covers at most
// MaxWidth+3 samples ending at the window end; width only feeds the reported
// Step.
func Hold(dst *Output, src Source, r Range, width, channels int) {
	s, width, ok := prepare(dst, src, &r, width, channels)
	if !ok {
		return
	}
	hold(dst, src, s)
	dst.Step = s.step(width)
}

// span is the window expressed in logical sample indices.
type span struct {
	fBegin   float64
	fEnd     float64
	first    int64
	last     int64
	capacity int64
}

func (s span) step(width int) float64 {
	return float64(s.last-s.first) / float64(width)
}

func prepare(dst *Output, src Source, r *Range, width, channels int) (span, int, bool) {
	*r = checkRange(*r)
	width = mathutil.Clamp(width, 1, MaxWidth)
	dst.reset(mathutil.Clamp(channels, 0, MaxChannels))
	if src.Capacity() == 0 {
		return span{}, width, false
	}

	fBegin := src.TimeToIndex(r.Begin)
	fEnd := src.TimeToIndex(r.End)
	if !finite(fBegin) || !finite(fEnd) {
		return span{}, width, false
	}
	capacity := int64(src.Capacity())
	last := int64(math.Floor(fEnd))
	// A window reaching past the oldest held sample would wrap onto the
	// newest ones.
	first := max(int64(math.Ceil(fBegin)), last-capacity+1)
	return span{
		fBegin:   fBegin,
		fEnd:     fEnd,
		first:    first,
		last:     last,
		capacity: capacity,
	}, width, true
}

// levelState is the last level emitted on one digital channel.
type levelState struct {
	value float64
	valid bool
}

func (s *levelState) differs(level float64) bool {
	return !s.valid || s.value != level
}

// bucketScan tracks one channel inside one envelope bucket. Only the first
// level and the first change away from it are emitted.
type bucketScan struct {
	first float64
	seen  bool
	done  bool
}

func envelope(dst *Output, src Source, r Range, s span, width int) {
	dst.Mode = EnvelopeMode

	count := max(s.last-s.first+1, 0)
	bucket := float64(count) / float64(width)
	columns := float64(2 * width)
	dur := r.Duration()

	var last [MaxChannels]levelState
	var scan [MaxChannels]bucketScan

	emit := func(ch int, t, level float64) {
		dst.Bits[ch] = append(dst.Bits[ch], Point{Time: t, Value: level, Valid: true})
		last[ch] = levelState{value: level, valid: true}
	}

	for j := range width {
		t := r.Begin + dur*float64(2*j)/columns
		k := s.first + int64(float64(j)*bucket)
		l := s.first + int64(float64(j+1)*bucket)
		if j == width-1 {
			l = s.first + count
		}

		for ch := range dst.Channels {
			scan[ch] = bucketScan{}
		}

		lo, hi := math.Inf(1), math.Inf(-1)
		for n := k; n < l; n++ {
			v := src.Value(n)
			if isNaN(v) {
				continue
			}
			fv := float64(v)
			lo = min(lo, fv)
			hi = max(hi, fv)

			if dst.Channels == 0 {
				continue
			}
			bits := src.Bits(n)
			for ch := range dst.Channels {
				sc := &scan[ch]
				if sc.done {
					continue
				}
				level := Level(bits, ch)
				switch {
				case !sc.seen:
					sc.seen = true
					sc.first = level
					if last[ch].differs(level) {
						emit(ch, t, level)
					}
				case level != sc.first:
					if last[ch].differs(level) {
						emit(ch, t, level)
					}
					sc.done = true
				}
			}
		}

		if lo > hi {
			dst.Analog = append(dst.Analog, Point{Time: t}, Point{Time: t})
			continue
		}
		dst.Analog = append(dst.Analog,
			Point{Time: t, Value: lo, Valid: true},
			Point{Time: t, Value: hi, Valid: true},
		)
	}

	// Close every trace that drew anything at the last column.
	tEnd := r.Begin + dur*float64(2*width-1)/columns
	for ch := range dst.Channels {
		if last[ch].valid {
			dst.Bits[ch] = append(dst.Bits[ch], Point{Time: tEnd, Value: last[ch].value, Valid: true})
		}
	}
}

func hold(dst *Output, src Source, s span) {
	dst.Mode = HoldMode

	to := int64(math.Ceil(s.fEnd))
	from := max(int64(math.Floor(s.fBegin)), to-s.capacity+1, to-MaxWidth-2)

	var held levelState
	var last [MaxChannels]levelState

	for n := from; n <= to; n++ {
		t := src.IndexToTime(float64(n))
		v := src.Value(n)
		valid := !isNaN(v)
		terminal := n == to

		switch {
		case terminal && valid:
			dst.Analog = append(dst.Analog, Point{Time: t, Value: float64(v), Valid: true})
		case terminal:
			dst.Analog = append(dst.Analog, Point{Time: t})
		default:
			if valid {
				held = levelState{value: float64(v), valid: true}
			}
			dst.Analog = append(dst.Analog, Point{Time: t, Value: held.value, Valid: held.valid})
		}

		if dst.Channels == 0 {
			continue
		}
		bits := src.Bits(n)
		for ch := range dst.Channels {
			var level float64
			switch {
			case terminal && last[ch].valid:
				level = last[ch].value
			case !valid:
				continue
			case terminal || last[ch].differs(Level(bits, ch)):
				level = Level(bits, ch)
			default:
				continue
			}
			dst.Bits[ch] = append(dst.Bits[ch], Point{Time: t, Value: level, Valid: true})
			last[ch] = levelState{value: level, valid: true}
		}
	}
}

func isNaN(v float32) bool {
	return v != v
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
