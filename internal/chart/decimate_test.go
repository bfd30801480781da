package chart_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/tracescope/tracescope/internal/chart"
	"github.com/tracescope/tracescope/internal/sampling"
)

var nan = float32(math.NaN())

// newSource builds a snapshot with a 1 µs period whose index n sits at time n.
func newSource(analog []float32, digital []uint8) sampling.Snapshot {
	if digital == nil {
		digital = make([]uint8, len(analog))
	}
	return sampling.NewSnapshot(analog, digital, 1, float64(len(analog)-1))
}

func scenarioSource() sampling.Snapshot {
	return newSource([]float32{1, 2, nan, 4, 5, 6, 7, 8, 9, 10}, nil)
}

func valid(t, v float64) chart.Point {
	return chart.Point{Time: t, Value: v, Valid: true}
}

func TestDecimateHoldScenario(t *testing.T) {
	t.Parallel()

	out := chart.NewOutput()
	chart.Decimate(out, scenarioSource(), chart.Range{Begin: 0, End: 9}, 10, 0)

	if out.Mode != chart.HoldMode {
		t.Fatalf("Mode = %v, want hold", out.Mode)
	}
	want := []chart.Point{
		valid(0, 1), valid(1, 2), valid(2, 2), valid(3, 4), valid(4, 5),
		valid(5, 6), valid(6, 7), valid(7, 8), valid(8, 9), valid(9, 10),
	}
	if diff := cmp.Diff(want, out.Analog); diff != "" {
		t.Fatalf("analog mismatch (-want +got):\n%s", diff)
	}
}

func TestDecimateEnvelopeScenario(t *testing.T) {
	t.Parallel()

	out := chart.NewOutput()
	chart.Decimate(out, scenarioSource(), chart.Range{Begin: 0, End: 9}, 2, 0)

	if out.Mode != chart.EnvelopeMode {
		t.Fatalf("Mode = %v, want envelope", out.Mode)
	}
	if out.Step != 4.5 {
		t.Fatalf("Step = %v, want 4.5", out.Step)
	}
	want := []chart.Point{valid(0, 1), valid(0, 4), valid(4.5, 6), valid(4.5, 10)}
	if diff := cmp.Diff(want, out.Analog); diff != "" {
		t.Fatalf("analog mismatch (-want +got):\n%s", diff)
	}
}

func TestDecimateDigitalEdgesHold(t *testing.T) {
	t.Parallel()

	analog := make([]float32, 10)
	digital := []uint8{1, 1, 1, 1, 1, 0, 0, 0, 0, 0}
	out := chart.NewOutput()
	chart.Decimate(out, newSource(analog, digital), chart.Range{Begin: 0, End: 9}, 100, chart.MaxChannels)

	high, low := chart.Level(1, 0), chart.Level(0, 0)
	want := []chart.Point{valid(0, high), valid(5, low), valid(9, low)}
	if diff := cmp.Diff(want, out.Digital(0)); diff != "" {
		t.Fatalf("channel 0 mismatch (-want +got):\n%s", diff)
	}

	// A channel that never changes has its first level and the terminal point.
	want = []chart.Point{valid(0, low), valid(9, low)}
	if diff := cmp.Diff(want, out.Digital(7)); diff != "" {
		t.Fatalf("channel 7 mismatch (-want +got):\n%s", diff)
	}
}

func TestDecimateAllInvalid(t *testing.T) {
	t.Parallel()

	analog := []float32{nan, nan, nan, nan, nan, nan, nan, nan, nan, nan}
	src := newSource(analog, nil)
	r := chart.Range{Begin: 0, End: 9}

	out := chart.NewOutput()
	for _, width := range []int{2, 100} {
		chart.Decimate(out, src, r, width, chart.MaxChannels)
		for i, p := range out.Analog {
			if p.Valid {
				t.Fatalf("width %d: point %d is valid: %+v", width, i, p)
			}
		}
		for ch := range chart.MaxChannels {
			if n := len(out.Digital(ch)); n != 0 {
				t.Fatalf("width %d: channel %d has %d points", width, ch, n)
			}
		}
	}
}

func TestDecimateModeSelection(t *testing.T) {
	t.Parallel()

	src := newSource(make([]float32, 1000), nil)
	r := chart.Range{Begin: 0, End: 999}

	tests := []struct {
		name  string
		width int
		want  chart.Mode
	}{
		{name: "one sample per column", width: 999, want: chart.HoldMode},
		{name: "fewer samples than columns", width: 2000, want: chart.HoldMode},
		{name: "just above one", width: 998, want: chart.EnvelopeMode},
		{name: "narrow", width: 10, want: chart.EnvelopeMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := chart.NewOutput()
			chart.Decimate(out, src, r, tt.width, 0)
			if out.Mode != tt.want {
				t.Fatalf("Mode = %v, want %v (step %v)", out.Mode, tt.want, out.Step)
			}
			if out.Mode == chart.EnvelopeMode && len(out.Analog) != 2*tt.width {
				t.Fatalf("len(Analog) = %d, want %d", len(out.Analog), 2*tt.width)
			}
		})
	}
}

func TestDecimateEnvelopeCoverage(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	analog := make([]float32, 5000)
	for i := range analog {
		if rng.IntN(10) == 0 {
			analog[i] = nan
			continue
		}
		analog[i] = float32(rng.NormFloat64())
	}
	// A single-sample spike must survive decimation.
	analog[2345] = 1000

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range analog {
		if !isNaN(v) {
			lo = min(lo, float64(v))
			hi = max(hi, float64(v))
		}
	}

	out := chart.NewOutput()
	chart.Decimate(out, newSource(analog, nil), chart.Range{Begin: 0, End: 4999}, 37, 0)

	gotLo, gotHi := math.Inf(1), math.Inf(-1)
	for i := 0; i < len(out.Analog); i += 2 {
		bMin, bMax := out.Analog[i], out.Analog[i+1]
		if bMin.Valid != bMax.Valid {
			t.Fatalf("bucket %d: min/max validity differs", i/2)
		}
		if !bMin.Valid {
			continue
		}
		if bMin.Value > bMax.Value {
			t.Fatalf("bucket %d: min %v > max %v", i/2, bMin.Value, bMax.Value)
		}
		if bMin.Time != bMax.Time {
			t.Fatalf("bucket %d: min and max at different times", i/2)
		}
		gotLo = min(gotLo, bMin.Value)
		gotHi = max(gotHi, bMax.Value)
	}
	if gotLo != lo || gotHi != hi {
		t.Fatalf("envelope extremes = [%v, %v], want [%v, %v]", gotLo, gotHi, lo, hi)
	}
}

func TestDecimateEnvelopeKeepsGlitch(t *testing.T) {
	t.Parallel()

	analog := make([]float32, 10000)
	digital := make([]uint8, 10000)
	digital[6001] = 1 << 3

	out := chart.NewOutput()
	chart.Decimate(out, newSource(analog, digital), chart.Range{Begin: 0, End: 9999}, 50, chart.MaxChannels)

	high, low := chart.Level(1, 3), chart.Level(0, 3)
	series := out.Digital(3)
	levels := make([]float64, len(series))
	for i, p := range series {
		levels[i] = p.Value
	}
	want := []float64{low, high, low, low}
	if diff := cmp.Diff(want, levels); diff != "" {
		t.Fatalf("channel 3 levels (-want +got):\n%s", diff)
	}
	if !(series[1].Time < series[2].Time) {
		t.Fatalf("glitch edges out of order: %v then %v", series[1].Time, series[2].Time)
	}
}

// countTransitions counts level changes across the valid ticks of [from, to),
// including the first level seen.
func countTransitions(analog []float32, digital []uint8, ch, from, to int) int {
	n := 0
	prev := -1
	for i := from; i < to; i++ {
		if isNaN(analog[i]) {
			continue
		}
		bit := int(digital[i]>>ch) & 1
		if bit != prev {
			n++
			prev = bit
		}
	}
	return n
}

func isNaN(v float32) bool {
	return v != v
}

func TestDecimateHoldEdgeCountBound(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11))
	analog := make([]float32, 300)
	digital := make([]uint8, 300)
	for i := range analog {
		if rng.IntN(8) == 0 {
			analog[i] = nan
		}
		digital[i] = uint8(rng.UintN(256))
		if i > 0 && rng.IntN(3) > 0 {
			digital[i] = digital[i-1]
		}
	}
	analog[len(analog)-1] = 0

	out := chart.NewOutput()
	chart.Decimate(out, newSource(analog, digital), chart.Range{Begin: 0, End: 299}, 1000, chart.MaxChannels)
	if out.Mode != chart.HoldMode {
		t.Fatalf("Mode = %v, want hold", out.Mode)
	}

	for ch := range chart.MaxChannels {
		// The terminal tick always emits, so it is excluded from the count.
		want := countTransitions(analog, digital, ch, 0, len(analog)-1) + 1
		if got := len(out.Digital(ch)); got != want {
			t.Errorf("channel %d: %d points, want %d", ch, got, want)
		}
	}
}

func TestDecimateHoldsAcrossGaps(t *testing.T) {
	t.Parallel()

	analog := []float32{nan, 3, nan, nan, 7, nan, nan}
	out := chart.NewOutput()
	chart.Decimate(out, newSource(analog, nil), chart.Range{Begin: 0, End: 6}, 100, 0)

	want := []chart.Point{
		{Time: 0},
		valid(1, 3), valid(2, 3), valid(3, 3),
		valid(4, 7), valid(5, 7),
		// The last column shows the raw sample.
		{Time: 6},
	}
	if diff := cmp.Diff(want, out.Analog); diff != "" {
		t.Fatalf("analog mismatch (-want +got):\n%s", diff)
	}
}

func TestDecimateSubSampleWindow(t *testing.T) {
	t.Parallel()

	src := scenarioSource()
	out := chart.NewOutput()
	chart.Decimate(out, src, chart.Range{Begin: 4.2, End: 4.6}, 300, chart.MaxChannels)

	if out.Mode != chart.HoldMode {
		t.Fatalf("Mode = %v, want hold", out.Mode)
	}
	want := []chart.Point{valid(4, 5), valid(5, 6)}
	if diff := cmp.Diff(want, out.Analog); diff != "" {
		t.Fatalf("analog mismatch (-want +got):\n%s", diff)
	}
	for ch := range chart.MaxChannels {
		if len(out.Digital(ch)) == 0 {
			t.Fatalf("channel %d is empty", ch)
		}
	}
}

func TestDecimateIsIdempotent(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 5))
	analog := make([]float32, 4096)
	digital := make([]uint8, 4096)
	for i := range analog {
		analog[i] = float32(rng.Float64())
		digital[i] = uint8(i / 17)
	}
	src := newSource(analog, digital)

	for _, width := range []int{64, 4000} {
		r := chart.Range{Begin: 100, End: 4000}
		if width > 1000 {
			r = chart.Range{Begin: 1000, End: 1500}
		}
		out := chart.NewOutput()
		chart.Decimate(out, src, r, width, chart.MaxChannels)
		first := *cloneOutput(out)
		chart.Decimate(out, src, r, width, chart.MaxChannels)
		if diff := cmp.Diff(first, *out, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("width %d: second call differs (-first +second):\n%s", width, diff)
		}
	}
}

func cloneOutput(o *chart.Output) *chart.Output {
	c := &chart.Output{Mode: o.Mode, Step: o.Step, Channels: o.Channels}
	c.Analog = append([]chart.Point(nil), o.Analog...)
	for ch := range o.Bits {
		c.Bits[ch] = append([]chart.Point(nil), o.Bits[ch]...)
	}
	return c
}

func TestDecimateReuseDoesNotLeak(t *testing.T) {
	t.Parallel()

	src := newSource(make([]float32, 1000), make([]uint8, 1000))
	out := chart.NewOutput()

	chart.Decimate(out, src, chart.Range{Begin: 0, End: 999}, 400, chart.MaxChannels)
	chart.Decimate(out, src, chart.Range{Begin: 10, End: 12}, 400, 0)

	if len(out.Analog) != 3 {
		t.Fatalf("len(Analog) = %d, want 3", len(out.Analog))
	}
	if out.Channels != 0 || out.Digital(0) != nil {
		t.Fatalf("digital series leaked from previous call")
	}
	if out.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", out.Len())
	}
}

func TestDecimateAcrossWraparound(t *testing.T) {
	t.Parallel()

	ring, err := sampling.NewRing(8, 1e6, 0)
	if err != nil {
		t.Fatalf("NewRing() error = %v", err)
	}
	for i := range 13 {
		ring.Write([]sampling.Sample{{Value: float32(i)}})
	}

	out := chart.NewOutput()
	ring.View(func(s sampling.Snapshot) {
		chart.Decimate(out, s, chart.Range{Begin: s.EarliestUs(), End: s.LatestUs()}, 100, 0)
	})

	want := []chart.Point{
		valid(5, 5), valid(6, 6), valid(7, 7), valid(8, 8),
		valid(9, 9), valid(10, 10), valid(11, 11), valid(12, 12),
	}
	if diff := cmp.Diff(want, out.Analog); diff != "" {
		t.Fatalf("analog mismatch (-want +got):\n%s", diff)
	}
}

func TestDecimateFullBufferLiveWindow(t *testing.T) {
	t.Parallel()

	ring, err := sampling.NewRing(100, 1e6, 0)
	if err != nil {
		t.Fatalf("NewRing() error = %v", err)
	}
	batch := make([]sampling.Sample, 200)
	for i := range batch {
		batch[i] = sampling.Sample{Value: 1}
	}
	batch[len(batch)-1].Value = 100
	ring.Write(batch)

	// Zoomed all the way out, the live window starts one period before the
	// oldest held sample.
	vp := chart.NewViewport(100, 100)
	envelope, hold := chart.NewOutput(), chart.NewOutput()
	var (
		r  chart.Range
		st chart.Stats
	)
	ring.View(func(s sampling.Snapshot) {
		r = vp.Resolve(s.LatestUs(), s.EarliestUs())
		chart.Decimate(envelope, s, r, 2, 0)
		chart.Decimate(hold, s, r, chart.MaxWidth, 0)
		st = chart.Aggregate(s, r)
	})

	if want := (chart.Range{Begin: 99, End: 199}); r != want {
		t.Fatalf("Resolve() = %+v, want %+v", r, want)
	}
	want := []chart.Point{valid(99, 1), valid(99, 1), valid(149, 1), valid(149, 100)}
	if diff := cmp.Diff(want, envelope.Analog); diff != "" {
		t.Fatalf("envelope mismatch (-want +got):\n%s", diff)
	}

	if hold.Mode != chart.HoldMode {
		t.Fatalf("Mode = %v, want hold", hold.Mode)
	}
	if got := len(hold.Analog); got != 100 {
		t.Fatalf("hold emitted %d points, want 100", got)
	}
	if first := hold.Analog[0]; first != valid(100, 1) {
		t.Fatalf("first hold point = %+v, want the oldest sample", first)
	}

	if st.Count != 100 || st.Max != 100 {
		t.Fatalf("Aggregate() count=%d max=%v, want 100 and 100", st.Count, st.Max)
	}
}

func TestHoldWalkIsBounded(t *testing.T) {
	t.Parallel()

	analog := make([]float32, 100_000)
	analog[len(analog)-1] = 5
	out := chart.NewOutput()
	chart.Hold(out, newSource(analog, nil), chart.Range{Begin: 0, End: 99_999}, 10, 0)

	if got, want := len(out.Analog), chart.MaxWidth+3; got != want {
		t.Fatalf("len(Analog) = %d, want %d", got, want)
	}
	if last := out.Analog[len(out.Analog)-1]; last != valid(99_999, 5) {
		t.Fatalf("last point = %+v, want the window end", last)
	}
}

func TestDecimateWidthIsCapped(t *testing.T) {
	t.Parallel()

	src := newSource(make([]float32, 100_000), nil)
	out := chart.NewOutput()
	chart.Decimate(out, src, chart.Range{Begin: 0, End: 99_999}, 10_000, 0)

	if got, want := len(out.Analog), 2*chart.MaxWidth; got != want {
		t.Fatalf("len(Analog) = %d, want %d", got, want)
	}
}

func TestEnvelopeAndHoldAreIndependent(t *testing.T) {
	t.Parallel()

	src := scenarioSource()
	r := chart.Range{Begin: 0, End: 9}

	out := chart.NewOutput()
	chart.Envelope(out, src, r, 20, 0)
	if out.Mode != chart.EnvelopeMode || len(out.Analog) != 40 {
		t.Fatalf("Envelope: mode %v with %d points", out.Mode, len(out.Analog))
	}

	chart.Hold(out, src, chart.Range{Begin: 0, End: 9}, 2, 0)
	if out.Mode != chart.HoldMode || len(out.Analog) != 10 {
		t.Fatalf("Hold: mode %v with %d points", out.Mode, len(out.Analog))
	}
}

func TestModeString(t *testing.T) {
	t.Parallel()

	if got := chart.HoldMode.String(); got != "hold" {
		t.Errorf("HoldMode.String() = %q", got)
	}
	if got := chart.EnvelopeMode.String(); got != "envelope" {
		t.Errorf("EnvelopeMode.String() = %q", got)
	}
	if got := chart.Mode(9).String(); got != "unknown" {
		t.Errorf("Mode(9).String() = %q", got)
	}
}

func BenchmarkDecimateEnvelope(b *testing.B) {
	analog := make([]float32, 1_000_000)
	digital := make([]uint8, len(analog))
	for i := range analog {
		analog[i] = float32(i % 977)
		digital[i] = uint8(i / 333)
	}
	src := newSource(analog, digital)
	out := chart.NewOutput()
	r := chart.Range{Begin: 0, End: float64(len(analog) - 1)}

	b.ResetTimer()
	for range b.N {
		chart.Decimate(out, src, r, 1600, chart.MaxChannels)
	}
}

func BenchmarkDecimateHold(b *testing.B) {
	src := newSource(make([]float32, 10_000), make([]uint8, 10_000))
	out := chart.NewOutput()
	r := chart.Range{Begin: 5000, End: 6500}

	b.ResetTimer()
	for range b.N {
		chart.Decimate(out, src, r, 1600, chart.MaxChannels)
	}
}
