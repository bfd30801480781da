// Package acquire produces samples and feeds them into the sample ring.
package acquire

import (
	"math"

	"github.com/tracescope/tracescope/internal/sampling"
)

// Generator produces the samples for logical indices first..first+len(dst)-1.
type Generator interface {
	Fill(dst []sampling.Sample, first int64) error
}

// Simulator is a deterministic Generator modelling a small device: a noisy
// sleep current with periodic radio bursts, rare single-sample spikes and
// short dropouts where no reading is available.
//
// Digital channels: D0 is a 1 kHz clock, D1 is high during bursts, D2 carries
// a single-sample glitch, D3..D7 count tenths of a second.
type Simulator struct {
	rate        float64
	baselineUA  float64
	rippleUA    float64
	burstUA     float64
	spikeUA     float64
	burstEvery  int64
	burstLen    int64
	spikeEvery  int64
	glitchEvery int64
	gapEvery    int64
	gapLen      int64
	clockHalf   int64
	tick        int64
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithBaseline sets the idle current in µA.
func WithBaseline(ua float64) SimulatorOption {
	return func(s *Simulator) {
		s.baselineUA = ua
	}
}

// WithBurst sets the extra current drawn during bursts in µA.
func WithBurst(ua float64) SimulatorOption {
	return func(s *Simulator) {
		s.burstUA = ua
	}
}

// WithSpike sets the height of single-sample spikes in µA.
func WithSpike(ua float64) SimulatorOption {
	return func(s *Simulator) {
		s.spikeUA = ua
	}
}

// WithoutGaps disables dropouts.
func WithoutGaps() SimulatorOption {
	return func(s *Simulator) {
		s.gapLen = 0
	}
}

// NewSimulator returns a simulator whose event periods scale with the
// sampling rate, so the trace looks the same at any rate.
func NewSimulator(samplesPerSecond float64, opts ...SimulatorOption) *Simulator {
	at := func(seconds float64) int64 {
		return max(int64(samplesPerSecond*seconds), 1)
	}

	s := &Simulator{
		rate:        samplesPerSecond,
		baselineUA:  12,
		rippleUA:    3,
		burstUA:     4_800,
		spikeUA:     22_000,
		burstEvery:  at(0.25),
		burstLen:    at(0.04),
		spikeEvery:  at(0.7) + 7,
		glitchEvery: at(0.3) + 3,
		gapEvery:    at(2),
		gapLen:      at(0.01),
		clockHalf:   at(0.0005),
		tick:        at(0.1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fill implements Generator.
func (s *Simulator) Fill(dst []sampling.Sample, first int64) error {
	for i := range dst {
		dst[i] = s.At(first + int64(i))
	}
	return nil
}

// At returns the sample at logical index n.
func (s *Simulator) At(n int64) sampling.Sample {
	burst := n%s.burstEvery < s.burstLen

	var bits uint8
	if (n/s.clockHalf)&1 == 1 {
		bits |= 1 << 0
	}
	if burst {
		bits |= 1 << 1
	}
	if n%s.glitchEvery == s.glitchEvery/2 {
		bits |= 1 << 2
	}
	bits |= uint8((n/s.tick)&0x1f) << 3

	if s.gapLen > 0 && n%s.gapEvery < s.gapLen {
		return sampling.Sample{Value: float32(math.NaN()), Bits: bits}
	}

	seconds := float64(n) / s.rate
	v := s.baselineUA + s.rippleUA*math.Sin(2*math.Pi*50*seconds)
	if burst {
		v += s.burstUA * (0.8 + 0.2*math.Sin(2*math.Pi*400*seconds))
	}
	if n%s.spikeEvery == 0 {
		v += s.spikeUA
	}
	return sampling.Sample{Value: float32(v), Bits: bits}
}
