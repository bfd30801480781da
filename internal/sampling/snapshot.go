package sampling

import (
	"fmt"
	"math"

	"github.com/tracescope/tracescope/internal/mathutil"
)

// Snapshot is a read-only view of the ring at a fixed point in time.
//
// Samples are addressed by logical index: the sequence number of the sample
// since acquisition start. Any logical index is accepted and aliases into a
// slot modulo the capacity, so callers never deal with wraparound.
type Snapshot struct {
	chunks   []*chunk
	capacity int64
	slots    int64
	periodUs float64
	first    int64
	last     int64
	latestUs float64
}

// NewSnapshot builds a snapshot over caller-provided slices, treating the
// final element as the most recent sample at latestUs. Both slices must have
// the same length and periodUs must be positive.
func NewSnapshot(analog []float32, digital []uint8, periodUs, latestUs float64) Snapshot {
	if len(analog) != len(digital) {
		panic(fmt.Sprintf("sampling: analog and digital lengths differ (%d != %d)", len(analog), len(digital)))
	}
	if !(periodUs > 0) || math.IsInf(periodUs, 1) {
		panic(fmt.Sprintf("sampling: invalid sample period %v", periodUs))
	}
	return Snapshot{
		chunks:   []*chunk{{analog: analog, digital: digital}},
		capacity: int64(len(analog)),
		slots:    int64(max(len(analog), 1)),
		periodUs: periodUs,
		first:    0,
		last:     int64(len(analog)) - 1,
		latestUs: latestUs,
	}
}

// Capacity returns the number of slots backing the snapshot.
func (s Snapshot) Capacity() int {
	return int(s.capacity)
}

// PeriodUs returns the sampling period in microseconds.
func (s Snapshot) PeriodUs() float64 {
	return s.periodUs
}

// Empty reports whether no sample has been written yet.
func (s Snapshot) Empty() bool {
	return s.last < s.first || s.capacity == 0
}

// First returns the logical index of the oldest sample still held.
func (s Snapshot) First() int64 {
	return s.first
}

// Last returns the logical index of the most recent sample.
func (s Snapshot) Last() int64 {
	return s.last
}

// Get returns the sample at a logical index.
func (s Snapshot) Get(index int64) Sample {
	c, off := s.locate(index)
	return Sample{Value: c.analog[off], Bits: c.digital[off]}
}

// Value returns the analog reading at a logical index.
func (s Snapshot) Value(index int64) float32 {
	c, off := s.locate(index)
	return c.analog[off]
}

// Bits returns the digital mask at a logical index.
func (s Snapshot) Bits(index int64) uint8 {
	c, off := s.locate(index)
	return c.digital[off]
}

// LatestUs returns the timestamp of the most recent sample.
func (s Snapshot) LatestUs() float64 {
	return s.latestUs
}

// EarliestUs returns the timestamp of the oldest sample still held.
func (s Snapshot) EarliestUs() float64 {
	return s.IndexToTime(float64(s.first))
}

// TimeToIndex maps an absolute timestamp to a fractional logical index.
func (s Snapshot) TimeToIndex(us float64) float64 {
	return float64(s.last) - (s.latestUs-us)/s.periodUs
}

// IndexToTime maps a (possibly fractional) logical index to its timestamp.
func (s Snapshot) IndexToTime(index float64) float64 {
	return s.latestUs - (float64(s.last)-index)*s.periodUs
}

// DurationUs returns the time covered by the samples currently held.
func (s Snapshot) DurationUs() float64 {
	if s.Empty() {
		return 0
	}
	return math.Max(s.latestUs-s.EarliestUs(), 0)
}

func (s Snapshot) locate(index int64) (*chunk, int64) {
	slot := mathutil.Wrap(index, s.capacity)
	return s.chunks[slot/s.slots], slot % s.slots
}
