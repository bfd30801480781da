// Package sampling holds the circular sample buffer written by the acquisition
// feed and read by the chart engine.
package sampling

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/tracescope/tracescope/internal/mathutil"
)

var (
	// ErrInvalidCapacity is returned when a ring is created without slots.
	ErrInvalidCapacity = errors.New("capacity must be at least 1")
	// ErrInvalidRate is returned for a non-positive sampling rate.
	ErrInvalidRate = errors.New("sample rate must be positive")
)

// chunkSlots is the number of slots in one chunk of the ring.
const chunkSlots = 4096

// Sample is one acquisition tick: an analog current reading in µA (NaN when
// the tick carries no valid reading) and the logic levels of channels D0..D7.
type Sample struct {
	Value float32
	Bits  uint8
}

// Invalid returns a sample that marks a tick without a reading.
func Invalid() Sample {
	return Sample{Value: float32(math.NaN())}
}

// chunk is a fixed run of slots. A chunk stamped with an older epoch than the
// ring may be shared with a snapshot and is never written in place.
type chunk struct {
	analog  []float32
	digital []uint8
	epoch   uint64
}

func newChunk(n int) *chunk {
	c := &chunk{
		analog:  make([]float32, n),
		digital: make([]uint8, n),
	}
	nan := float32(math.NaN())
	for i := range c.analog {
		c.analog[i] = nan
	}
	return c
}

func (c *chunk) clone(epoch uint64) *chunk {
	return &chunk{
		analog:  append([]float32(nil), c.analog...),
		digital: append([]uint8(nil), c.digital...),
		epoch:   epoch,
	}
}

// Ring is a fixed-capacity circular buffer of samples addressed by a
// monotonic sample counter.
//
// Slots live in chunks that are copied on write once a snapshot has seen
// them. Taking a snapshot costs one pointer per chunk and readers never hold
// the lock, so a writer waits at most for another batch or for that pointer
// copy.
type Ring struct {
	mu       sync.Mutex
	chunks   []*chunk
	capacity int64
	slots    int64
	epoch    uint64
	periodUs float64
	startUs  float64
	written  int64
}

// NewRing creates a ring with the given number of slots. startUs is the
// timestamp assigned to the first appended sample.
func NewRing(capacity int, samplesPerSecond, startUs float64) (*Ring, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("create ring: %w", ErrInvalidCapacity)
	}
	if !(samplesPerSecond > 0) {
		return nil, fmt.Errorf("create ring: %w", ErrInvalidRate)
	}

	slots := min(capacity, chunkSlots)
	chunks := make([]*chunk, 0, (capacity+slots-1)/slots)
	for left := capacity; left > 0; left -= slots {
		chunks = append(chunks, newChunk(min(left, slots)))
	}

	return &Ring{
		chunks:   chunks,
		capacity: int64(capacity),
		slots:    int64(slots),
		periodUs: 1e6 / samplesPerSecond,
		startUs:  startUs,
	}, nil
}

// Capacity returns the number of slots.
func (r *Ring) Capacity() int {
	return int(r.capacity)
}

// PeriodUs returns the sampling period in microseconds.
func (r *Ring) PeriodUs() float64 {
	return r.periodUs
}

// Written returns the total number of samples appended so far.
func (r *Ring) Written() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

// Write appends a batch, overwriting the oldest slots once the ring is full.
// The lock is held only while this batch is stored.
func (r *Ring) Write(batch []Sample) {
	if len(batch) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Only the tail of an oversized batch survives.
	if int64(len(batch)) > r.capacity {
		skipped := int64(len(batch)) - r.capacity
		r.written += skipped
		batch = batch[skipped:]
	}
	for _, s := range batch {
		r.storeLocked(r.written, s)
		r.written++
	}
}

// Skip advances the counter by n ticks that carry no reading.
func (r *Ring) Skip(n int64) {
	if n <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	invalid := Invalid()
	for i := max(n-r.capacity, 0); i < n; i++ {
		r.storeLocked(r.written+i, invalid)
	}
	r.written += n
}

func (r *Ring) storeLocked(n int64, s Sample) {
	slot := mathutil.Wrap(n, r.capacity)
	i, off := slot/r.slots, slot%r.slots
	c := r.chunks[i]
	if c.epoch != r.epoch {
		c = c.clone(r.epoch)
		r.chunks[i] = c
	}
	c.analog[off] = s.Value
	c.digital[off] = s.Bits
}

// View runs fn with a snapshot taken on entry. fn runs without the ring
// lock, so the producer keeps publishing while it works.
func (r *Ring) View(fn func(Snapshot)) {
	fn(r.Snapshot())
}

// Snapshot returns a consistent, detached view of the ring. Later writes
// never show through it.
func (r *Ring) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Every chunk handed out below is now older than the ring's epoch.
	r.epoch++

	last := r.written - 1
	first := max(r.written-r.capacity, 0)
	return Snapshot{
		chunks:   append([]*chunk(nil), r.chunks...),
		capacity: r.capacity,
		slots:    r.slots,
		periodUs: r.periodUs,
		first:    first,
		last:     last,
		latestUs: r.startUs + float64(last)*r.periodUs,
	}
}
