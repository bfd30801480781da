package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tracescope/tracescope/internal/sampling"
)

// DefaultInterval is how often Run publishes a batch.
const DefaultInterval = 10 * time.Millisecond

// ErrNoGenerator is returned when a feed has nothing to produce samples.
var ErrNoGenerator = errors.New("feed has no generator")

// Feed moves samples from a Generator into a Ring at the ring's rate.
type Feed struct {
	ring     *sampling.Ring
	gen      Generator
	interval time.Duration
	log      logrus.FieldLogger
	now      func() time.Time

	batch    []sampling.Sample
	produced atomic.Int64
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// WithInterval sets the publish interval.
func WithInterval(d time.Duration) FeedOption {
	return func(f *Feed) {
		if d > 0 {
			f.interval = d
		}
	}
}

// WithLogger sets the logger used for lifecycle and lag reports.
func WithLogger(log logrus.FieldLogger) FeedOption {
	return func(f *Feed) {
		if log != nil {
			f.log = log
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) FeedOption {
	return func(f *Feed) {
		f.now = now
	}
}

// NewFeed creates a feed writing into ring.
func NewFeed(ring *sampling.Ring, gen Generator, opts ...FeedOption) *Feed {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	f := &Feed{
		ring:     ring,
		gen:      gen,
		interval: DefaultInterval,
		log:      discard,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Produced returns the number of samples published so far.
func (f *Feed) Produced() int64 {
	return f.produced.Load()
}

// Advance generates and publishes n samples immediately. Each ring write
// covers at most one batch so readers are never held off for long.
func (f *Feed) Advance(n int64) error {
	if f.gen == nil {
		return ErrNoGenerator
	}
	if n <= 0 {
		return nil
	}

	size := int64(f.ring.Capacity())
	if n > size {
		// Older samples would be overwritten before anyone could read them.
		f.ring.Skip(n - size)
		f.produced.Add(n - size)
		n = size
	}

	chunk := max(min(size, 4096), 1)
	if int64(cap(f.batch)) < chunk {
		f.batch = make([]sampling.Sample, chunk)
	}
	for n > 0 {
		k := min(n, chunk)
		batch := f.batch[:k]
		first := f.produced.Load()
		if err := f.gen.Fill(batch, first); err != nil {
			return fmt.Errorf("generate samples at %d: %w", first, err)
		}
		f.ring.Write(batch)
		f.produced.Add(k)
		n -= k
	}
	return nil
}

// Run publishes samples in real time until ctx is cancelled. It returns nil
// on cancellation and the generator error otherwise.
func (f *Feed) Run(ctx context.Context) error {
	if f.gen == nil {
		return ErrNoGenerator
	}

	rate := 1e6 / f.ring.PeriodUs()
	start := f.now()
	base := f.Produced()
	f.log.WithFields(logrus.Fields{
		"rate":     rate,
		"capacity": f.ring.Capacity(),
		"interval": f.interval,
	}).Info("acquisition started")

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.log.WithField("samples", f.Produced()).Info("acquisition stopped")
			return nil
		case <-ticker.C:
			due := base + int64(f.now().Sub(start).Seconds()*rate) - f.Produced()
			if due > int64(f.ring.Capacity()) {
				f.log.WithField("samples", due).Warn("acquisition fell behind, dropping oldest")
			}
			if err := f.Advance(due); err != nil {
				f.log.WithError(err).Error("acquisition failed")
				return err
			}
		}
	}
}
