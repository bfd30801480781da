package sampling_test

import (
	"math"
	"testing"

	"github.com/tracescope/tracescope/internal/sampling"
)

func TestSnapshotTimeIndexRoundTrip(t *testing.T) {
	t.Parallel()

	analog := make([]float32, 10)
	digital := make([]uint8, 10)
	snap := sampling.NewSnapshot(analog, digital, 10, 1090)

	tests := []struct {
		us    float64
		index float64
	}{
		{us: 1090, index: 9},
		{us: 1000, index: 0},
		{us: 1045, index: 4.5},
		{us: 990, index: -1},
	}

	for _, tt := range tests {
		if got := snap.TimeToIndex(tt.us); math.Abs(got-tt.index) > 1e-9 {
			t.Errorf("TimeToIndex(%v) = %v, want %v", tt.us, got, tt.index)
		}
		if got := snap.IndexToTime(tt.index); math.Abs(got-tt.us) > 1e-9 {
			t.Errorf("IndexToTime(%v) = %v, want %v", tt.index, got, tt.us)
		}
	}
}

func TestSnapshotIndexAliasing(t *testing.T) {
	t.Parallel()

	analog := []float32{0, 1, 2, 3}
	digital := []uint8{0, 1, 2, 3}
	snap := sampling.NewSnapshot(analog, digital, 1, 3)

	tests := []struct {
		index int64
		want  float32
	}{
		{index: 0, want: 0},
		{index: 3, want: 3},
		{index: 4, want: 0},
		{index: -1, want: 3},
		{index: -6, want: 2},
	}

	for _, tt := range tests {
		if got := snap.Value(tt.index); got != tt.want {
			t.Errorf("Value(%d) = %v, want %v", tt.index, got, tt.want)
		}
		if got := snap.Bits(tt.index); got != uint8(tt.want) {
			t.Errorf("Bits(%d) = %v, want %v", tt.index, got, tt.want)
		}
	}
}

func TestSnapshotMismatchedLengthsPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for mismatched lengths")
		}
	}()
	sampling.NewSnapshot(make([]float32, 3), make([]uint8, 2), 1, 0)
}

func TestSnapshotDuration(t *testing.T) {
	t.Parallel()

	snap := sampling.NewSnapshot(make([]float32, 5), make([]uint8, 5), 2, 8)
	if got := snap.DurationUs(); got != 8 {
		t.Fatalf("DurationUs() = %v, want 8", got)
	}
	if got := snap.EarliestUs(); got != 0 {
		t.Fatalf("EarliestUs() = %v, want 0", got)
	}
}

func TestSnapshotRejectsInvalidPeriod(t *testing.T) {
	t.Parallel()

	for _, period := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewSnapshot(period %v) did not panic", period)
				}
			}()
			sampling.NewSnapshot(make([]float32, 3), make([]uint8, 3), period, 0)
		}()
	}
}
