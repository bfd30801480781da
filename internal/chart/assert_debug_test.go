//go:build debug

package chart_test

import (
	"testing"

	"github.com/tracescope/tracescope/internal/chart"
)

func TestDecimateEmptyRangePanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for empty range")
		}
	}()
	chart.Decimate(chart.NewOutput(), scenarioSource(), chart.Range{Begin: 4, End: 4}, 100, 0)
}
