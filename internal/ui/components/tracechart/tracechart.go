// Package tracechart plots the decimated analog current trace with braille
// lines, a current axis, and wall-clock labels.
package tracechart

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/NimbleMarkets/ntcharts/v2/canvas"
	"github.com/NimbleMarkets/ntcharts/v2/linechart"

	"github.com/tracescope/tracescope/internal/chart"
	"github.com/tracescope/tracescope/internal/mathutil"
	"github.com/tracescope/tracescope/internal/ui/charts"
	"github.com/tracescope/tracescope/internal/ui/format"
)

// yLabelWidth is the fixed width of the current axis labels so the plot
// area does not shift as the scale changes.
const yLabelWidth = 9

// markerStep is the largest samples-per-column ratio at which individual
// samples are marked on the trace.
const markerStep = 0.2

// minLabelSpacing is the minimum number of columns between time labels.
const minLabelSpacing = 16

// Styles holds the visual styles for the trace chart.
type Styles struct {
	Axis   lipgloss.Style
	Label  lipgloss.Style
	Trace  lipgloss.Style
	Cursor lipgloss.Style
	Muted  lipgloss.Style
}

// DefaultStyles returns sensible default styles.
func DefaultStyles() Styles {
	return Styles{
		Axis:   lipgloss.NewStyle(),
		Label:  lipgloss.NewStyle(),
		Trace:  lipgloss.NewStyle(),
		Cursor: lipgloss.NewStyle(),
		Muted:  lipgloss.NewStyle().Faint(true),
	}
}

// Model holds the trace chart state.
type Model struct {
	styles       Styles
	width        int
	height       int
	points       []chart.Point
	step         float64
	window       chart.Range
	cursor       chart.Range
	hasCursor    bool
	emptyMessage string
}

// Option is a functional option for configuring the chart.
type Option func(*Model)

// New creates a new trace chart model.
func New(opts ...Option) Model {
	m := Model{
		styles:       DefaultStyles(),
		emptyMessage: "waiting for samples",
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// WithStyles sets custom styles for the chart.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// WithSize sets the dimensions of the chart.
func WithSize(w, h int) Option {
	return func(m *Model) { m.width, m.height = w, h }
}

// WithEmptyMessage sets the message shown when there is nothing to plot.
func WithEmptyMessage(msg string) Option {
	return func(m *Model) { m.emptyMessage = msg }
}

// SetStyles updates the chart styles.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

// SetSize updates the chart dimensions.
func (m *Model) SetSize(w, h int) {
	m.width, m.height = w, h
}

// SetTrace sets the points to plot over window. The slice is read during
// View only and may be reused by the caller afterwards.
func (m *Model) SetTrace(points []chart.Point, step float64, window chart.Range) {
	m.points = points
	m.step = step
	m.window = window
}

// SetCursor sets the marked interval.
func (m *Model) SetCursor(r chart.Range) {
	m.cursor = r
	m.hasCursor = true
}

// ClearCursor removes the marked interval.
func (m *Model) ClearCursor() {
	m.hasCursor = false
}

// PlotColumns returns the number of terminal columns of the plot area. Each
// column holds two braille dots horizontally.
func (m Model) PlotColumns() int {
	return max(m.width-yLabelWidth-1, 1)
}

// Width returns the current width.
func (m Model) Width() int {
	return m.width
}

// Height returns the current height.
func (m Model) Height() int {
	return m.height
}

// View renders the chart.
func (m Model) View() string {
	if m.width < yLabelWidth+3 || m.height < 3 {
		return ""
	}
	minY, maxY, ok := valueRange(m.points)
	if !ok || !m.window.Valid() {
		return charts.RenderCentered(m.width, m.height, m.styles.Muted.Render(m.emptyMessage))
	}

	dur := m.window.Duration()
	lc := linechart.New(
		m.width, m.height,
		0, dur,
		minY, maxY,
		linechart.WithXYSteps(1, max(m.height/4, 1)),
		linechart.WithStyles(m.styles.Axis, m.styles.Label, m.styles.Trace),
		linechart.WithXLabelFormatter(func(_ int, _ float64) string { return "" }),
		linechart.WithYLabelFormatter(func(_ int, v float64) string {
			return fmt.Sprintf("%*s", yLabelWidth, format.Current(v))
		}),
	)
	lc.DrawXYAxisAndLabel()

	m.drawTrace(&lc, dur)
	if m.hasCursor {
		lc.Style = m.styles.Cursor
		for _, edge := range []float64{m.cursor.Begin, m.cursor.End} {
			if edge < m.window.Begin || edge > m.window.End {
				continue
			}
			x := edge - m.window.Begin
			lc.DrawBrailleLine(canvas.Float64Point{X: x, Y: minY}, canvas.Float64Point{X: x, Y: maxY})
		}
	}

	lines := strings.Split(lc.View(), "\n")
	labels := charts.TimeLabels(m.window, max(m.PlotColumns()/minLabelSpacing, 2))
	labelLine := strings.Repeat(" ", yLabelWidth) +
		m.styles.Muted.Render(charts.BuildLabelLine(m.PlotColumns()+1, labels))
	if len(lines) > 0 {
		lines[len(lines)-1] = labelLine
	}
	return strings.Join(lines, "\n")
}

func (m Model) drawTrace(lc *linechart.Model, dur float64) {
	var prev canvas.Float64Point
	havePrev := false
	for i, p := range m.points {
		if !p.Valid {
			havePrev = false
			continue
		}
		cur := canvas.Float64Point{
			X: mathutil.Clamp(p.Time-m.window.Begin, 0, dur),
			Y: p.Value,
		}
		switch {
		case havePrev:
			lc.DrawBrailleLine(prev, cur)
		case i+1 >= len(m.points) || !m.points[i+1].Valid:
			lc.DrawBrailleLine(cur, cur)
		}
		prev, havePrev = cur, true
	}

	if m.step > 0 && m.step <= markerStep {
		for _, p := range m.points {
			if p.Valid {
				lc.DrawRune(canvas.Float64Point{X: mathutil.Clamp(p.Time-m.window.Begin, 0, dur), Y: p.Value}, '•')
			}
		}
	}
}

// valueRange returns the plotted current range. It always includes zero and
// leaves headroom above the largest value.
func valueRange(points []chart.Point) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		if !p.Valid {
			continue
		}
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	if math.IsInf(lo, 1) {
		return 0, 0, false
	}
	lo = math.Min(lo, 0)
	hi = math.Max(hi, 0)
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	return lo, hi + span*0.05, true
}
