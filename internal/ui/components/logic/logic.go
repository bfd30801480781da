// Package logic renders the digital channels as one row of square-wave
// glyphs per channel.
package logic

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/tracescope/tracescope/internal/chart"
)

const (
	glyphHigh  = "▔"
	glyphLow   = "▁"
	glyphEdge  = "│"
	glyphBlank = " "
)

// labelWidth is the width of the "D0 " prefix of each row.
const labelWidth = 3

// Styles holds the styles for the channel rows.
type Styles struct {
	Label    lipgloss.Style
	Muted    lipgloss.Style
	Channels [chart.MaxChannels]lipgloss.Style
}

// DefaultStyles returns default styles.
func DefaultStyles() Styles {
	return Styles{
		Label: lipgloss.NewStyle().Faint(true),
		Muted: lipgloss.NewStyle().Faint(true),
	}
}

// Model holds the digital row state.
type Model struct {
	styles   Styles
	width    int
	series   [chart.MaxChannels][]chart.Point
	channels int
	window   chart.Range
	hint     string
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new logic row model.
func New(opts ...Option) Model {
	m := Model{
		styles: DefaultStyles(),
		hint:   "digital channels hidden",
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// WithStyles sets the styles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// WithWidth sets the width.
func WithWidth(w int) Option {
	return func(m *Model) { m.width = w }
}

// WithHint sets the line shown when no channel is produced.
func WithHint(hint string) Option {
	return func(m *Model) { m.hint = hint }
}

// SetWidth sets the width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// SetOutput takes the digital series of out over window. Only the slice
// headers are kept, so out must stay unchanged until View returns.
func (m *Model) SetOutput(out *chart.Output, window chart.Range) {
	m.channels = out.Channels
	for ch := range m.series {
		m.series[ch] = out.Digital(ch)
	}
	m.window = window
}

// Height returns the number of rows View produces.
func (m Model) Height() int {
	return chart.MaxChannels
}

// View renders one row per channel. When digital channels are off, the first
// row carries the hint and the rest are blank.
func (m Model) View() string {
	if m.width <= labelWidth {
		return ""
	}
	cols := m.width - labelWidth
	rows := make([]string, chart.MaxChannels)
	for ch := range rows {
		label := m.styles.Label.Render(fmt.Sprintf("D%d ", ch))
		if ch >= m.channels || !m.window.Valid() {
			line := ""
			if ch == 0 {
				line = m.styles.Muted.Render(truncate(m.hint, cols))
			}
			rows[ch] = label + pad(line, cols)
			continue
		}
		rows[ch] = label + m.styles.Channels[ch].Render(strings.Join(Glyphs(m.series[ch], m.window, cols), ""))
	}
	return strings.Join(rows, "\n")
}

// Glyphs maps a step-after digital series onto cols cells spanning window.
// A cell holding a level change draws an edge; cells before the first point
// are blank.
func Glyphs(points []chart.Point, window chart.Range, cols int) []string {
	out := make([]string, cols)
	colUs := window.Duration() / float64(cols)

	i := 0
	known, high := false, false
	for c := range out {
		end := window.Begin + colUs*float64(c+1)
		edge := false
		for ; i < len(points) && (points[i].Time < end || c == cols-1); i++ {
			if !points[i].Valid {
				continue
			}
			level := points[i].Value > 0
			if known && level != high {
				edge = true
			}
			known, high = true, level
		}

		switch {
		case edge:
			out[c] = glyphEdge
		case !known:
			out[c] = glyphBlank
		case high:
			out[c] = glyphHigh
		default:
			out[c] = glyphLow
		}
	}
	return out
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return string([]rune(s)[:width])
}
