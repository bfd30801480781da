// Package scrollbar renders a horizontal bar showing where the visible window
// sits inside the buffered history.
package scrollbar

import (
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/tracescope/tracescope/internal/mathutil"
)

const (
	scrollbarThumb = "━"
	scrollbarTrack = "─"
)

// Styles holds the styles needed for the scrollbar.
type Styles struct {
	Track lipgloss.Style
	Thumb lipgloss.Style
}

// DefaultStyles returns a set of default style definitions for this scrollbar.
func DefaultStyles() Styles {
	return Styles{
		Track: lipgloss.NewStyle().Faint(true),
		Thumb: lipgloss.NewStyle().Bold(true),
	}
}

// Model is a horizontal scrollbar. Positions are in the same unit as the
// range passed to SetRange, microseconds in practice.
type Model struct {
	styles  Styles
	width   int
	total   float64
	visible float64
	offset  float64
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new scrollbar model.
func New(opts ...Option) Model {
	m := Model{
		styles: DefaultStyles(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// WithStyles sets the scrollbar styles.
func WithStyles(s Styles) Option {
	return func(m *Model) {
		m.styles = s
	}
}

// WithWidth sets the scrollbar width.
func WithWidth(width int) Option {
	return func(m *Model) {
		m.width = width
	}
}

// WithRange sets the total span, the visible span, and the visible offset.
func WithRange(total, visible, offset float64) Option {
	return func(m *Model) {
		m.SetRange(total, visible, offset)
	}
}

// SetWidth updates the scrollbar width.
func (m *Model) SetWidth(width int) {
	m.width = width
}

// SetRange updates the total span, the visible span, and the visible offset.
func (m *Model) SetRange(total, visible, offset float64) {
	m.total = total
	m.visible = visible
	m.offset = offset
}

// View renders the scrollbar. The thumb is at least one cell wide.
func (m Model) View() string {
	if m.width <= 0 {
		return ""
	}
	if !(m.total > 0) || !(m.visible > 0) || m.visible >= m.total {
		return m.styles.Thumb.Render(strings.Repeat(scrollbarThumb, m.width))
	}

	ratio := float64(m.width) / m.total
	thumbWidth := max(1, int(math.Round(m.visible*ratio)))
	maxOffset := max(m.width-thumbWidth, 0)
	thumbOffset := mathutil.Clamp(int(math.Round(m.offset*ratio)), 0, maxOffset)

	return m.styles.Track.Render(strings.Repeat(scrollbarTrack, thumbOffset)) +
		m.styles.Thumb.Render(strings.Repeat(scrollbarThumb, thumbWidth)) +
		m.styles.Track.Render(strings.Repeat(scrollbarTrack, m.width-thumbOffset-thumbWidth))
}
