// Package stats renders the one-line statistics bar above the chart.
package stats

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/tracescope/tracescope/internal/chart"
	"github.com/tracescope/tracescope/internal/ui/format"
)

// Data holds what the bar shows for one frame.
type Data struct {
	Paused    bool
	HasCursor bool
	Stats     chart.Stats
	Mode      chart.Mode
	Step      float64
}

// UpdateMsg is sent when the statistics should be updated.
type UpdateMsg struct {
	Data Data
}

// Styles holds the styles needed by the stats bar.
type Styles struct {
	Bar    lipgloss.Style
	Fill   lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Live   lipgloss.Style
	Paused lipgloss.Style
}

// DefaultStyles returns default styles for the stats bar.
func DefaultStyles() Styles {
	return Styles{
		Bar:    lipgloss.NewStyle().Padding(0, 1),
		Fill:   lipgloss.NewStyle(),
		Label:  lipgloss.NewStyle().Faint(true),
		Value:  lipgloss.NewStyle().Bold(true),
		Live:   lipgloss.NewStyle().Bold(true),
		Paused: lipgloss.NewStyle().Bold(true),
	}
}

// Model defines state for the stats bar component.
type Model struct {
	styles Styles
	data   Data
	width  int
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new stats bar model.
func New(opts ...Option) Model {
	m := Model{
		styles: DefaultStyles(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// WithStyles sets the styles.
func WithStyles(s Styles) Option {
	return func(m *Model) {
		m.styles = s
	}
}

// WithWidth sets the width.
func WithWidth(w int) Option {
	return func(m *Model) {
		m.width = w
	}
}

// WithData sets the initial data.
func WithData(d Data) Option {
	return func(m *Model) {
		m.data = d
	}
}

// SetStyles sets the styles.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

// SetWidth sets the width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// SetData sets the displayed data.
func (m *Model) SetData(d Data) {
	m.data = d
}

// Data returns the current data.
func (m Model) Data() Data {
	return m.data
}

// Height returns the height of the bar (always 1).
func (m Model) Height() int {
	return 1
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(UpdateMsg); ok {
		m.data = msg.Data
	}
	return m, nil
}

// View renders the stats bar. The state badge keeps its natural width and
// the measurements share the rest; when the bar is too narrow the least
// important measurements are dropped before anything is truncated.
func (m Model) View() string {
	barStyle := m.styles.Bar.Width(m.width)
	if m.width <= 0 {
		return barStyle.Render("")
	}

	const sep = " "
	contentWidth := max(m.width-barStyle.GetHorizontalPadding(), 0)

	cells := m.cells()
	for naturalWidth(cells, len(sep)) > contentWidth {
		i := lastDropped(cells)
		if i < 0 {
			break
		}
		cells = append(cells[:i], cells[i+1:]...)
	}

	widths := make([]int, len(cells))
	flexible := make([]int, 0, len(cells))
	spare := contentWidth - naturalWidth(cells, len(sep))
	for i, c := range cells {
		widths[i] = c.width()
		if !c.badge {
			flexible = append(flexible, i)
		}
	}
	if spare > 0 {
		level(widths, flexible, spare)
	}

	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = m.renderCell(c, widths[i])
	}
	content := ansi.Truncate(strings.Join(parts, sep), contentWidth, "")
	return barStyle.Render(content)
}

// cell is one item of the bar. Cells with a non-zero drop rank are removed
// highest rank first when space runs out.
type cell struct {
	text  string
	badge bool
	drop  int
}

func (c cell) width() int {
	return lipgloss.Width(c.text) + 2
}

func (m Model) cells() []cell {
	d := m.data
	state := m.styles.Live.Render("LIVE")
	if d.Paused {
		state = m.styles.Paused.Render("PAUSED")
	}

	span := "window Δ "
	if d.HasCursor {
		span = "marker Δ "
	}

	mode := d.Mode.String()
	if d.Mode == chart.EnvelopeMode {
		mode += fmt.Sprintf(" ×%.0f", d.Step)
	}

	return []cell{
		{text: state, badge: true},
		{text: m.metric(span, format.Duration(d.Stats.DeltaUs))},
		{text: m.metric("avg ", format.Current(d.Stats.Average))},
		{text: m.metric("max ", format.Current(d.Stats.MaxOrZero())), drop: 1},
		{text: m.metric("charge ", format.Charge(d.Stats.Charge)), drop: 3},
		{text: m.metric("samples ", format.Count(d.Stats.Count)), drop: 4},
		{text: m.metric("", mode), drop: 2},
	}
}

func (m Model) metric(label, value string) string {
	return m.styles.Label.Render(label) + m.styles.Value.Render(value)
}

func (m Model) renderCell(c cell, width int) string {
	pad := m.styles.Fill.Render(" ")
	out := pad + c.text + pad
	if extra := width - c.width(); extra > 0 {
		out += m.styles.Fill.Render(strings.Repeat(" ", extra))
	}
	return out
}

func naturalWidth(cells []cell, sepWidth int) int {
	if len(cells) == 0 {
		return 0
	}
	total := sepWidth * (len(cells) - 1)
	for _, c := range cells {
		total += c.width()
	}
	return total
}

// lastDropped returns the index of the cell with the highest drop rank, or -1
// when every remaining cell is required.
func lastDropped(cells []cell) int {
	idx, rank := -1, 0
	for i, c := range cells {
		if c.drop > rank {
			idx, rank = i, c.drop
		}
	}
	return idx
}

// level hands out extra columns one at a time to the narrowest of the
// selected cells, so the measurements converge on a common width and any
// remainder lands on the leftmost of them.
func level(widths, selected []int, extra int) {
	if len(selected) == 0 {
		return
	}
	for ; extra > 0; extra-- {
		n := selected[0]
		for _, i := range selected[1:] {
			if widths[i] < widths[n] {
				n = i
			}
		}
		widths[n]++
	}
}
