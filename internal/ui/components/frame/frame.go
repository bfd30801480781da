// Package frame renders a bordered panel with a title on the left of the top
// border and an optional badge on the right.
package frame

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Styles holds the styles used by a frame.
type Styles struct {
	Title  lipgloss.Style
	Meta   lipgloss.Style
	Border lipgloss.Style
}

// DefaultStyles returns default styles for a frame.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true),
		Meta:   lipgloss.NewStyle().Faint(true),
		Border: lipgloss.NewStyle(),
	}
}

// Model defines state for the frame component.
type Model struct {
	styles  Styles
	border  lipgloss.Border
	title   string
	meta    string
	content string
	width   int
	height  int
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new frame model.
func New(opts ...Option) Model {
	m := Model{
		styles: DefaultStyles(),
		border: lipgloss.RoundedBorder(),
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

// WithTitle sets the title.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// WithMeta sets the badge shown on the right of the top border.
func WithMeta(meta string) Option {
	return func(m *Model) {
		m.meta = meta
	}
}

// WithContent sets the content.
func WithContent(content string) Option {
	return func(m *Model) {
		m.content = content
	}
}

// WithSize sets the outer width and height.
func WithSize(width, height int) Option {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// SetStyles sets the styles.
func (m *Model) SetStyles(s Styles) {
	m.styles = s
}

// SetTitle sets the title.
func (m *Model) SetTitle(title string) {
	m.title = title
}

// SetMeta sets the badge text.
func (m *Model) SetMeta(meta string) {
	m.meta = meta
}

// SetContent sets the content.
func (m *Model) SetContent(content string) {
	m.content = content
}

// SetSize sets the outer width and height.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// InnerSize returns the space available to content.
func (m Model) InnerSize() (int, int) {
	return max(m.width-2, 0), max(m.height-2, 0)
}

// View renders the frame around the current content.
func (m Model) View() string {
	if m.width < 2 || m.height < 2 {
		return ""
	}

	innerWidth, innerHeight := m.InnerSize()
	lines := make([]string, 0, m.height)
	lines = append(lines, m.top(innerWidth))

	content := strings.Split(m.content, "\n")
	left := m.styles.Border.Render(m.border.Left)
	right := m.styles.Border.Render(m.border.Right)
	for i := range innerHeight {
		var line string
		if i < len(content) {
			line = ansi.Truncate(content[i], innerWidth, "")
		}
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		lines = append(lines, left+line+right)
	}

	bar := m.styles.Border.Render(strings.Repeat(m.border.Bottom, innerWidth))
	lines = append(lines, m.styles.Border.Render(m.border.BottomLeft)+bar+m.styles.Border.Render(m.border.BottomRight))
	return strings.Join(lines, "\n")
}

func (m Model) top(innerWidth int) string {
	// One bar segment is kept on each side of the labels.
	available := max(innerWidth-2, 0)

	title := label(m.title)
	meta := label(m.meta)
	if lipgloss.Width(title)+lipgloss.Width(meta) > available {
		meta = ""
	}
	if lipgloss.Width(title) > available {
		title = ansi.Truncate(title, available, "…")
	}

	styledTitle := m.styles.Title.Render(title)
	styledMeta := m.styles.Meta.Render(meta)
	fill := max(available-lipgloss.Width(title)-lipgloss.Width(meta), 0)
	if innerWidth < 2 {
		return m.styles.Border.Render(m.border.TopLeft + strings.Repeat(m.border.Top, innerWidth) + m.border.TopRight)
	}

	return m.styles.Border.Render(m.border.TopLeft+m.border.Top) +
		styledTitle +
		m.styles.Border.Render(strings.Repeat(m.border.Top, fill)) +
		styledMeta +
		m.styles.Border.Render(m.border.Top+m.border.TopRight)
}

func label(text string) string {
	if text == "" {
		return ""
	}
	return " " + text + " "
}
