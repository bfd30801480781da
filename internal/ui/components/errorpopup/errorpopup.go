// Package errorpopup overlays a bordered error box on top of the screen.
package errorpopup

import (
	"strings"

	"charm.land/lipgloss/v2"
)

const maxBoxWidth = 60

// Styles holds the styles needed by the error popup.
type Styles struct {
	Title   lipgloss.Style
	Message lipgloss.Style
	Border  lipgloss.Style
}

// DefaultStyles returns default styles for the error popup.
func DefaultStyles() Styles {
	errorColor := lipgloss.Color("#FF0000")
	return Styles{
		Title:   lipgloss.NewStyle().Foreground(errorColor).Bold(true),
		Message: lipgloss.NewStyle().Faint(true),
		Border:  lipgloss.NewStyle().Foreground(errorColor),
	}
}

// Model defines state for the error popup component.
type Model struct {
	styles     Styles
	title      string
	message    string
	hint       string
	background string
	width      int
	height     int
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new error popup model.
func New(opts ...Option) Model {
	m := Model{
		styles: DefaultStyles(),
		title:  "Acquisition Error",
		hint:   "Sampling has stopped. Press q to quit.",
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

// WithSize sets the width and height.
func WithSize(w, h int) Option {
	return func(m *Model) {
		m.width = w
		m.height = h
	}
}

// WithMessage sets the error message.
func WithMessage(msg string) Option {
	return func(m *Model) {
		m.message = msg
	}
}

// WithTitle sets the box title.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// SetSize sets the width and height.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetMessage sets the error message to display.
func (m *Model) SetMessage(msg string) {
	m.message = msg
}

// SetBackground sets the content the box is drawn over.
func (m *Model) SetBackground(content string) {
	m.background = content
}

// Message returns the current error message.
func (m Model) Message() string {
	return m.message
}

// HasError reports whether there is a message to display.
func (m Model) HasError() bool {
	return m.message != ""
}

// View renders the box centred over the background, or the background alone
// when there is no error.
func (m Model) View() string {
	if m.message == "" || m.width < 6 || m.height < 1 {
		return m.background
	}

	boxWidth := min(maxBoxWidth, m.width-2)
	body := m.styles.Message.Render(m.message) + "\n\n" + m.styles.Message.Render(m.hint)
	box := strings.Split(m.renderBox(body, boxWidth), "\n")

	lines := strings.Split(m.background, "\n")
	for len(lines) < m.height {
		lines = append(lines, "")
	}
	start := max((m.height-len(box))/2, 0)
	for i, line := range box {
		row := start + i
		if row >= len(lines) {
			break
		}
		lines[row] = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderBox(content string, width int) string {
	border := lipgloss.RoundedBorder()
	innerWidth := width - 2

	title := m.styles.Title.Render(" " + m.title + " ")
	fill := max(innerWidth-1-lipgloss.Width(title), 0)
	top := m.styles.Border.Render(border.TopLeft+border.Top) +
		title +
		m.styles.Border.Render(strings.Repeat(border.Top, fill)+border.TopRight)

	rendered := lipgloss.NewStyle().Width(innerWidth).Padding(0, 1).Render(content)
	left := m.styles.Border.Render(border.Left)
	right := m.styles.Border.Render(border.Right)

	lines := []string{top}
	for _, line := range strings.Split(rendered, "\n") {
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		lines = append(lines, left+line+right)
	}
	lines = append(lines, m.styles.Border.Render(border.BottomLeft+strings.Repeat(border.Bottom, innerWidth)+border.BottomRight))
	return strings.Join(lines, "\n")
}
