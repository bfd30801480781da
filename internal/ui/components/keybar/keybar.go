// Package keybar renders the bottom bar listing the active key bindings.
package keybar

import (
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Styles holds the styles needed by the key bar.
type Styles struct {
	Bar   lipgloss.Style
	Key   lipgloss.Style
	Item  lipgloss.Style
	Brand lipgloss.Style
}

// DefaultStyles returns default styles for the key bar.
func DefaultStyles() Styles {
	return Styles{
		Bar:   lipgloss.NewStyle().Padding(0, 1),
		Key:   lipgloss.NewStyle().Padding(0, 1),
		Item:  lipgloss.NewStyle().PaddingRight(1),
		Brand: lipgloss.NewStyle().Bold(true),
	}
}

// Model defines state for the key bar component.
type Model struct {
	styles   Styles
	bindings []key.Binding
	brand    string
	width    int
}

// Option is used to set options in New.
type Option func(*Model)

// New creates a new key bar model.
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

// WithBindings sets the bindings to list.
func WithBindings(bindings ...key.Binding) Option {
	return func(m *Model) {
		m.bindings = bindings
	}
}

// WithBrand sets the text shown at the right edge.
func WithBrand(brand string) Option {
	return func(m *Model) {
		m.brand = brand
	}
}

// WithWidth sets the width.
func WithWidth(w int) Option {
	return func(m *Model) {
		m.width = w
	}
}

// SetWidth sets the width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// SetBindings replaces the listed bindings.
func (m *Model) SetBindings(bindings ...key.Binding) {
	m.bindings = bindings
}

// Height returns the height of the key bar (always 1).
func (m Model) Height() int {
	return 1
}

// View renders the key bar. Disabled bindings are skipped.
func (m Model) View() string {
	if m.width <= 0 {
		return ""
	}
	barStyle := m.styles.Bar
	contentWidth := max(m.width-barStyle.GetHorizontalFrameSize(), 0)

	var b strings.Builder
	for _, binding := range m.bindings {
		if !binding.Enabled() {
			continue
		}
		help := binding.Help()
		if help.Key == "" {
			continue
		}
		b.WriteString(m.styles.Key.Render(help.Key))
		b.WriteString(m.styles.Item.Render(help.Desc))
	}
	items := b.String()

	brand := ""
	if m.brand != "" {
		brand = m.styles.Brand.Render(m.brand)
	}
	brandWidth := lipgloss.Width(brand)
	if lipgloss.Width(items)+brandWidth > contentWidth {
		brand = ""
		brandWidth = 0
	}
	items = ansi.Truncate(items, contentWidth, "")

	gap := max(contentWidth-lipgloss.Width(items)-brandWidth, 0)
	return barStyle.Render(items + strings.Repeat(" ", gap) + brand)
}
