// Package theme defines the colour palette and derived lipgloss styles.
package theme

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/compat"
)

// Theme defines all colors used throughout the UI.
type Theme struct {
	// Base colors
	Primary compat.CompleteAdaptiveColor

	// Text colors
	Text      compat.CompleteAdaptiveColor
	TextMuted compat.CompleteAdaptiveColor

	// Bars
	StatsBarBg compat.CompleteAdaptiveColor
	StatsText  compat.CompleteAdaptiveColor

	// Borders
	Border compat.AdaptiveColor

	// Plot
	Trace  compat.CompleteAdaptiveColor
	Cursor compat.AdaptiveColor
	Live   compat.AdaptiveColor
	Paused compat.AdaptiveColor
	Error  compat.AdaptiveColor

	// Digital channels D0..D7
	Channels [8]compat.AdaptiveColor
}

func adaptive(light, dark string) compat.AdaptiveColor {
	return compat.AdaptiveColor{Light: lipgloss.Color(light), Dark: lipgloss.Color(dark)}
}

// DefaultTheme is the adaptive color scheme used by default.
var DefaultTheme = Theme{
	Primary: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#00709A"), ANSI256: lipgloss.Color("31"), ANSI: lipgloss.Color("6")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#00A9CE"), ANSI256: lipgloss.Color("38"), ANSI: lipgloss.Color("14")},
	},

	// Text
	Text: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#111827"), ANSI256: lipgloss.Color("0"), ANSI: lipgloss.Color("0")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#F9FAFB"), ANSI256: lipgloss.Color("15"), ANSI: lipgloss.Color("15")},
	},
	TextMuted: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#6B7280"), ANSI256: lipgloss.Color("240"), ANSI: lipgloss.Color("8")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#9CA3AF"), ANSI256: lipgloss.Color("250"), ANSI: lipgloss.Color("7")},
	},

	StatsBarBg: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#0B7285"), ANSI256: lipgloss.Color("30"), ANSI: lipgloss.Color("6")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#1098AD"), ANSI256: lipgloss.Color("31"), ANSI: lipgloss.Color("6")},
	},
	StatsText: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#f8f9fa"), ANSI256: lipgloss.Color("255"), ANSI: lipgloss.Color("15")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#f8f9fa"), ANSI256: lipgloss.Color("255"), ANSI: lipgloss.Color("15")},
	},

	Border: adaptive("#D1D5DB", "#374151"),

	Trace: compat.CompleteAdaptiveColor{
		Light: compat.CompleteColor{TrueColor: lipgloss.Color("#1864AB"), ANSI256: lipgloss.Color("25"), ANSI: lipgloss.Color("4")},
		Dark:  compat.CompleteColor{TrueColor: lipgloss.Color("#74C0FC"), ANSI256: lipgloss.Color("117"), ANSI: lipgloss.Color("12")},
	},
	Cursor: adaptive("#0064FF", "#4DABF7"),
	Live:   adaptive("#16A34A", "#22C55E"),
	Paused: adaptive("#D97706", "#FBBF24"),
	Error:  adaptive("#FF0000", "#FF0000"),

	Channels: [8]compat.AdaptiveColor{
		adaptive("#D32F2F", "#F44336"), // red
		adaptive("#303F9F", "#7986CB"), // indigo
		adaptive("#FFA000", "#FFC107"), // amber
		adaptive("#7B1FA2", "#BA68C8"), // purple
		adaptive("#388E3C", "#4CAF50"), // green
		adaptive("#512DA8", "#9575CD"), // deep purple
		adaptive("#F57C00", "#FF9800"), // orange
		adaptive("#AFB42B", "#CDDC39"), // lime
	},
}

// Styles holds all lipgloss styles derived from a theme.
type Styles struct {
	// Stats bar
	StatsBar   lipgloss.Style
	StatsFill  lipgloss.Style
	StatsLabel lipgloss.Style
	StatsValue lipgloss.Style
	Live       lipgloss.Style
	Paused     lipgloss.Style

	// Key bar
	KeyBar  lipgloss.Style
	KeyItem lipgloss.Style
	KeyCap  lipgloss.Style

	// Content
	Title lipgloss.Style
	Muted lipgloss.Style

	// Frame
	BorderStyle lipgloss.Style

	// Plot
	Axis     lipgloss.Style
	Label    lipgloss.Style
	Trace    lipgloss.Style
	Cursor   lipgloss.Style
	Channels [8]lipgloss.Style

	// Errors
	ErrorTitle  lipgloss.Style
	ErrorBorder lipgloss.Style
}

// NewStyles creates a Styles instance from the default adaptive theme.
func NewStyles() Styles {
	t := DefaultTheme
	s := Styles{
		StatsBar: lipgloss.NewStyle().
			Foreground(t.StatsText).
			Background(t.StatsBarBg),

		StatsFill: lipgloss.NewStyle().
			Background(t.StatsBarBg),

		StatsLabel: lipgloss.NewStyle().
			Foreground(t.StatsText).
			Background(t.StatsBarBg),

		StatsValue: lipgloss.NewStyle().
			Foreground(t.StatsText).
			Background(t.StatsBarBg).
			Bold(true),

		Live: lipgloss.NewStyle().
			Foreground(t.Live).
			Background(t.StatsBarBg).
			Bold(true),

		Paused: lipgloss.NewStyle().
			Foreground(t.Paused).
			Background(t.StatsBarBg).
			Bold(true),

		KeyBar: lipgloss.NewStyle().
			Padding(0, 1),

		KeyItem: lipgloss.NewStyle().
			Foreground(t.TextMuted).
			PaddingRight(1),

		KeyCap: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.Border).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		BorderStyle: lipgloss.NewStyle().
			Foreground(t.Border),

		Axis: lipgloss.NewStyle().
			Foreground(t.Border),

		Label: lipgloss.NewStyle().
			Foreground(t.TextMuted),

		Trace: lipgloss.NewStyle().
			Foreground(t.Trace),

		Cursor: lipgloss.NewStyle().
			Foreground(t.Cursor),

		ErrorTitle: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		ErrorBorder: lipgloss.NewStyle().
			Foreground(t.Error),
	}
	for i, c := range t.Channels {
		s.Channels[i] = lipgloss.NewStyle().Foreground(c)
	}
	return s
}
