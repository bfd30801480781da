package ui

import "charm.land/bubbles/v2/key"

// KeyMap defines all keybindings.
type KeyMap struct {
	Pause       key.Binding
	PanLeft     key.Binding
	PanRight    key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	CursorBegin key.Binding
	CursorEnd   key.Binding
	ClearCursor key.Binding
	Digital     key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Pause: key.NewBinding(
			key.WithKeys("space"),
			key.WithHelp("space", "pause/live"),
		),
		PanLeft: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "earlier"),
		),
		PanRight: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "later"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		CursorBegin: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "mark start"),
		),
		CursorEnd: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "mark end"),
		),
		ClearCursor: key.NewBinding(
			key.WithKeys("c", "esc"),
			key.WithHelp("c", "clear mark"),
		),
		Digital: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "digital"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings to show in the key bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.PanLeft, k.PanRight, k.ZoomIn, k.ZoomOut, k.CursorBegin, k.CursorEnd, k.ClearCursor, k.Digital, k.Quit}
}

// FullHelp returns keybindings grouped by purpose.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.PanLeft, k.PanRight, k.ZoomIn, k.ZoomOut},
		{k.CursorBegin, k.CursorEnd, k.ClearCursor},
		{k.Digital, k.Quit},
	}
}
