package keybar

import (
	"strings"
	"testing"

	"charm.land/bubbles/v2/key"
	"github.com/charmbracelet/x/ansi"
)

func testBindings() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "pause")),
		key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "pan")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func TestViewDimensions(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		width     int
		wantEmpty bool
	}{
		"zero width": {width: 0, wantEmpty: true},
		"narrow":     {width: 12},
		"wide":       {width: 80},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			m := New(WithWidth(tc.width), WithBindings(testBindings()...), WithBrand("tracescope"))
			out := m.View()
			if tc.wantEmpty {
				if out != "" {
					t.Fatalf("expected empty output, got %q", out)
				}
				return
			}
			if w := ansi.StringWidth(out); w != tc.width {
				t.Fatalf("expected width %d, got %d", tc.width, w)
			}
		})
	}
}

func TestBindingsAndBrandRendered(t *testing.T) {
	t.Parallel()

	m := New(WithWidth(80), WithBindings(testBindings()...), WithBrand("tracescope"))
	out := ansi.Strip(m.View())
	for _, want := range []string{"space", "pause", "←/→", "pan", "quit", "tracescope"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
	if !strings.HasSuffix(strings.TrimRight(out, " "), "tracescope") {
		t.Errorf("brand not right aligned: %q", out)
	}
}

func TestDisabledBindingSkipped(t *testing.T) {
	t.Parallel()

	bindings := testBindings()
	bindings[1].SetEnabled(false)
	m := New(WithWidth(80), WithBindings(bindings...))
	if out := ansi.Strip(m.View()); strings.Contains(out, "pan") {
		t.Fatalf("disabled binding rendered: %q", out)
	}
}
