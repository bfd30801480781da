package errorpopup

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestHasError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		message string
		want    bool
	}{
		"empty":  {message: "", want: false},
		"filled": {message: "device unplugged", want: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			m := New(WithMessage(tc.message))
			if got := m.HasError(); got != tc.want {
				t.Fatalf("HasError() = %v, want %v", got, tc.want)
			}
			if got := m.Message(); got != tc.message {
				t.Fatalf("Message() = %q, want %q", got, tc.message)
			}
		})
	}
}

func TestViewWithoutErrorReturnsBackground(t *testing.T) {
	t.Parallel()

	m := New(WithSize(40, 5))
	m.SetBackground("chart")
	if got := m.View(); got != "chart" {
		t.Fatalf("View() = %q, want background", got)
	}
}

func TestViewOverlay(t *testing.T) {
	t.Parallel()

	background := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 80)+"\n", 12), "\n")
	m := New(WithSize(80, 12), WithMessage("generate samples at 42: boom"))
	m.SetBackground(background)

	lines := strings.Split(ansi.Strip(m.View()), "\n")
	if len(lines) != 12 {
		t.Fatalf("lines = %d, want 12", len(lines))
	}
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"Acquisition Error", "boom", "press q", "╭", "╯"} {
		if !strings.Contains(strings.ToLower(joined), strings.ToLower(want)) {
			t.Fatalf("missing %q in:\n%s", want, joined)
		}
	}
	if lines[0] != strings.Repeat(".", 80) {
		t.Fatalf("first background line overwritten: %q", lines[0])
	}
	for i, line := range lines {
		if w := ansi.StringWidth(line); w != 80 {
			t.Fatalf("line %d width = %d, want 80", i, w)
		}
	}
}
