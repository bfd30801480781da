// Package charts holds layout helpers shared by the plot components.
package charts

import (
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/tracescope/tracescope/internal/chart"
	"github.com/tracescope/tracescope/internal/mathutil"
	"github.com/tracescope/tracescope/internal/ui/format"
)

// AxisMap creates a mapping from source indices to target indices.
func AxisMap(total, target int) []int {
	if total <= 0 || target <= 0 {
		return nil
	}
	mapping := make([]int, total)
	if total == 1 {
		return mapping
	}
	maxIdx := float64(target - 1)
	denom := float64(total - 1)
	for i := range total {
		mapping[i] = int(math.Round(float64(i) * maxIdx / denom))
	}
	return mapping
}

// BuildLabelLine places labels evenly across width, centred on their
// positions. Labels that would overlap the previous one are dropped.
func BuildLabelLine(width int, labels []string) string {
	if width <= 0 {
		return ""
	}
	line := []rune(strings.Repeat(" ", width))
	if len(labels) == 0 || width < 2 {
		return string(line)
	}

	positions := AxisMap(len(labels), width)
	lastEnd := -1
	for i, label := range labels {
		if label == "" {
			continue
		}
		labelRunes := []rune(label)
		start := positions[i] - len(labelRunes)/2
		start = mathutil.Clamp(start, 0, max(width-len(labelRunes), 0))
		if start <= lastEnd+1 && lastEnd >= 0 {
			continue
		}
		end := min(start+len(labelRunes), width)
		copy(line[start:end], labelRunes)
		lastEnd = end - 1
	}
	return string(line)
}

// TimeLabels returns count wall-clock labels spread evenly over r.
func TimeLabels(r chart.Range, count int) []string {
	if count < 1 {
		return nil
	}
	if count == 1 {
		return []string{format.Clock(r.Begin, r.Duration())}
	}
	step := r.Duration() / float64(count-1)
	labels := make([]string, count)
	for i := range labels {
		labels[i] = format.Clock(r.Begin+step*float64(i), step)
	}
	return labels
}

// RenderCentered centers content within a given width and height.
func RenderCentered(width, height int, value string) string {
	if height < 1 {
		return ""
	}
	lines := make([]string, height)
	for i := range lines {
		lines[i] = strings.Repeat(" ", max(width, 0))
	}
	if width <= 0 {
		return strings.Join(lines, "\n")
	}

	contentLines := strings.Split(value, "\n")
	startLine := max((height-len(contentLines))/2, 0)

	maxWidthStyle := lipgloss.NewStyle().MaxWidth(width)
	for i, contentLine := range contentLines {
		lineIdx := startLine + i
		if lineIdx >= height {
			break
		}
		trimmed := maxWidthStyle.Render(contentLine)
		pad := max((width-lipgloss.Width(trimmed))/2, 0)
		right := max(width-pad-lipgloss.Width(trimmed), 0)
		lines[lineIdx] = strings.Repeat(" ", pad) + trimmed + strings.Repeat(" ", right)
	}

	return strings.Join(lines, "\n")
}
