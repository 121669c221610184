// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/ui/styles"
)

// ChartPrimaryColor is the accent used by bars.
var ChartPrimaryColor = lipgloss.Color("#7D56F4")

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Blue),
	)
}

// RenderBarChart creates a horizontal bar chart of named counters.
// At most limit rows are drawn; the rest are summed into "other".
func RenderBarChart(counts []models.Count, width, limit int) string {
	if len(counts) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	if limit > 0 && len(counts) > limit {
		var rest int64
		for _, c := range counts[limit:] {
			rest += c.Value
		}
		counts = append(append([]models.Count{}, counts[:limit]...), models.Count{Name: "other", Value: rest})
	}

	var maxVal int64
	maxLabelLen := 0
	for _, c := range counts {
		maxVal = max(maxVal, c.Value)
		maxLabelLen = max(maxLabelLen, lipgloss.Width(c.Name))
	}
	if maxVal == 0 {
		maxVal = 1
	}
	maxLabelLen = min(maxLabelLen, 24)

	barWidth := max(width-maxLabelLen-12, 10)
	barStyle := lipgloss.NewStyle().Foreground(ChartPrimaryColor)

	lines := make([]string, 0, len(counts))
	for _, c := range counts {
		label := c.Name
		if lipgloss.Width(label) > maxLabelLen {
			label = string([]rune(label)[:maxLabelLen-1]) + "…"
		}
		barLen := int(float64(c.Value) / float64(maxVal) * float64(barWidth))
		bar := barStyle.Render(strings.Repeat("█", max(barLen, 0)))
		lines = append(lines, fmt.Sprintf("%*s │%s %s", maxLabelLen, label, bar, humanize.Comma(c.Value)))
	}

	return strings.Join(lines, "\n")
}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Keep the newest values when there are more than fit.
	if len(values) > width {
		values = values[len(values)-width:]
	}

	var result strings.Builder
	for _, val := range values {
		idx := int((val / maxVal) * float64(len(sparkChars)-1))
		idx = min(max(idx, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[idx])
	}

	return result.String()
}
