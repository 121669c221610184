package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/aiconsole/internal/ui/styles"
)

// LoadState is the lifecycle of a remote list shown by a tab.
type LoadState int

const (
	// StateLoading means a fetch is in flight and nothing is shown yet.
	StateLoading LoadState = iota
	// StateLoaded means the last fetch succeeded.
	StateLoaded
	// StateError means the last fetch failed.
	StateError
)

// String returns the string representation of the LoadState.
func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// RenderErrorBanner renders a failed load with a retry hint.
func RenderErrorBanner(err error, width int) string {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	w := max(width-6, 30)
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.ErrorBannerStyle.Width(w).Render("Error: "+msg),
		styles.HelpStyle.Render("Press r to retry"),
	)
}

// RenderFooter renders key hints separated by pipes.
func RenderFooter(shortcuts ...[2]string) string {
	footer := ""
	for i, s := range shortcuts {
		if i > 0 {
			footer += styles.HelpSeparatorStyle.Render(" | ")
		}
		footer += styles.HelpKeyStyle.Render(s[0]) + " " + s[1]
	}

	return lipgloss.NewStyle().
		MarginTop(1).
		Foreground(styles.TextMuted).
		Render(footer)
}

// RenderEmptyState renders a card explaining that a list is empty.
func RenderEmptyState(title, hint string, width int) string {
	cardWidth := max(width-6, 40)

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.SubTitleStyle.Render(title),
		"",
		styles.InfoTextStyle.Render(hint),
		"",
	)

	return styles.CardStyle.Width(cardWidth).Render(content)
}
