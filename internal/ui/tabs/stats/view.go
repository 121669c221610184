package stats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/ui/components"
	"github.com/j-veylop/aiconsole/internal/ui/styles"
)

// breakdownRows caps the bar charts; the remainder is summed as "other".
const breakdownRows = 8

// View renders the stats tab.
func (m *Model) View() string {
	switch m.status {
	case components.StateLoading:
		return m.spinner.Centered(m.width, m.height)
	case components.StateError:
		return styles.DocStyle.Width(m.width).Height(m.height).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				styles.TitleStyle.Render("Usage Statistics"),
				components.RenderErrorBanner(m.err, m.width),
			))
	}

	sections := []string{
		m.renderHeader(),
		m.renderSummary(),
		m.renderTrend(),
		m.renderBreakdown("Requests by network", m.stats.RequestsByNetwork),
		m.renderBreakdown("Requests by client", m.stats.RequestsByClient),
	}
	if len(m.stats.TokensByNetwork) > 0 {
		sections = append(sections, m.renderBreakdown("Tokens by network", m.stats.TokensByNetwork))
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("Usage Statistics")

	rangeStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)
	rangeIndicator := rangeStyle.Render(fmt.Sprintf("[t] %s", m.timeRange))

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", rangeIndicator)

	var subtitle string
	if !m.lastRefresh.IsZero() {
		subtitle = styles.HelpStyle.Render("Updated " + humanize.Time(m.lastRefresh))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

// FormatRate renders a success rate with one decimal place.
func FormatRate(s *models.UsageStats) string {
	return fmt.Sprintf("%.1f%%", s.SuccessRate())
}

func (m *Model) renderSummary() string {
	s := m.stats
	card := func(label, value string, style lipgloss.Style) string {
		return styles.CardStyle.Width(22).Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.HelpStyle.Render(label),
			style.Bold(true).Render(value),
		))
	}

	cards := []string{
		card("Total requests", humanize.Comma(s.TotalRequests), styles.InfoTextStyle),
		card("Successful", humanize.Comma(s.SuccessfulRequests), styles.SuccessTextStyle),
		card("Failed", humanize.Comma(s.FailedRequests), styles.ErrorTextStyle),
		card("Success rate", FormatRate(s), styles.RateStyle(s.SuccessRate())),
		card("Tokens used", humanize.Comma(s.TotalTokensUsed), styles.InfoTextStyle),
	}
	if s.TotalCostRub > 0 {
		cards = append(cards, card("Cost, RUB", humanize.CommafWithDigits(float64(s.TotalCostRub), 2), styles.WarningTextStyle))
	}

	// Wrap cards onto as many rows as the width allows.
	perRow := max((m.width-6)/26, 1)
	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := min(i+perRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderTrend() string {
	cardWidth := max(m.width-6, 40)
	rows := []string{styles.CardTitleStyle.Render("Request volume (" + m.timeRange.String() + ")")}

	deltas := models.RequestDeltas(m.history)
	switch {
	case m.historyErr != nil:
		rows = append(rows, styles.ErrorTextStyle.Render("  "+m.historyErr.Error()))
	case len(deltas) == 0:
		rows = append(rows, styles.HelpStyle.Render("  Not enough snapshots yet. The trend fills in as stats are refreshed."))
	default:
		chart := components.RenderLineChart(deltas, max(cardWidth-16, 30), 6,
			fmt.Sprintf("new requests between %d snapshots", len(m.history)))
		for line := range strings.SplitSeq(chart, "\n") {
			rows = append(rows, "  "+line)
		}
	}

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderBreakdown(title string, counts map[string]int64) string {
	cardWidth := max(m.width-6, 40)
	chart := components.RenderBarChart(models.SortedCounts(counts), cardWidth-8, breakdownRows)
	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render(title),
		chart,
	))
}
