package logs

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/ui/components"
	"github.com/j-veylop/aiconsole/internal/ui/styles"
)

const timeLayout = "2006-01-02 15:04:05"

// View renders the logs tab.
func (m *Model) View() string {
	switch m.status {
	case components.StateLoading:
		return m.spinner.Centered(m.width, m.height)
	case components.StateError:
		return styles.DocStyle.Width(m.width).Height(m.height).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				styles.TitleStyle.Render("Request logs"),
				components.RenderErrorBanner(m.err, m.width),
			))
	}

	if m.showDetails {
		return styles.DocStyle.Width(m.width).Height(m.height).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				styles.TitleStyle.Render("Request details"),
				m.details.View(),
				components.RenderFooter([2]string{"↑/↓", "scroll"}, [2]string{"esc", "back"}),
			))
	}

	var body string
	if len(m.logs) == 0 {
		hint := "Requests proxied by the gateway show up here"
		if !m.filter.Empty() {
			hint = "Nothing matches the filters. Press x to clear them"
		}
		body = components.RenderEmptyState("No requests", hint, m.width-4)
	} else {
		body = m.table.View()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderFilters(),
		"",
		body,
		"",
		m.renderPager(),
	)
	return styles.DocStyle.Width(m.width).Height(m.height).Render(content)
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("Request logs")
	count := styles.SubTitleStyle.Render(fmt.Sprintf("%s entries", humanize.Comma(m.totalElements)))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", count)
}

func (m *Model) renderFilters() string {
	chip := func(label, value string, set bool) string {
		style := styles.BlurredStyle
		if set {
			style = styles.FocusedStyle.Bold(true)
		}
		return style.Render(fmt.Sprintf("%s: %s", label, value))
	}

	success := "any"
	if m.filter.Success != nil {
		success = "failed"
		if *m.filter.Success {
			success = "successful"
		}
	}
	client := "all"
	if m.filter.ClientID != nil {
		client = m.clientName(*m.filter.ClientID)
	}
	network := "all"
	if m.filter.NetworkID != nil {
		network = m.networkName(*m.filter.NetworkID)
	}

	return strings.Join([]string{
		chip("[s] status", success, m.filter.Success != nil),
		chip("[c] client", client, m.filter.ClientID != nil),
		chip("[m] network", network, m.filter.NetworkID != nil),
	}, "   ")
}

// renderPager shows the page position and dims the arrows that lead nowhere.
func (m *Model) renderPager() string {
	prev := styles.HelpKeyStyle.Render("← prev")
	if m.page <= 0 {
		prev = styles.BlurredStyle.Render("← prev")
	}
	next := styles.HelpKeyStyle.Render("next →")
	if m.page >= m.totalPages-1 {
		next = styles.BlurredStyle.Render("next →")
	}

	pages := max(m.totalPages, 1)
	position := fmt.Sprintf("Page %d of %d", m.page+1, pages)
	return lipgloss.JoinHorizontal(lipgloss.Center, prev, "   ", position, "   ", next,
		"     ", components.RenderFooter([2]string{"enter", "details"}, [2]string{"x", "clear filters"}))
}

func (m *Model) clientName(id string) string {
	for _, c := range m.clients {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

func (m *Model) networkName(id string) string {
	for _, n := range m.networks {
		if n.ID == id {
			return n.Label()
		}
	}
	return id
}

func (m *Model) updateTableData() {
	rows := make([]table.Row, 0, len(m.logs))
	for _, l := range m.logs {
		ok := "✓"
		if !l.Success {
			ok = "✗"
		}
		rows = append(rows, table.Row{
			formatTime(l.CreatedAt),
			l.ClientApplicationName,
			l.NeuralNetworkName,
			l.RequestType,
			formatTokens(l.TokensUsed),
			ok,
			singleLine(l.Prompt),
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func formatTime(t models.Timestamp) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func formatTokens(v *int64) string {
	if v == nil {
		return "-"
	}
	return humanize.Comma(*v)
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func renderDetails(l *models.RequestLog, width int) string {
	wrap := func(s string) string {
		if s == "" {
			return styles.HelpStyle.Render("(empty)")
		}
		return ansi.Wrap(s, max(width-2, 20), "")
	}
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, styles.LabelStyle.Render(label), value)
	}

	status := styles.SuccessTextStyle.Render("success")
	if !l.Success {
		status = styles.ErrorTextStyle.Render("failed")
	}

	rows := []string{
		row("ID", l.ID),
		row("Time", formatTime(l.CreatedAt)),
		row("Status", status),
		row("Client", l.ClientApplicationName),
		row("Network", l.NeuralNetworkName),
		row("Request type", l.RequestType),
		row("External user", l.ExternalUserID),
		row("Tokens", formatTokens(l.TokensUsed)),
	}
	if l.ErrorMessage != "" {
		rows = append(rows, "", styles.CardTitleStyle.Render("Error"), styles.ErrorTextStyle.Render(wrap(l.ErrorMessage)))
	}
	rows = append(rows,
		"",
		styles.CardTitleStyle.Render("Prompt"),
		wrap(l.Prompt),
		"",
		styles.CardTitleStyle.Render("Response"),
		wrap(l.Response),
	)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
