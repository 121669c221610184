package access

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/aiconsole/internal/ui/components"
	"github.com/j-veylop/aiconsole/internal/ui/styles"
)

// View renders the access tab.
func (m *Model) View() string {
	switch m.status {
	case components.StateLoading:
		return m.spinner.Centered(m.width, m.height)
	case components.StateError:
		return styles.DocStyle.Width(m.width).Height(m.height).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				styles.TitleStyle.Render("Access grants"),
				components.RenderErrorBanner(m.err, m.width),
			))
	}

	var content string
	if m.form != nil {
		form := m.form.View()
		if m.saving {
			form = lipgloss.JoinVertical(lipgloss.Left, form, "Saving...")
		}
		content = styles.CenterHorizontal(form, m.width-4)
	} else {
		content = m.renderList()
		if m.confirm.IsOpen() {
			content = lipgloss.JoinVertical(lipgloss.Left, content, "", m.confirm.View(m.width-4))
		}
	}
	return styles.DocStyle.Width(m.width).Height(m.height).Render(content)
}

func (m *Model) renderList() string {
	title := styles.TitleStyle.Render("Access grants")

	scope := "All clients"
	if m.clientFilter != "" {
		scope = "Client: " + m.clientName(m.clientFilter)
	}
	subtitle := styles.SubTitleStyle.Render(fmt.Sprintf("%s  [f] change", scope))

	var body string
	if len(m.data.grants) == 0 {
		body = components.RenderEmptyState("No access grants", "Press n to grant a client access to a network", m.width-4)
	} else {
		body = m.table.View()
	}

	footer := components.RenderFooter(
		[2]string{"n", "grant"},
		[2]string{"e", "edit limits"},
		[2]string{"d", "revoke"},
		[2]string{"A", "grant all"},
		[2]string{"f", "filter"},
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, m.renderStats(), "", body, "", footer)
}

func (m *Model) renderStats() string {
	s := m.data.stats
	if s == nil {
		return ""
	}
	card := func(label string, v int64) string {
		return styles.CardStyle.Width(20).Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.HelpStyle.Render(label),
			styles.InfoTextStyle.Bold(true).Render(humanize.Comma(v)),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Grants", s.TotalAccesses),
		card("With limits", s.AccessesWithLimits),
		card("Unlimited", s.UnlimitedAccesses),
	)
}
