package clients

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/aiconsole/internal/ui/components"
	"github.com/j-veylop/aiconsole/internal/ui/styles"
)

// View renders the clients tab.
func (m *Model) View() string {
	switch m.status {
	case components.StateLoading:
		return m.spinner.Centered(m.width, m.height)
	case components.StateError:
		return styles.DocStyle.Width(m.width).Height(m.height).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				styles.TitleStyle.Render("Clients"),
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
	active := 0
	for _, c := range m.clients {
		if c.IsActive {
			active++
		}
	}

	title := styles.TitleStyle.Render("Client applications")
	subtitle := styles.SubTitleStyle.Render(fmt.Sprintf("%d clients, %d active", len(m.clients), active))

	var body string
	if len(m.clients) == 0 {
		body = components.RenderEmptyState("No clients yet", "Press n to create one and get an API key", m.width-4)
	} else {
		body = m.table.View()
	}

	footer := components.RenderFooter(
		[2]string{"n", "new"},
		[2]string{"e", "edit"},
		[2]string{"d", "delete"},
		[2]string{"g", "regenerate key"},
		[2]string{"c", "copy key"},
		[2]string{"v", "reveal"},
	)
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", body, "", footer)
}
