package networks

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/ui/components"
	"github.com/j-veylop/aiconsole/internal/ui/styles"
)

// View renders the networks tab.
func (m *Model) View() string {
	switch m.status {
	case components.StateLoading:
		return m.spinner.Centered(m.width, m.height)
	case components.StateError:
		return styles.DocStyle.Width(m.width).Height(m.height).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				styles.TitleStyle.Render("Networks"),
				components.RenderErrorBanner(m.err, m.width),
			))
	}

	var content string
	switch {
	case m.form != nil:
		form := m.form.View()
		if m.saving {
			form = lipgloss.JoinVertical(lipgloss.Left, form, m.spinner.View()+" Saving...")
		}
		content = styles.CenterHorizontal(form, m.width-4)
	case m.confirm.IsOpen():
		content = lipgloss.JoinVertical(lipgloss.Left, m.renderList(), "", m.confirm.View(m.width-4))
	case m.showDetails:
		content = lipgloss.JoinVertical(lipgloss.Left,
			styles.TitleStyle.Render("Network details"),
			m.details.View(),
			components.RenderFooter([2]string{"↑/↓", "scroll"}, [2]string{"esc", "back"}),
		)
	default:
		content = m.renderList()
	}

	return styles.DocStyle.Width(m.width).Height(m.height).Render(content)
}

func (m *Model) renderList() string {
	title := styles.TitleStyle.Render("Networks")
	subtitle := styles.SubTitleStyle.Render(fmt.Sprintf("%d configured, sorted by priority", len(m.networks)))

	var body string
	if len(m.networks) == 0 {
		body = components.RenderEmptyState("No networks yet", "Press n to add the first provider", m.width-4)
	} else {
		body = m.table.View()
	}

	footer := components.RenderFooter(
		[2]string{"n", "new"},
		[2]string{"e", "edit"},
		[2]string{"d", "delete"},
		[2]string{"enter", "details"},
		[2]string{"r", "refresh"},
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", body, "", footer)
}

func renderDetails(n *models.NeuralNetwork, width int) string {
	row := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return lipgloss.JoinHorizontal(lipgloss.Top,
			styles.LabelStyle.Render(label),
			lipgloss.NewStyle().Width(max(width-28, 20)).Render(value),
		)
	}

	rows := []string{
		styles.CardTitleStyle.Render(n.Label()),
		row("ID", n.ID),
		row("Name", n.Name),
		row("Provider", n.Provider),
		row("Type", string(n.NetworkType)),
		row("API URL", n.APIURL),
		row("Model", n.ModelName),
		row("Priority", fmt.Sprint(n.Priority)),
		row("Timeout", fmt.Sprintf("%ds", n.TimeoutSeconds)),
		row("Max retries", fmt.Sprint(n.MaxRetries)),
		row("Active", styles.ActiveBadge(n.IsActive)),
		row("Free", yesNo(n.IsFree)),
	}
	if n.CostPerTokenRub > 0 {
		rows = append(rows, row("Cost per token", humanize.FtoaWithDigits(float64(n.CostPerTokenRub), 6)+" RUB"))
	}
	if n.WordsPerToken > 0 {
		rows = append(rows, row("Words per token", humanize.Ftoa(float64(n.WordsPerToken))))
	}
	if n.SecondsPerToken > 0 {
		rows = append(rows, row("Seconds per token", humanize.Ftoa(float64(n.SecondsPerToken))))
	}
	if !n.UpdatedAt.IsZero() {
		rows = append(rows, row("Updated", humanize.Time(n.UpdatedAt.Time)))
	}
	rows = append(rows,
		"",
		styles.CardTitleStyle.Render("Connection notes"),
		n.ConnectionInstruction,
		"",
		styles.CardTitleStyle.Render("Request mapping"),
		prettyJSON(n.RequestMapping),
		"",
		styles.CardTitleStyle.Render("Response mapping"),
		prettyJSON(n.ResponseMapping),
	)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func prettyJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return styles.HelpStyle.Render("(none)")
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return strings.TrimSpace(string(out))
}
