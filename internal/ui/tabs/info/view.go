package info

import (
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/ui/styles"
	"github.com/j-veylop/aiconsole/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderSessionCard(),
		m.renderActivityCard(),
		m.renderAboutCard(),
	)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration, session and recent changes")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 100)
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration"), ""}

	if m.config != nil {
		timeout := "none"
		if m.config.RequestTimeout > 0 {
			timeout = m.config.RequestTimeout.String()
		}
		rows = append(rows,
			renderRow("Admin API", m.config.APIURL),
			renderRow("Profile", m.config.Profile),
			renderRow("Session file", m.config.SessionPath),
			renderRow("History database", m.config.DatabasePath),
			renderRow("Log file", m.config.LogFile),
			renderRow("Request timeout", timeout),
			renderRow("Stats refresh", m.config.StatsRefreshInterval.String()),
			renderRow("Logs page size", fmt.Sprint(m.config.LogsPageSize)),
		)
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	rows = append(rows, "", styles.HelpStyle.Render("Press 'c' to copy the session file path"))
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderSessionCard() string {
	rows := []string{styles.CardTitleStyle.Render("Session"), ""}

	sess := m.session()
	if sess == nil {
		rows = append(rows, styles.WarningTextStyle.Render("Not signed in"))
	} else {
		rows = append(rows, renderRow("User", sess.Username))
		if !sess.CreatedAt.IsZero() {
			rows = append(rows, renderRow("Signed in", humanize.Time(sess.CreatedAt)))
		}
		if sess.ExpiresIn > 0 && !sess.CreatedAt.IsZero() {
			expires := sess.CreatedAt.Add(time.Duration(sess.ExpiresIn) * time.Second)
			rows = append(rows, renderRow("Token expires", humanize.Time(expires)))
		}
		if sess.APIURL != "" {
			rows = append(rows, renderRow("Issued by", sess.APIURL))
		}
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderActivityCard() string {
	rows := []string{styles.CardTitleStyle.Render("Recent changes"), ""}

	switch {
	case m.activityErr != nil:
		rows = append(rows, styles.ErrorTextStyle.Render(m.activityErr.Error()))
	case len(m.activity) == 0:
		rows = append(rows, styles.HelpStyle.Render("Nothing changed from this machine yet"))
	default:
		for _, ev := range m.activity {
			rows = append(rows, renderEvent(ev))
		}
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderEvent(ev models.AuditEvent) string {
	mark := styles.SuccessTextStyle.Render("✓")
	if !ev.Success {
		mark = styles.ErrorTextStyle.Render("✗")
	}
	when := styles.HelpStyle.Render(fmt.Sprintf("%-14s", humanize.Time(ev.OccurredAt)))
	line := fmt.Sprintf("%s %s %s %s", mark, when, ev.Action, ev.Resource)
	if ev.Username != "" {
		line += styles.HelpStyle.Render(" by " + ev.Username)
	}
	if ev.Error != "" {
		line += styles.ErrorTextStyle.Render(": " + ev.Error)
	}
	return line
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About"),
		"",
		version.Info(),
		renderRow("Go version", runtime.Version()),
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}
