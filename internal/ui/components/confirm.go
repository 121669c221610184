package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/aiconsole/internal/ui/styles"
)

// ConfirmResult is the outcome of a key press on an open Confirm.
type ConfirmResult int

const (
	// ConfirmPending means the dialog is still waiting for an answer.
	ConfirmPending ConfirmResult = iota
	// ConfirmYes means the user accepted.
	ConfirmYes
	// ConfirmNo means the user declined or pressed esc.
	ConfirmNo
)

// Confirm is a y/n dialog guarding a destructive action.
type Confirm struct {
	title   string
	subject string
	warning string
	id      string
	open    bool
}

// Open shows the dialog for the resource identified by id.
func (c *Confirm) Open(title, subject, warning, id string) {
	c.title = title
	c.subject = subject
	c.warning = warning
	c.id = id
	c.open = true
}

// IsOpen reports whether the dialog is shown.
func (c *Confirm) IsOpen() bool {
	return c.open
}

// ID returns the id passed to Open.
func (c *Confirm) ID() string {
	return c.id
}

// Subject returns the display name passed to Open.
func (c *Confirm) Subject() string {
	return c.subject
}

// Close hides the dialog.
func (c *Confirm) Close() {
	c.open = false
}

// Update consumes a key press. The dialog closes on any answer.
func (c *Confirm) Update(msg tea.Msg) ConfirmResult {
	if !c.open {
		return ConfirmPending
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return ConfirmPending
	}
	switch km.String() {
	case "y", "Y":
		c.open = false
		return ConfirmYes
	case "n", "N", "esc":
		c.open = false
		return ConfirmNo
	}
	return ConfirmPending
}

// View renders the dialog centered in width.
func (c *Confirm) View(width int) string {
	if !c.open {
		return ""
	}

	rows := []string{
		"",
		styles.WarningTextStyle.Bold(true).Render(c.title),
		"",
		styles.ErrorTextStyle.Render(c.subject),
		"",
	}
	if c.warning != "" {
		rows = append(rows, c.warning, "")
	}
	rows = append(rows,
		lipgloss.JoinHorizontal(lipgloss.Center,
			styles.ButtonActiveStyle.Render(" (Y)es "),
			"  ",
			styles.ButtonInactiveStyle.Render(" (N)o "),
		),
		"",
	)

	content := lipgloss.JoinVertical(lipgloss.Center, rows...)
	return styles.CenterHorizontal(styles.ModalContentStyle.Width(50).Render(content), width)
}
