// Package login provides the sign-in view shown while no session is stored.
package login

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/aiconsole/internal/app"
	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/services"
	"github.com/j-veylop/aiconsole/internal/ui/components"
	"github.com/j-veylop/aiconsole/internal/ui/styles"
)

type keyMap struct {
	Toggle key.Binding
	Submit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "switch login/register"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
	}
}

// Model is the login view.
type Model struct {
	services   *services.Manager
	form       *components.Form
	spinner    components.Activity
	keys       keyMap
	message    string
	width      int
	height     int
	register   bool
	submitting bool
	isError    bool
}

// New creates the login view.
func New(mgr *services.Manager) *Model {
	m := &Model{
		services: mgr,
		spinner:  components.NewActivity("Signing in..."),
		keys:     defaultKeyMap(),
	}
	m.form = m.newForm("")
	return m
}

func (m *Model) newForm(username string) *components.Form {
	submit := "Log in"
	if m.register {
		submit = "Register"
	}
	f := components.NewForm("Credentials", submit,
		components.Field{Key: "username", Label: "Username", Required: true, Placeholder: "admin"},
		components.Field{Key: "password", Label: "Password", Kind: components.FieldPassword, Required: true},
	)
	f.SetValue("username", username)
	f.SetSize(m.width, m.height)
	return f
}

// Init focuses the form.
func (m *Model) Init() tea.Cmd {
	return m.form.Focus()
}

// CapturesInput reports that every key belongs to the form.
func (m *Model) CapturesInput() bool {
	return true
}

// IsRegister reports whether the view creates an account instead of signing in.
func (m *Model) IsRegister() bool {
	return m.register
}

// Message returns the status line under the form.
func (m *Model) Message() string {
	return m.message
}

// Update handles messages for the login view.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		if key.Matches(msg, m.keys.Toggle) {
			m.register = !m.register
			m.message = ""
			m.form = m.newForm(m.form.Value("username"))
			return m, m.form.Focus()
		}
		return m.updateForm(msg)

	case app.LoginResultMsg:
		m.submitting = false
		if msg.Error != nil {
			m.setMessage(msg.Error.Error(), true)
			m.form.SetValue("password", "")
		}

	case app.RegisterResultMsg:
		m.submitting = false
		if msg.Error != nil {
			m.setMessage(msg.Error.Error(), true)
			return m, nil
		}
		m.register = false
		m.form = m.newForm(msg.Username)
		m.setMessage("Account created. Please log in.", false)
		return m, m.form.Focus()

	case app.LoggedOutMsg:
		m.submitting = false
		m.setMessage(msg.Reason, msg.Reason != "" && msg.Reason != "Logged out.")
		m.form = m.newForm(m.form.Value("username"))
		return m, m.form.Focus()

	default:
		var cmds []tea.Cmd
		if m.submitting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		_, cmd := m.form.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *Model) updateForm(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	res, cmd := m.form.Update(msg)
	switch res {
	case components.FormSubmit:
		return m, m.submit()
	case components.FormCancel:
		m.message = ""
		m.form = m.newForm("")
		return m, m.form.Focus()
	}
	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	if m.services == nil {
		return nil
	}
	creds := models.Credentials{
		Username: m.form.Value("username"),
		Password: m.form.Value("password"),
	}
	m.submitting = true
	m.message = ""
	if m.register {
		return tea.Batch(m.spinner.Start("Creating account..."), app.RegisterCmd(m.services, creds))
	}
	return tea.Batch(m.spinner.Start("Signing in..."), app.LoginCmd(m.services, creds))
}

func (m *Model) setMessage(text string, isError bool) {
	m.message = text
	m.isError = isError
}

// SetSize sets the available size for the login view.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.form.SetSize(width, height)
}

// View renders the login view.
func (m *Model) View() string {
	title := "Sign in"
	if m.register {
		title = "Create an admin account"
	}

	rows := []string{
		styles.TitleStyle.Render("AI Console"),
		styles.SubTitleStyle.Render(title),
	}
	if m.services != nil {
		rows = append(rows, styles.HelpStyle.Render(
			m.services.Client().BaseURL()+"  ·  profile "+m.services.Profile()))
	}
	rows = append(rows, "", m.form.View())

	switch {
	case m.submitting:
		rows = append(rows, "", m.spinner.Status())
	case m.message != "" && m.isError:
		rows = append(rows, "", styles.ErrorTextStyle.Render(m.message))
	case m.message != "":
		rows = append(rows, "", styles.SuccessTextStyle.Render(m.message))
	}

	other := "register"
	if m.register {
		other = "login"
	}
	rows = append(rows, components.RenderFooter(
		[2]string{"ctrl+r", "switch to " + other},
		[2]string{"ctrl+c", "quit"},
	))

	content := lipgloss.JoinVertical(lipgloss.Center, rows...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return styles.CenterBoth(content, m.width, m.height)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Submit, m.keys.Toggle}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.keys.Submit, m.keys.Toggle}}
}
