// Package info provides the tab showing the configuration, the session and
// the journal of recent changes.
package info

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/aiconsole/internal/app"
	"github.com/j-veylop/aiconsole/internal/config"
	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/services"
)

// activityLimit is how many journal entries the tab shows.
const activityLimit = 15

// keyMap defines the key bindings specific to the info tab.
type keyMap struct {
	Refresh key.Binding
	Copy    key.Binding
	Up      key.Binding
	Down    key.Binding
}

// defaultKeyMap returns the default key bindings for the info tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy session path"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

type activityLoadedMsg struct {
	err    error
	events []models.AuditEvent
	gen    uint64
}

// Model represents the info tab state.
type Model struct {
	services    *services.Manager
	config      *config.Config
	keys        keyMap
	viewport    viewport.Model
	loader      app.Loader
	activity    []models.AuditEvent
	activityErr error
	width       int
	height      int
}

// New creates a new info model.
func New(svc *services.Manager, cfg *config.Config) *Model {
	return &Model{
		services: svc,
		config:   cfg,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init loads the activity journal.
func (m *Model) Init() tea.Cmd {
	return m.loadActivity()
}

func (m *Model) loadActivity() tea.Cmd {
	if m.services == nil {
		return nil
	}
	ctx, gen := m.loader.Start()
	mgr := m.services
	return func() tea.Msg {
		events, err := mgr.RecentActivity(ctx, activityLimit)
		return activityLoadedMsg{gen: gen, events: events, err: err}
	}
}

// Update handles messages for the info tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case activityLoadedMsg:
		if m.loader.Finish(msg.gen) {
			m.activity = msg.events
			m.activityErr = msg.err
		}
		return m, nil

	case app.MutationResultMsg:
		// Failures are journaled too.
		return m, m.loadActivity()

	case app.LoggedOutMsg:
		m.loader.Invalidate()
		m.activity = nil
		m.activityErr = nil
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadActivity()
		case key.Matches(msg, m.keys.Copy):
			if m.config != nil && m.config.SessionPath != "" {
				return m, app.CopyToClipboard(m.config.SessionPath, "session path")
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// Activity returns the loaded journal entries, newest first.
func (m *Model) Activity() []models.AuditEvent {
	return m.activity
}

// session returns the active session, or nil.
func (m *Model) session() *models.Session {
	if m.services == nil {
		return nil
	}
	return m.services.Session().Get()
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-4, 0)
	m.viewport.Height = max(height-2, 0)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Copy,
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Copy, m.keys.Refresh},
		{m.keys.Up, m.keys.Down},
	}
}
