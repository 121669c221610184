// Package clients provides the tab that manages client applications and
// their gateway API keys.
package clients

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/aiconsole/internal/app"
	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/services"
	"github.com/j-veylop/aiconsole/internal/ui/components"
	"github.com/j-veylop/aiconsole/internal/ui/styles"
)

const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldActive      = "isActive"
)

// Actions guarded by the confirmation dialog.
const (
	actionDelete     = "delete"
	actionRegenerate = "regenerate key"
)

// keyMap defines the key bindings specific to the clients tab.
type keyMap struct {
	New        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Regenerate key.Binding
	Copy       key.Binding
	Reveal     key.Binding
	Refresh    key.Binding
}

// defaultKeyMap returns the default key bindings for the clients tab.
func defaultKeyMap() keyMap {
	return keyMap{
		New: key.NewBinding(
			key.WithKeys("n", "a"),
			key.WithHelp("n", "new client"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Regenerate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "regenerate key"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c", "y"),
			key.WithHelp("c", "copy key"),
		),
		Reveal: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "show/hide keys"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// clientsLoadedMsg carries the result of one list fetch.
type clientsLoadedMsg struct {
	err     error
	clients []models.ClientApplication
	gen     uint64
}

// Model represents the clients tab state.
type Model struct {
	services *services.Manager
	keys     keyMap
	table    table.Model
	spinner  components.Activity

	loader  app.Loader
	status  components.LoadState
	err     error
	clients []models.ClientApplication

	form          *components.Form
	editingID     string
	saving        bool
	confirm       components.Confirm
	confirmAction string
	revealKeys    bool

	width  int
	height int
}

// New creates a new clients model.
func New(svc *services.Manager) *Model {
	t := table.New(
		table.WithColumns(columns(100)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(styles.TableStyles())

	return &Model{
		services: svc,
		keys:     defaultKeyMap(),
		table:    t,
		spinner:  components.NewActivity("Loading clients..."),
	}
}

func columns(width int) []table.Column {
	descWidth := min(max(width-84, 12), 50)
	return []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Description", Width: descWidth},
		{Title: "API key", Width: 38},
		{Title: "Active", Width: 7},
		{Title: "Created", Width: 14},
	}
}

// Init loads the client list.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	if m.services == nil {
		return nil
	}
	ctx, gen := m.loader.Start()
	m.status = components.StateLoading
	client := m.services.Client()
	return tea.Batch(m.spinner.Start(""), func() tea.Msg {
		clients, err := client.ListClients(ctx)
		return clientsLoadedMsg{gen: gen, clients: clients, err: err}
	})
}

// Update handles messages for the clients tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case clientsLoadedMsg:
		if !m.loader.Finish(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			if app.IsUnauthenticated(msg.err) {
				return m, app.Unauthenticated()
			}
			m.err = msg.err
			m.status = components.StateError
			return m, nil
		}
		m.clients = msg.clients
		m.err = nil
		m.status = components.StateLoaded
		m.updateTableData()
		return m, nil

	case app.MutationResultMsg:
		if msg.Resource != app.ResourceClients {
			return m, nil
		}
		if m.saving && (msg.Action == "create" || msg.Action == "update") {
			m.saving = false
			if msg.Error != nil {
				return m, nil
			}
			m.form = nil
		}
		if msg.Error != nil {
			return m, nil
		}
		return m, m.load()

	case app.LoggedOutMsg:
		m.loader.Invalidate()
		m.clients = nil
		m.table.SetRows(nil)
		m.form = nil
		m.saving = false
		m.confirm.Close()
		m.revealKeys = false
		m.err = nil
		m.status = components.StateLoading
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.status == components.StateLoading {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	if m.form != nil {
		_, cmd := m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	if m.confirm.IsOpen() {
		if m.confirm.Update(msg) != components.ConfirmYes {
			return m, nil
		}
		id, name := m.confirm.ID(), m.confirm.Subject()
		if m.confirmAction == actionRegenerate {
			return m, m.regenerate(id, name)
		}
		return m, m.deleteClient(id, name)
	}

	if m.form != nil {
		if m.saving {
			return m, nil
		}
		result, cmd := m.form.Update(msg)
		switch result {
		case components.FormCancel:
			m.form = nil
			return m, nil
		case components.FormSubmit:
			return m, m.save()
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()
	case key.Matches(msg, m.keys.New):
		if m.status == components.StateLoaded {
			return m, m.openForm(nil)
		}
		return m, nil
	}

	if m.status != components.StateLoaded {
		return m, nil
	}

	if key.Matches(msg, m.keys.Reveal) {
		m.revealKeys = !m.revealKeys
		m.updateTableData()
		return m, nil
	}

	selected := m.selected()
	if selected == nil {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Edit):
		return m, m.openForm(selected)

	case key.Matches(msg, m.keys.Delete):
		m.confirmAction = actionDelete
		m.confirm.Open("Delete client?", selected.Name,
			"Its API key stops working and its access grants are removed.", selected.ID)
		return m, nil

	case key.Matches(msg, m.keys.Regenerate):
		m.confirmAction = actionRegenerate
		m.confirm.Open("Regenerate API key?", selected.Name,
			"The current key stops working immediately.", selected.ID)
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m, app.CopyToClipboard(selected.APIKey, "API key of "+selected.Name)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) openForm(c *models.ClientApplication) tea.Cmd {
	req := models.ClientRequest{IsActive: true}
	title, submit := "New client", "Create"
	m.editingID = ""
	if c != nil {
		req = c.EditRequest()
		title, submit = "Edit "+c.Name, "Save"
		m.editingID = c.ID
	}

	m.form = components.NewForm(title, submit,
		components.Field{Key: fieldName, Label: "Name", Placeholder: "support-bot", Required: true},
		components.Field{Key: fieldDescription, Label: "Description"},
		components.Field{Key: fieldActive, Label: "Active", Kind: components.FieldBool},
	)
	m.form.SetValue(fieldName, req.Name)
	m.form.SetValue(fieldDescription, req.Description)
	m.form.SetBool(fieldActive, req.IsActive)
	m.form.SetSize(m.width, m.height)
	return m.form.Focus()
}

func (m *Model) save() tea.Cmd {
	req := models.ClientRequest{
		Name:        m.form.Value(fieldName),
		Description: m.form.Value(fieldDescription),
		IsActive:    m.form.Bool(fieldActive),
	}
	client := m.services.Client()
	m.saving = true

	if m.editingID == "" {
		return app.Mutate(m.services, "create", app.ResourceClients, "", func(ctx context.Context) (string, error) {
			c, err := client.CreateClient(ctx, req)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Client %s created with key %s (c to copy)", c.Name, c.MaskedKey()), nil
		})
	}

	id := m.editingID
	return app.Mutate(m.services, "update", app.ResourceClients, id, func(ctx context.Context) (string, error) {
		c, err := client.UpdateClient(ctx, id, req)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Client %s saved", c.Name), nil
	})
}

func (m *Model) deleteClient(id, name string) tea.Cmd {
	client := m.services.Client()
	return app.Mutate(m.services, "delete", app.ResourceClients, id, func(ctx context.Context) (string, error) {
		if err := client.DeleteClient(ctx, id); err != nil {
			return "", err
		}
		return fmt.Sprintf("Client %s deleted", name), nil
	})
}

func (m *Model) regenerate(id, name string) tea.Cmd {
	client := m.services.Client()
	return app.Mutate(m.services, "regenerate key", app.ResourceClients, id, func(ctx context.Context) (string, error) {
		c, err := client.RegenerateAPIKey(ctx, id)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("New key for %s: %s (c to copy)", name, c.MaskedKey()), nil
	})
}

func (m *Model) selected() *models.ClientApplication {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.clients) {
		return nil
	}
	return &m.clients[i]
}

func (m *Model) updateTableData() {
	rows := make([]table.Row, 0, len(m.clients))
	for _, c := range m.clients {
		apiKey := c.MaskedKey()
		if m.revealKeys {
			apiKey = c.APIKey
		}
		created := "-"
		if !c.CreatedAt.IsZero() {
			created = humanize.Time(c.CreatedAt.Time)
		}
		active := "no"
		if c.IsActive {
			active = "yes"
		}
		rows = append(rows, table.Row{c.Name, c.Description, apiKey, active, created})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Clients returns the loaded client applications.
func (m *Model) Clients() []models.ClientApplication {
	return m.clients
}

// Status returns the load state of the tab.
func (m *Model) Status() components.LoadState {
	return m.status
}

// CapturesInput reports whether a form or dialog is taking key presses.
func (m *Model) CapturesInput() bool {
	return m.form != nil || m.confirm.IsOpen()
}

// SetSize sets the available size for the clients tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-8, 3))
	m.table.SetColumns(columns(width))
	if m.form != nil {
		m.form.SetSize(width, height)
	}
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.New, m.keys.Edit, m.keys.Copy, m.keys.Regenerate}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.New, m.keys.Edit, m.keys.Delete},
		{m.keys.Copy, m.keys.Reveal, m.keys.Regenerate, m.keys.Refresh},
	}
}
