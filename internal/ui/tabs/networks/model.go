// Package networks provides the tab that manages upstream AI provider networks.
package networks

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/aiconsole/internal/app"
	"github.com/j-veylop/aiconsole/internal/catalog"
	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/services"
	"github.com/j-veylop/aiconsole/internal/ui/components"
	"github.com/j-veylop/aiconsole/internal/ui/styles"
)

// Form field keys.
const (
	fieldName            = "name"
	fieldDisplayName     = "displayName"
	fieldProvider        = "provider"
	fieldType            = "networkType"
	fieldAPIURL          = "apiUrl"
	fieldAPIKey          = "apiKey"
	fieldModel           = "modelName"
	fieldPriority        = "priority"
	fieldTimeout         = "timeoutSeconds"
	fieldRetries         = "maxRetries"
	fieldCost            = "costPerTokenRub"
	fieldWordsPerToken   = "wordsPerToken"
	fieldSecondsPerToken = "secondsPerToken"
	fieldActive          = "isActive"
	fieldFree            = "isFree"
	fieldInstruction     = "connectionInstruction"
	fieldRequestMapping  = "requestMapping"
	fieldResponseMapping = "responseMapping"
)

// keyMap defines the key bindings specific to the networks tab.
type keyMap struct {
	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Details key.Binding
	Refresh key.Binding
	Example key.Binding
	Escape  key.Binding
}

// defaultKeyMap returns the default key bindings for the networks tab.
func defaultKeyMap() keyMap {
	return keyMap{
		New: key.NewBinding(
			key.WithKeys("n", "a"),
			key.WithHelp("n", "new network"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Details: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Example: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "fill provider example"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// networksLoadedMsg carries the result of one list fetch.
type networksLoadedMsg struct {
	err      error
	networks []models.NeuralNetwork
	gen      uint64
}

// Model represents the networks tab state.
type Model struct {
	services *services.Manager
	keys     keyMap
	table    table.Model
	details  viewport.Model
	spinner  components.Activity

	loader   app.Loader
	status   components.LoadState
	err      error
	networks []models.NeuralNetwork

	form        *components.Form
	editingID   string
	saving      bool
	confirm     components.Confirm
	showDetails bool

	width  int
	height int
}

// New creates a new networks model.
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
		details:  viewport.New(0, 0),
		spinner:  components.NewActivity("Loading networks..."),
	}
}

func columns(width int) []table.Column {
	nameWidth := min(max(width-72, 16), 36)
	return []table.Column{
		{Title: "Prio", Width: 5},
		{Title: "Name", Width: nameWidth},
		{Title: "Provider", Width: 10},
		{Title: "Type", Width: 16},
		{Title: "Model", Width: 22},
		{Title: "Active", Width: 7},
		{Title: "Free", Width: 5},
	}
}

// Init loads the network list.
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
		networks, err := client.ListNetworks(ctx)
		return networksLoadedMsg{gen: gen, networks: networks, err: err}
	})
}

// Update handles messages for the networks tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case networksLoadedMsg:
		return m, m.handleLoaded(msg)

	case app.MutationResultMsg:
		if msg.Resource != app.ResourceNetworks {
			return m, nil
		}
		return m, m.handleMutationResult(msg)

	case app.LoggedOutMsg:
		m.loader.Invalidate()
		m.networks = nil
		m.table.SetRows(nil)
		m.form = nil
		m.saving = false
		m.confirm.Close()
		m.showDetails = false
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

func (m *Model) handleLoaded(msg networksLoadedMsg) tea.Cmd {
	if !m.loader.Finish(msg.gen) {
		return nil
	}
	if msg.err != nil {
		if app.IsUnauthenticated(msg.err) {
			return app.Unauthenticated()
		}
		m.err = msg.err
		m.status = components.StateError
		return nil
	}
	models.SortNetworksByPriority(msg.networks)
	m.networks = msg.networks
	m.err = nil
	m.status = components.StateLoaded
	m.updateTableData()
	return nil
}

func (m *Model) handleMutationResult(msg app.MutationResultMsg) tea.Cmd {
	if m.saving && (msg.Action == "create" || msg.Action == "update") {
		m.saving = false
		if msg.Error != nil {
			// The form stays open so the input can be corrected.
			return nil
		}
		m.form = nil
	}
	if msg.Error != nil {
		return nil
	}
	return m.load()
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	if m.confirm.IsOpen() {
		if m.confirm.Update(msg) == components.ConfirmYes {
			return m, m.deleteNetwork(m.confirm.ID(), m.confirm.Subject())
		}
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if m.showDetails {
		if key.Matches(msg, m.keys.Escape, m.keys.Details) {
			m.showDetails = false
			return m, nil
		}
		var cmd tea.Cmd
		m.details, cmd = m.details.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()

	case key.Matches(msg, m.keys.New):
		if m.status != components.StateLoaded {
			return m, nil
		}
		return m, m.openForm(nil)
	}

	if m.status != components.StateLoaded {
		return m, nil
	}

	selected := m.selected()
	switch {
	case key.Matches(msg, m.keys.Edit):
		if selected != nil {
			return m, m.openForm(selected)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if selected != nil {
			m.confirm.Open("Delete network?", selected.Label(),
				"Clients lose access to it and its grants are removed.", selected.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Details):
		if selected != nil {
			m.showDetails = true
			m.details.SetContent(renderDetails(selected, m.details.Width))
			m.details.GotoTop()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) updateForm(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	if key.Matches(msg, m.keys.Example) {
		req := requestFromForm(m.form)
		if !catalog.Apply(&req) {
			fillForm(m.form, req)
			return m, app.NotifyWarning(fmt.Sprintf("No example mapping for %s / %s", req.Provider, req.NetworkType))
		}
		fillForm(m.form, req)
		return m, app.NotifyInfo("Filled in the " + req.Provider + " example")
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

// openForm opens the create form, or the edit form for n.
func (m *Model) openForm(n *models.NeuralNetwork) tea.Cmd {
	req := models.DefaultNetworkRequest()
	title, submit := "New network", "Create"
	m.editingID = ""
	if n != nil {
		req = n.EditRequest()
		title, submit = "Edit "+n.Label(), "Save"
		m.editingID = n.ID
	}

	m.form = newForm(title, submit, n == nil)
	fillForm(m.form, req)
	m.form.SetSize(m.width, m.height)
	return m.form.Focus()
}

func (m *Model) save() tea.Cmd {
	req := requestFromForm(m.form)
	client := m.services.Client()
	m.saving = true

	if m.editingID == "" {
		return app.Mutate(m.services, "create", app.ResourceNetworks, "", func(ctx context.Context) (string, error) {
			n, err := client.CreateNetwork(ctx, req)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Network %s created", n.Label()), nil
		})
	}

	id := m.editingID
	return app.Mutate(m.services, "update", app.ResourceNetworks, id, func(ctx context.Context) (string, error) {
		n, err := client.UpdateNetwork(ctx, id, req)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Network %s saved", n.Label()), nil
	})
}

func (m *Model) deleteNetwork(id, label string) tea.Cmd {
	client := m.services.Client()
	return app.Mutate(m.services, "delete", app.ResourceNetworks, id, func(ctx context.Context) (string, error) {
		if err := client.DeleteNetwork(ctx, id); err != nil {
			return "", err
		}
		return fmt.Sprintf("Network %s deleted", label), nil
	})
}

// selected returns the network under the cursor.
func (m *Model) selected() *models.NeuralNetwork {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.networks) {
		return nil
	}
	return &m.networks[i]
}

func (m *Model) updateTableData() {
	rows := make([]table.Row, 0, len(m.networks))
	for _, n := range m.networks {
		rows = append(rows, table.Row{
			strconv.Itoa(n.Priority),
			n.Label(),
			n.Provider,
			string(n.NetworkType),
			n.ModelName,
			yesNo(n.IsActive),
			yesNo(n.IsFree),
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Networks returns the loaded networks in display order.
func (m *Model) Networks() []models.NeuralNetwork {
	return m.networks
}

// Status returns the load state of the tab.
func (m *Model) Status() components.LoadState {
	return m.status
}

// CapturesInput reports whether a form or dialog is taking key presses.
func (m *Model) CapturesInput() bool {
	return m.form != nil || m.confirm.IsOpen() || m.showDetails
}

// SetSize sets the available size for the networks tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-8, 3))
	m.table.SetColumns(columns(width))
	m.details.Width = max(width-8, 20)
	m.details.Height = max(height-6, 3)
	if m.form != nil {
		m.form.SetSize(width, height)
	}
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.form != nil {
		return []key.Binding{
			key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
			key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
			m.keys.Example,
			m.keys.Escape,
		}
	}
	return []key.Binding{
		m.keys.New,
		m.keys.Edit,
		m.keys.Delete,
		m.keys.Details,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.New, m.keys.Edit, m.keys.Delete},
		{m.keys.Details, m.keys.Refresh, m.keys.Example},
	}
}
