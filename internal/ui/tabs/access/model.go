// Package access provides the tab that grants client applications access to
// networks and manages per-grant request limits.
package access

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/aiconsole/internal/app"
	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/services"
	"github.com/j-veylop/aiconsole/internal/ui/components"
	"github.com/j-veylop/aiconsole/internal/ui/styles"
)

const (
	fieldClient  = "clientId"
	fieldNetwork = "networkId"
	fieldDaily   = "dailyRequestLimit"
	fieldMonthly = "monthlyRequestLimit"
)

// keyMap defines the key bindings specific to the access tab.
type keyMap struct {
	Grant    key.Binding
	Edit     key.Binding
	Revoke   key.Binding
	GrantAll key.Binding
	Filter   key.Binding
	Refresh  key.Binding
}

// defaultKeyMap returns the default key bindings for the access tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Grant: key.NewBinding(
			key.WithKeys("n", "a"),
			key.WithHelp("n", "grant access"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit limits"),
		),
		Revoke: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "revoke"),
		),
		GrantAll: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "grant all networks"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter by client"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// snapshot is everything the tab shows, fetched together.
type snapshot struct {
	grants   []models.ClientNetworkAccess
	clients  []models.ClientApplication
	networks []models.NeuralNetwork
	stats    *models.AccessStats
}

// accessLoadedMsg carries the result of one combined fetch.
type accessLoadedMsg struct {
	err  error
	data snapshot
	gen  uint64
}

// Model represents the access tab state.
type Model struct {
	services *services.Manager
	keys     keyMap
	table    table.Model
	spinner  components.Activity

	loader app.Loader
	status components.LoadState
	err    error
	data   snapshot

	// clientFilter is the id of the client whose grants are shown, or "".
	clientFilter string

	form    *components.Form
	saving  bool
	confirm components.Confirm

	width  int
	height int
}

// New creates a new access model.
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
		spinner:  components.NewActivity("Loading access grants..."),
	}
}

func columns(width int) []table.Column {
	nameWidth := min(max((width-60)/2, 14), 32)
	return []table.Column{
		{Title: "Client", Width: nameWidth},
		{Title: "Network", Width: nameWidth},
		{Title: "Provider", Width: 10},
		{Title: "Type", Width: 16},
		{Title: "Limits", Width: 26},
	}
}

// Init loads grants, clients, networks and grant stats.
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
	clientFilter := m.clientFilter

	return tea.Batch(m.spinner.Start(""), func() tea.Msg {
		var data snapshot
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			if clientFilter != "" {
				data.grants, err = client.ListClientAccess(ctx, clientFilter)
			} else {
				data.grants, err = client.ListAccess(ctx)
			}
			return err
		})
		g.Go(func() error {
			var err error
			data.clients, err = client.ListClients(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			data.networks, err = client.ListNetworks(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			data.stats, err = client.GetAccessStats(ctx)
			return err
		})
		err := g.Wait()
		return accessLoadedMsg{gen: gen, data: data, err: err}
	})
}

// Update handles messages for the access tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case accessLoadedMsg:
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
		models.SortNetworksByPriority(msg.data.networks)
		m.data = msg.data
		m.err = nil
		m.status = components.StateLoaded
		m.updateTableData()
		return m, nil

	case app.MutationResultMsg:
		switch msg.Resource {
		case app.ResourceAccess, app.ResourceClients, app.ResourceNetworks:
		default:
			return m, nil
		}
		if msg.Resource == app.ResourceAccess && m.saving && msg.Action == "grant" {
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
		m.data = snapshot{}
		m.table.SetRows(nil)
		m.clientFilter = ""
		m.form = nil
		m.saving = false
		m.confirm.Close()
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
		if m.confirm.Update(msg) == components.ConfirmYes {
			return m, m.revoke(m.confirm.ID(), m.confirm.Subject())
		}
		return m, nil
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
			return m, m.grant()
		}
		return m, cmd
	}

	if key.Matches(msg, m.keys.Refresh) {
		return m, m.load()
	}
	if m.status != components.StateLoaded {
		return m, nil
	}

	selected := m.selected()
	switch {
	case key.Matches(msg, m.keys.Grant):
		return m, m.openForm(nil)

	case key.Matches(msg, m.keys.Filter):
		m.clientFilter = m.nextClientFilter()
		return m, m.load()

	case key.Matches(msg, m.keys.GrantAll):
		clientID := m.clientFilter
		if clientID == "" && selected != nil {
			clientID = selected.ClientID
		}
		if clientID == "" {
			return m, app.NotifyWarning("Select a grant or filter by a client first")
		}
		return m, m.grantAll(clientID)

	case key.Matches(msg, m.keys.Edit):
		if selected != nil {
			return m, m.openForm(selected)
		}
		return m, nil

	case key.Matches(msg, m.keys.Revoke):
		if selected != nil {
			m.confirm.Open("Revoke access?",
				fmt.Sprintf("%s → %s", selected.ClientName, selected.NetworkDisplayName),
				"The client can no longer call this network.", selected.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// nextClientFilter cycles through "all clients" and each known client.
func (m *Model) nextClientFilter() string {
	if len(m.data.clients) == 0 {
		return ""
	}
	if m.clientFilter == "" {
		return m.data.clients[0].ID
	}
	for i, c := range m.data.clients {
		if c.ID == m.clientFilter {
			if i+1 < len(m.data.clients) {
				return m.data.clients[i+1].ID
			}
			return ""
		}
	}
	return ""
}

// openForm opens the grant form, pre-filled from an existing grant when editing.
func (m *Model) openForm(existing *models.ClientNetworkAccess) tea.Cmd {
	if len(m.data.clients) == 0 || len(m.data.networks) == 0 {
		return app.NotifyWarning("Create at least one client and one network first")
	}

	clientOpts := make([]components.Option, 0, len(m.data.clients))
	for _, c := range m.data.clients {
		clientOpts = append(clientOpts, components.Option{Label: c.Name, Value: c.ID})
	}
	networkOpts := make([]components.Option, 0, len(m.data.networks))
	for _, n := range m.data.networks {
		label := n.Label()
		if !n.IsActive {
			label += " (inactive)"
		}
		networkOpts = append(networkOpts, components.Option{Label: label, Value: n.ID})
	}

	title := "Grant access"
	if existing != nil {
		title = "Edit limits"
	}
	m.form = components.NewForm(title, "Grant",
		components.Field{Key: fieldClient, Label: "Client", Kind: components.FieldChoice, Options: clientOpts},
		components.Field{Key: fieldNetwork, Label: "Network", Kind: components.FieldChoice, Options: networkOpts},
		components.Field{Key: fieldDaily, Label: "Daily request limit", Placeholder: "unlimited", Kind: components.FieldNumber},
		components.Field{Key: fieldMonthly, Label: "Monthly request limit", Placeholder: "unlimited", Kind: components.FieldNumber},
	)
	switch {
	case existing != nil:
		m.form.SetValue(fieldClient, existing.ClientID)
		m.form.SetValue(fieldNetwork, existing.NetworkID)
		m.form.SetValue(fieldDaily, optionalString(existing.DailyRequestLimit))
		m.form.SetValue(fieldMonthly, optionalString(existing.MonthlyRequestLimit))
	case m.clientFilter != "":
		m.form.SetValue(fieldClient, m.clientFilter)
	}
	m.form.SetSize(m.width, m.height)
	return m.form.Focus()
}

func optionalString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func (m *Model) grant() tea.Cmd {
	req := models.GrantAccessRequest{
		ClientID:            m.form.Value(fieldClient),
		NetworkID:           m.form.Value(fieldNetwork),
		DailyRequestLimit:   m.form.OptionalInt(fieldDaily),
		MonthlyRequestLimit: m.form.OptionalInt(fieldMonthly),
	}
	client := m.services.Client()
	m.saving = true
	return app.Mutate(m.services, "grant", app.ResourceAccess, "", func(ctx context.Context) (string, error) {
		a, err := client.GrantAccess(ctx, req)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s can use %s (%s)", a.ClientName, a.NetworkDisplayName, a.LimitsDescription()), nil
	})
}

func (m *Model) grantAll(clientID string) tea.Cmd {
	client := m.services.Client()
	return app.Mutate(m.services, "grant all", app.ResourceAccess, clientID, func(ctx context.Context) (string, error) {
		res, err := client.GrantAllAccess(ctx, clientID)
		if err != nil {
			return "", err
		}
		if res.Message != "" {
			return res.Message, nil
		}
		return fmt.Sprintf("Granted %d of %d networks, %d already granted", res.Granted, res.Total, res.Skipped), nil
	})
}

func (m *Model) revoke(id, subject string) tea.Cmd {
	client := m.services.Client()
	return app.Mutate(m.services, "revoke", app.ResourceAccess, id, func(ctx context.Context) (string, error) {
		if err := client.RevokeAccess(ctx, id); err != nil {
			return "", err
		}
		return "Revoked " + subject, nil
	})
}

func (m *Model) selected() *models.ClientNetworkAccess {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.data.grants) {
		return nil
	}
	return &m.data.grants[i]
}

func (m *Model) updateTableData() {
	rows := make([]table.Row, 0, len(m.data.grants))
	for _, a := range m.data.grants {
		rows = append(rows, table.Row{
			a.ClientName,
			a.NetworkDisplayName,
			a.NetworkProvider,
			a.NetworkType,
			a.LimitsDescription(),
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// clientName returns the display name of the filtered client.
func (m *Model) clientName(id string) string {
	for _, c := range m.data.clients {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

// Grants returns the loaded grants.
func (m *Model) Grants() []models.ClientNetworkAccess {
	return m.data.grants
}

// Status returns the load state of the tab.
func (m *Model) Status() components.LoadState {
	return m.status
}

// CapturesInput reports whether a form or dialog is taking key presses.
func (m *Model) CapturesInput() bool {
	return m.form != nil || m.confirm.IsOpen()
}

// SetSize sets the available size for the access tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(height-12, 3))
	m.table.SetColumns(columns(width))
	if m.form != nil {
		m.form.SetSize(width, height)
	}
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Grant, m.keys.Revoke, m.keys.GrantAll, m.keys.Filter}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Grant, m.keys.Edit, m.keys.Revoke},
		{m.keys.GrantAll, m.keys.Filter, m.keys.Refresh},
	}
}
