// Package logs provides the paginated request log tab.
package logs

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/aiconsole/internal/app"
	"github.com/j-veylop/aiconsole/internal/logger"
	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/services"
	"github.com/j-veylop/aiconsole/internal/ui/components"
	"github.com/j-veylop/aiconsole/internal/ui/styles"
)

// DefaultPageSize is used when the tab is created with a non-positive size.
const DefaultPageSize = 20

// keyMap defines the key bindings specific to the logs tab.
type keyMap struct {
	NextPage      key.Binding
	PrevPage      key.Binding
	FirstPage     key.Binding
	LastPage      key.Binding
	FilterSuccess key.Binding
	FilterClient  key.Binding
	FilterNetwork key.Binding
	ClearFilters  key.Binding
	Details       key.Binding
	Back          key.Binding
	Refresh       key.Binding
}

// defaultKeyMap returns the default key bindings for the logs tab.
func defaultKeyMap() keyMap {
	return keyMap{
		NextPage: key.NewBinding(
			key.WithKeys("right", "l", "pgdown"),
			key.WithHelp("→/l", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h", "pgup"),
			key.WithHelp("←/h", "previous page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last page"),
		),
		FilterSuccess: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "success filter"),
		),
		FilterClient: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "client filter"),
		),
		FilterNetwork: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "network filter"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
		Details: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// logsLoadedMsg carries one fetched page.
type logsLoadedMsg struct {
	err  error
	page *models.LogPage
	gen  uint64
}

// optionsLoadedMsg carries the clients and networks the filters cycle through.
type optionsLoadedMsg struct {
	err      error
	clients  []models.ClientApplication
	networks []models.NeuralNetwork
	gen      uint64
}

// Model represents the logs tab state.
type Model struct {
	services *services.Manager
	keys     keyMap
	table    table.Model
	details  viewport.Model
	spinner  components.Activity

	loader        app.Loader
	optionsLoader app.Loader
	status        components.LoadState
	err           error

	logs          []models.RequestLog
	page          int
	pageSize      int
	totalPages    int
	totalElements int64

	filter   models.LogFilter
	clients  []models.ClientApplication
	networks []models.NeuralNetwork

	showDetails bool

	width  int
	height int
}

// New creates a new logs model that fetches pageSize entries per page.
func New(svc *services.Manager, pageSize int) *Model {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	t := table.New(
		table.WithColumns(columns(100)),
		table.WithFocused(true),
		table.WithHeight(pageSize),
	)
	t.SetStyles(styles.TableStyles())

	return &Model{
		services: svc,
		keys:     defaultKeyMap(),
		table:    t,
		details:  viewport.New(0, 0),
		spinner:  components.NewActivity("Loading logs..."),
		pageSize: pageSize,
	}
}

func columns(width int) []table.Column {
	promptWidth := max(width-86, 12)
	return []table.Column{
		{Title: "Time", Width: 19},
		{Title: "Client", Width: 16},
		{Title: "Network", Width: 18},
		{Title: "Type", Width: 10},
		{Title: "Tokens", Width: 8},
		{Title: "OK", Width: 4},
		{Title: "Prompt", Width: promptWidth},
	}
}

// Init loads the first page and the filter options.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.loadOptions())
}

func (m *Model) load() tea.Cmd {
	if m.services == nil {
		return nil
	}
	ctx, gen := m.loader.Start()
	m.status = components.StateLoading
	client := m.services.Client()
	page, size, filter := m.page, m.pageSize, m.filter
	return tea.Batch(m.spinner.Start(""), func() tea.Msg {
		p, err := client.ListLogs(ctx, page, size, filter)
		return logsLoadedMsg{gen: gen, page: p, err: err}
	})
}

func (m *Model) loadOptions() tea.Cmd {
	if m.services == nil {
		return nil
	}
	ctx, gen := m.optionsLoader.Start()
	client := m.services.Client()
	return func() tea.Msg {
		msg := optionsLoadedMsg{gen: gen}
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			msg.clients, err = client.ListClients(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			msg.networks, err = client.ListNetworks(ctx)
			return err
		})
		msg.err = g.Wait()
		return msg
	}
}

// Update handles messages for the logs tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case logsLoadedMsg:
		return m, m.handleLoaded(msg)

	case optionsLoadedMsg:
		if !m.optionsLoader.Finish(msg.gen) {
			return m, nil
		}
		if msg.err != nil {
			if app.IsUnauthenticated(msg.err) {
				return m, app.Unauthenticated()
			}
			logger.Warn("log filter options unavailable", "error", msg.err)
			return m, nil
		}
		models.SortNetworksByPriority(msg.networks)
		m.clients = msg.clients
		m.networks = msg.networks
		return m, nil

	case app.MutationResultMsg:
		// Names in the filters follow client and network changes.
		if msg.Error == nil && (msg.Resource == app.ResourceClients || msg.Resource == app.ResourceNetworks) {
			return m, m.loadOptions()
		}
		return m, nil

	case app.LoggedOutMsg:
		m.loader.Invalidate()
		m.optionsLoader.Invalidate()
		m.logs = nil
		m.table.SetRows(nil)
		m.page = 0
		m.totalPages = 0
		m.totalElements = 0
		m.filter = models.LogFilter{}
		m.clients = nil
		m.networks = nil
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
	return m, nil
}

func (m *Model) handleLoaded(msg logsLoadedMsg) tea.Cmd {
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

	m.totalPages = msg.page.TotalPages
	m.totalElements = msg.page.TotalElements

	// The log shrank under us: fetch the last page that still exists.
	if m.totalPages > 0 && m.page > m.totalPages-1 {
		m.page = models.ClampPage(m.page, m.totalPages)
		return m.load()
	}

	m.logs = msg.page.Content
	m.err = nil
	m.status = components.StateLoaded
	m.updateTableData()
	return nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	if m.showDetails {
		if key.Matches(msg, m.keys.Back, m.keys.Details) {
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
	case key.Matches(msg, m.keys.NextPage):
		return m, m.goToPage(m.page + 1)
	case key.Matches(msg, m.keys.PrevPage):
		return m, m.goToPage(m.page - 1)
	case key.Matches(msg, m.keys.FirstPage):
		return m, m.goToPage(0)
	case key.Matches(msg, m.keys.LastPage):
		return m, m.goToPage(m.totalPages - 1)
	case key.Matches(msg, m.keys.FilterSuccess):
		m.filter.Success = nextSuccess(m.filter.Success)
		return m, m.filterChanged()
	case key.Matches(msg, m.keys.FilterClient):
		m.filter.ClientID = nextID(m.filter.ClientID, clientIDs(m.clients))
		return m, m.filterChanged()
	case key.Matches(msg, m.keys.FilterNetwork):
		m.filter.NetworkID = nextID(m.filter.NetworkID, networkIDs(m.networks))
		return m, m.filterChanged()
	case key.Matches(msg, m.keys.ClearFilters):
		if m.filter.Empty() {
			return m, nil
		}
		m.filter = models.LogFilter{}
		return m, m.filterChanged()
	case key.Matches(msg, m.keys.Details):
		if l := m.selected(); l != nil {
			m.showDetails = true
			m.details.SetContent(renderDetails(l, m.details.Width))
			m.details.GotoTop()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// goToPage fetches page if it lies inside the known range. Requests
// outside [0, totalPages-1] are ignored.
func (m *Model) goToPage(page int) tea.Cmd {
	if m.status != components.StateLoaded {
		return nil
	}
	target := models.ClampPage(page, m.totalPages)
	if target == m.page {
		return nil
	}
	m.page = target
	m.table.SetCursor(0)
	return m.load()
}

func (m *Model) filterChanged() tea.Cmd {
	m.page = 0
	m.table.SetCursor(0)
	return m.load()
}

// nextSuccess cycles any → successful → failed → any.
func nextSuccess(v *bool) *bool {
	switch {
	case v == nil:
		t := true
		return &t
	case *v:
		f := false
		return &f
	default:
		return nil
	}
}

// nextID cycles nil → ids[0] → … → ids[n-1] → nil.
func nextID(cur *string, ids []string) *string {
	if len(ids) == 0 {
		return nil
	}
	if cur == nil {
		id := ids[0]
		return &id
	}
	for i, id := range ids {
		if id == *cur && i+1 < len(ids) {
			next := ids[i+1]
			return &next
		}
	}
	return nil
}

func clientIDs(cs []models.ClientApplication) []string {
	ids := make([]string, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.ID)
	}
	return ids
}

func networkIDs(ns []models.NeuralNetwork) []string {
	ids := make([]string, 0, len(ns))
	for _, n := range ns {
		ids = append(ids, n.ID)
	}
	return ids
}

func (m *Model) selected() *models.RequestLog {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.logs) {
		return nil
	}
	return &m.logs[i]
}

// Page returns the zero-based page index.
func (m *Model) Page() int {
	return m.page
}

// TotalPages returns the page count reported by the last fetch.
func (m *Model) TotalPages() int {
	return m.totalPages
}

// Logs returns the entries of the current page.
func (m *Model) Logs() []models.RequestLog {
	return m.logs
}

// Filter returns the active filter.
func (m *Model) Filter() models.LogFilter {
	return m.filter
}

// Status returns the load state of the tab.
func (m *Model) Status() components.LoadState {
	return m.status
}

// CapturesInput reports whether the detail view is taking key presses.
func (m *Model) CapturesInput() bool {
	return m.showDetails
}

// SetSize sets the available size for the logs tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(min(height-9, m.pageSize+1), 3))
	m.table.SetColumns(columns(width))
	m.details.Width = max(width-8, 20)
	m.details.Height = max(height-6, 3)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.PrevPage, m.keys.NextPage, m.keys.FilterSuccess, m.keys.Details}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.PrevPage, m.keys.NextPage, m.keys.FirstPage, m.keys.LastPage},
		{m.keys.FilterSuccess, m.keys.FilterClient, m.keys.FilterNetwork, m.keys.ClearFilters},
		{m.keys.Details, m.keys.Refresh},
	}
}
