// Package app implements the main Bubble Tea application with an
// authentication gate and tab-based navigation.
package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/aiconsole/internal/api"
	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/services"
	"github.com/j-veylop/aiconsole/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabStats is the ID for the usage statistics tab.
	TabStats TabID = iota
	// TabNetworks is the ID for the neural networks tab.
	TabNetworks
	// TabClients is the ID for the client applications tab.
	TabClients
	// TabAccess is the ID for the access grants tab.
	TabAccess
	// TabLogs is the ID for the request logs tab.
	TabLogs
	// TabInfo is the ID for the info tab.
	TabInfo

	tabCount
)

// String returns the string representation of the TabID.
func (t TabID) String() string {
	switch t {
	case TabStats:
		return "Stats"
	case TabNetworks:
		return "Networks"
	case TabClients:
		return "Clients"
	case TabAccess:
		return "Access"
	case TabLogs:
		return "Logs"
	case TabInfo:
		return "Info"
	default:
		return "Unknown"
	}
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// InputCapturer is implemented by views that can own the keyboard, for
// example while a form or a confirmation is open. Global single-key
// bindings are not applied while CapturesInput reports true.
type InputCapturer interface {
	CapturesInput() bool
}

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Tabs    [tabCount]key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Help    key.Binding
	Quit    key.Binding
	Abort   key.Binding
	Logout  key.Binding
	Escape  key.Binding
	Dismiss key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{}
	for i := TabID(0); i < tabCount; i++ {
		n := fmt.Sprintf("%d", i+1)
		km.Tabs[i] = key.NewBinding(key.WithKeys(n), key.WithHelp(n, strings.ToLower(i.String())))
	}
	km.NextTab = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab"))
	km.PrevTab = key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab"))
	km.Help = key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help"))
	km.Quit = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	km.Abort = key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))
	km.Logout = key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "log out"))
	km.Escape = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close"))
	km.Dismiss = key.NewBinding(key.WithKeys("enter", "esc", " "), key.WithHelp("enter", "dismiss"))
	return km
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Logout, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.Tabs[:],
		{k.NextTab, k.PrevTab},
		{k.Help, k.Logout, k.Quit},
	}
}

// Styles defines the application styles.
type Styles struct {
	// Tab bar styles
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	User        lipgloss.Style

	// Notification styles
	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	// Content styles
	Content lipgloss.Style
	Toast   lipgloss.Style
	Dialog  lipgloss.Style

	// Common styles
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
	Error     lipgloss.Style
}

// DefaultStyles returns the default application styles.
func DefaultStyles() Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	highlight := lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	success := lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warning := lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#FF8C00"}
	errorColor := lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}
	info := lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#5FAFFF"}

	s := Styles{}
	s.TabBar = lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).BorderForeground(subtle)
	s.ActiveTab = lipgloss.NewStyle().Bold(true).Foreground(highlight).Padding(0, 2)
	s.InactiveTab = lipgloss.NewStyle().Foreground(subtle).Padding(0, 2)
	s.User = lipgloss.NewStyle().Foreground(subtle).Padding(0, 1)

	s.NotificationSuccess = lipgloss.NewStyle().Foreground(success).Padding(0, 1)
	s.NotificationError = lipgloss.NewStyle().Foreground(errorColor).Bold(true).Padding(0, 1)
	s.NotificationWarning = lipgloss.NewStyle().Foreground(warning).Padding(0, 1)
	s.NotificationInfo = lipgloss.NewStyle().Foreground(info).Padding(0, 1)

	s.Content = lipgloss.NewStyle().Padding(1, 2)
	s.Toast = styles.ToastStyle
	s.Dialog = styles.ErrorDialogStyle

	s.Title = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	s.Subtle = lipgloss.NewStyle().Foreground(subtle)
	s.Highlight = lipgloss.NewStyle().Foreground(highlight)
	s.Error = lipgloss.NewStyle().Foreground(errorColor).Bold(true)

	return s
}

// Model is the main application model.
type Model struct {
	// Views
	activeTab TabID
	tabs      []Tab
	login     Tab

	// Shared state
	state    *State
	services *services.Manager
	keymap   KeyMap
	styles   Styles

	// UI components
	spinner spinner.Model

	// Window dimensions
	width  int
	height int

	// UI state
	authenticated bool
	showHelp      bool
	ready         bool

	// Service subscription
	eventChannel chan services.ServiceEvent
}

// NewModel initializes a new application model. The model starts on the
// login view unless the session store already holds a token.
func NewModel(mgr *services.Manager) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	m := &Model{
		activeTab: TabStats,
		tabs:      make([]Tab, tabCount),
		state:     NewState(),
		services:  mgr,
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		spinner:   s,
	}

	if mgr != nil {
		if sess := mgr.Session().Get(); sess != nil && sess.Token != "" {
			m.authenticated = true
			m.state.SetSession(sess)
		}
	}

	return m
}

// SetTabs sets the tabs for the model.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateSizes()
	}
}

// SetLogin sets the view shown while signed out.
func (m *Model) SetLogin(login Tab) {
	m.login = login
	if m.width > 0 && m.height > 0 {
		m.updateSizes()
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// GetServices returns the service manager.
func (m *Model) GetServices() *services.Manager {
	return m.services
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// IsAuthenticated reports whether the dashboard is shown.
func (m *Model) IsAuthenticated() bool {
	return m.authenticated
}

// IsReady returns true if the model is ready (window size received).
func (m *Model) IsReady() bool {
	return m.ready
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		defaultTickCmd(),
	}

	if m.services != nil {
		cmds = append(cmds, subscribeToServicesCmd(m.services))
	}

	if m.authenticated {
		cmds = append(cmds, m.initTabs())
	} else if m.login != nil {
		cmds = append(cmds, m.login.Init())
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		// Tabs own spinners too; their ticks carry their own IDs.
		return m, tea.Batch(cmd, m.broadcast(msg))
	}

	cmds := m.handleAppMsg(msg)
	cmds = append(cmds, m.broadcast(msg))
	return m, tea.Batch(cmds...)
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		m.state.ClearExpiredNotifications()
		cmds = append(cmds, defaultTickCmd())
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEvent(msg.Event))
		if m.eventChannel != nil {
			cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
		}
	case LoginResultMsg:
		if msg.Error == nil && m.services != nil {
			cmds = append(cmds, m.authenticate(m.services.Session().Get()))
		}
	case UnauthenticatedMsg:
		cmds = append(cmds, m.deauthenticate(api.ErrUnauthenticated.Error()))
	case LogoutMsg:
		if m.services != nil {
			cmds = append(cmds, logoutCmd(m.services))
		}
	case MutationResultMsg:
		cmds = append(cmds, m.handleMutationResult(msg))
	case BlockingErrorMsg:
		cmds = append(cmds, m.handleBlockingError(msg.Context, msg.Error))
	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
		}
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ClearExpiredNotificationsMsg:
		m.state.ClearExpiredNotifications()
	case CopyToClipboardMsg:
		cmds = append(cmds, copyToClipboardCmd(msg.Text, msg.Label))
	case ClipboardResultMsg:
		if msg.Error != nil {
			cmds = append(cmds, NotifyError(fmt.Sprintf("Copy failed: %v", msg.Error)))
		} else {
			cmds = append(cmds, NotifyInfo(fmt.Sprintf("Copied %s to clipboard", msg.Label)))
		}
	case TabSwitchMsg:
		m.switchTab(msg.Tab)
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	case QuitMsg:
		cmds = append(cmds, tea.Quit)
	}
	return cmds
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.SessionChangedEvent:
		if e.Session != nil {
			m.state.SetSession(e.Session)
			return m.authenticate(e.Session)
		}
		reason := "Logged out."
		if e.Revoked {
			reason = api.ErrUnauthenticated.Error()
		}
		return m.deauthenticate(reason)

	case services.ErrorEvent:
		return NotifyError(fmt.Sprintf("[%s] %v", e.Service, e.Error))
	}
	return nil
}

func (m *Model) handleMutationResult(msg MutationResultMsg) tea.Cmd {
	if msg.Error != nil {
		return m.handleBlockingError(fmt.Sprintf("Could not %s %s", msg.Action, singular(msg.Resource)), msg.Error)
	}
	text := msg.Detail
	if text == "" {
		text = fmt.Sprintf("%s: %s done", singular(msg.Resource), msg.Action)
	}
	return NotifySuccess(text)
}

func (m *Model) handleBlockingError(title string, err error) tea.Cmd {
	if err == nil {
		return nil
	}
	if IsUnauthenticated(err) {
		return m.deauthenticate(err.Error())
	}
	m.state.SetBlockingError(title, err.Error())
	return nil
}

func singular(resource string) string {
	switch resource {
	case ResourceNetworks:
		return "network"
	case ResourceClients:
		return "client"
	case ResourceAccess:
		return "access grant"
	}
	return resource
}

// authenticate switches from the login view to the dashboard.
func (m *Model) authenticate(sess *models.Session) tea.Cmd {
	if m.authenticated {
		return nil
	}
	m.authenticated = true
	m.state.SetSession(sess)
	m.activeTab = TabStats
	m.showHelp = false
	m.updateSizes()
	if sess == nil {
		return m.initTabs()
	}
	authed := AuthenticatedMsg{Session: *sess}
	return tea.Batch(m.initTabs(), func() tea.Msg { return authed })
}

// deauthenticate returns to the login view. Every tab cancels its loads.
func (m *Model) deauthenticate(reason string) tea.Cmd {
	if !m.authenticated {
		return nil
	}
	m.authenticated = false
	m.showHelp = false
	m.state.SetSession(nil)
	m.state.DismissBlocking()

	var cmds []tea.Cmd
	out := LoggedOutMsg{Reason: reason}
	for i, tab := range m.tabs {
		if tab != nil {
			var cmd tea.Cmd
			m.tabs[i], cmd = tab.Update(out)
			cmds = append(cmds, cmd)
		}
	}
	if m.login != nil {
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(out)
		cmds = append(cmds, cmd, m.login.Init())
	}
	return tea.Batch(cmds...)
}

func (m *Model) initTabs() tea.Cmd {
	var cmds []tea.Cmd
	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}
	return tea.Batch(cmds...)
}

// broadcast delivers non-key messages to every view that can use them.
// Tabs load in the background, so their results must reach them even
// when another tab is on screen.
func (m *Model) broadcast(msg tea.Msg) tea.Cmd {
	if !m.authenticated {
		if m.login == nil {
			return nil
		}
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return cmd
	}

	var cmds []tea.Cmd
	for i, tab := range m.tabs {
		if tab != nil {
			var cmd tea.Cmd
			m.tabs[i], cmd = tab.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateSizes()
}

func (m *Model) updateSizes() {
	contentHeight := max(0, m.height-3)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
	if m.login != nil {
		m.login.SetSize(m.width, m.height)
	}
}

func (m *Model) switchTab(id TabID) {
	if id < 0 || int(id) >= len(m.tabs) {
		return
	}
	m.activeTab = id
}

func (m *Model) activeView() Tab {
	if int(m.activeTab) < len(m.tabs) {
		return m.tabs[m.activeTab]
	}
	return nil
}

// handleKeyMsg handles keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keymap.Abort) {
		return tea.Quit
	}

	// A blocking error swallows every key until dismissed.
	if m.state.Blocking() != nil {
		if key.Matches(msg, m.keymap.Dismiss) {
			m.state.DismissBlocking()
		}
		return nil
	}

	if !m.authenticated {
		if m.login == nil {
			return nil
		}
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return cmd
	}

	if m.showHelp {
		if key.Matches(msg, m.keymap.Help, m.keymap.Escape, m.keymap.Quit) {
			m.showHelp = false
		}
		return nil
	}

	tab := m.activeView()
	if c, ok := tab.(InputCapturer); ok && c.CapturesInput() {
		return m.forwardKey(msg)
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
		return nil

	case key.Matches(msg, m.keymap.Logout):
		return func() tea.Msg { return LogoutMsg{} }

	case key.Matches(msg, m.keymap.NextTab):
		m.switchTab(TabID((int(m.activeTab) + 1) % len(m.tabs)))
		return nil

	case key.Matches(msg, m.keymap.PrevTab):
		m.switchTab(TabID((int(m.activeTab) - 1 + len(m.tabs)) % len(m.tabs)))
		return nil
	}

	for i, binding := range m.keymap.Tabs {
		if key.Matches(msg, binding) {
			m.switchTab(TabID(i))
			return nil
		}
	}

	return m.forwardKey(msg)
}

func (m *Model) forwardKey(msg tea.KeyMsg) tea.Cmd {
	tab := m.activeView()
	if tab == nil {
		return nil
	}
	var cmd tea.Cmd
	m.tabs[m.activeTab], cmd = tab.Update(msg)
	return cmd
}

// View renders the application UI.
func (m *Model) View() string {
	if !m.ready {
		return m.styles.Content.Render(fmt.Sprintf("%s Loading...", m.spinner.View()))
	}

	var mainView string
	if m.authenticated {
		mainView = m.renderDashboard()
		if m.showHelp {
			mainView = m.overlayCentered(mainView, m.renderHelp())
		}
	} else if m.login != nil {
		mainView = m.login.View()
	} else {
		mainView = m.styles.Content.Render("Not signed in.")
	}

	if b := m.state.Blocking(); b != nil {
		mainView = m.overlayCentered(mainView, m.renderBlocking(b))
	}

	if notifications := m.renderNotifications(); len(notifications) > 0 {
		return m.overlayToasts(mainView, notifications)
	}

	return mainView
}

func (m *Model) renderDashboard() string {
	var b strings.Builder
	b.WriteString(m.renderNavbar())
	b.WriteString("\n")

	if tab := m.activeView(); tab != nil {
		b.WriteString(tab.View())
	} else {
		b.WriteString(m.renderPlaceholder())
	}
	return b.String()
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := strings.Split(mainView, "\n")
	overlayLines := strings.Split(overlay, "\n")

	overlayHeight := len(overlayLines)
	overlayWidth := lipgloss.Width(overlay)

	y := max((m.height-overlayHeight)/2, 0)
	x := max((m.width-overlayWidth)/2, 0)

	for len(mainLines) < y+overlayHeight {
		mainLines = append(mainLines, "")
	}

	for i, overlayLine := range overlayLines {
		mainY := y + i
		mainLine := mainLines[mainY]

		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")

		if lipgloss.Width(left) < x {
			left += strings.Repeat(" ", x-lipgloss.Width(left))
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderNavbar() string {
	var tabs []string

	for i := range m.tabs {
		name := TabID(i).String()
		if TabID(i) == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(fmt.Sprintf("[%d] %s", i+1, name)))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(fmt.Sprintf(" %d  %s", i+1, name)))
		}
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	if user := m.state.Username(); user != "" {
		who := user
		if m.services != nil {
			who = fmt.Sprintf("%s@%s", user, m.services.Profile())
		}
		label := m.styles.User.Render(who)
		gap := m.width - lipgloss.Width(tabBar) - lipgloss.Width(label) - 2
		if gap > 0 {
			tabBar = tabBar + strings.Repeat(" ", gap) + label
		}
	}

	return m.styles.TabBar.Width(m.width).Render(tabBar)
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	var toasts []string
	for _, n := range notifications {
		var style lipgloss.Style
		var prefix string

		switch n.Type {
		case NotificationSuccess:
			style = m.styles.NotificationSuccess
			prefix = "[OK]"
		case NotificationError:
			style = m.styles.NotificationError
			prefix = "[ERR]"
		case NotificationWarning:
			style = m.styles.NotificationWarning
			prefix = "[WARN]"
		case NotificationInfo:
			style = m.styles.NotificationInfo
			prefix = "[INFO]"
		case NotificationLoading:
			style = m.styles.NotificationInfo
			prefix = m.spinner.View()
		}

		content := style.Render(fmt.Sprintf("%s %s", prefix, n.Message))
		toasts = append(toasts, m.styles.Toast.Render(content))
	}

	return toasts
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	if len(toasts) == 0 {
		return mainView
	}

	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")
	mainLines := strings.Split(mainView, "\n")

	toastWidth := lipgloss.Width(toastStack)
	startX := max(m.width-toastWidth-2, 0)

	startY := 2

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			break
		}

		mainLine := mainLines[lineIdx]
		mainLineWidth := lipgloss.Width(mainLine)

		if mainLineWidth < startX {
			padding := strings.Repeat(" ", startX-mainLineWidth)
			mainLines[lineIdx] = mainLine + padding + toastLine
		} else {
			truncated := ansi.Truncate(mainLine, startX, "")
			mainLines[lineIdx] = truncated + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderBlocking(b *BlockingError) string {
	width := min(max(m.width/2, 40), 80)
	body := lipgloss.NewStyle().Width(width).Render(b.Message)
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Error.Render(b.Title),
		"",
		body,
		"",
		m.styles.Subtle.Render("Press Enter or Esc to dismiss"),
	)
	return m.styles.Dialog.Render(content)
}

func (m *Model) renderHelp() string {
	var lines []string

	lines = append(lines, m.styles.Title.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Navigation"))
	lines = append(lines, fmt.Sprintf("  1-%d        Switch tabs", tabCount))
	lines = append(lines, "  Tab        Next tab")
	lines = append(lines, "  Shift+Tab  Previous tab")
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Session"))
	lines = append(lines, "  Ctrl+O     Log out")
	lines = append(lines, "  ?          Toggle help")
	lines = append(lines, "  q/Ctrl+C   Quit")
	lines = append(lines, "")

	if tab := m.activeView(); tab != nil {
		tabHelp := tab.ShortHelp()
		if len(tabHelp) > 0 {
			lines = append(lines, m.styles.Highlight.Render(fmt.Sprintf("%s Tab", m.activeTab)))
			for _, binding := range tabHelp {
				lines = append(lines, fmt.Sprintf("  %-10s %s", binding.Help().Key, binding.Help().Desc))
			}
		}
	}

	lines = append(lines, "")
	lines = append(lines, m.styles.Subtle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPlaceholder() string {
	content := fmt.Sprintf(
		"Tab %d: %s\n\n%s",
		m.activeTab+1,
		m.activeTab,
		m.styles.Subtle.Render("This tab is not available."),
	)
	return m.styles.Content.Render(content)
}
