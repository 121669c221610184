// Package stats provides the usage statistics tab.
package stats

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/aiconsole/internal/app"
	"github.com/j-veylop/aiconsole/internal/logger"
	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/services"
	"github.com/j-veylop/aiconsole/internal/ui/components"
)

// keyMap defines the key bindings specific to the stats tab.
type keyMap struct {
	ToggleRange key.Binding
	Refresh     key.Binding
	Up          key.Binding
	Down        key.Binding
}

// defaultKeyMap returns the default key bindings for the stats tab.
func defaultKeyMap() keyMap {
	return keyMap{
		ToggleRange: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle trend range"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// statsLoadedMsg carries the result of one stats fetch.
type statsLoadedMsg struct {
	err     error
	stats   *models.UsageStats
	history []models.StatsSnapshot
	gen     uint64
}

// historyLoadedMsg carries the locally recorded trend for a time range.
type historyLoadedMsg struct {
	err     error
	history []models.StatsSnapshot
	gen     uint64
}

// autoRefreshMsg triggers a periodic reload. Only the newest chain is honored.
type autoRefreshMsg struct {
	seq int
}

// Model represents the stats tab state.
type Model struct {
	services *services.Manager
	keys     keyMap
	viewport viewport.Model
	spinner  components.Activity

	loader        app.Loader
	historyLoader app.Loader
	status        components.LoadState
	err           error

	stats       *models.UsageStats
	history     []models.StatsSnapshot
	historyErr  error
	timeRange   models.TimeRange
	lastRefresh time.Time

	refreshEvery time.Duration
	refreshSeq   int

	width  int
	height int
}

// New creates a new stats model. A positive refreshEvery reloads the
// stats periodically while signed in.
func New(svc *services.Manager, refreshEvery time.Duration) *Model {
	return &Model{
		services:     svc,
		keys:         defaultKeyMap(),
		viewport:     viewport.New(0, 0),
		spinner:      components.NewActivity("Loading statistics..."),
		timeRange:    models.TimeRange24Hours,
		refreshEvery: refreshEvery,
	}
}

// Init loads the stats and starts the refresh timer.
func (m *Model) Init() tea.Cmd {
	m.refreshSeq++
	return tea.Batch(m.load(), m.scheduleRefresh())
}

func (m *Model) scheduleRefresh() tea.Cmd {
	if m.refreshEvery <= 0 {
		return nil
	}
	seq := m.refreshSeq
	return tea.Tick(m.refreshEvery, func(time.Time) tea.Msg {
		return autoRefreshMsg{seq: seq}
	})
}

// load fetches the stats, records a snapshot and reads back the trend.
func (m *Model) load() tea.Cmd {
	if m.services == nil {
		return nil
	}
	ctx, gen := m.loader.Start()
	if m.stats == nil {
		m.status = components.StateLoading
	}
	mgr := m.services
	timeRange := m.timeRange

	return tea.Batch(m.spinner.Start(""), func() tea.Msg {
		stats, err := mgr.Client().GetStats(ctx)
		if err != nil {
			return statsLoadedMsg{gen: gen, err: err}
		}
		if err := mgr.RecordStats(ctx, stats); err != nil {
			logger.Warn("failed to record stats snapshot", "error", err)
		}
		history, herr := mgr.StatsHistory(ctx, timeRange)
		if herr != nil {
			logger.Debug("stats history unavailable", "error", herr)
		}
		return statsLoadedMsg{gen: gen, stats: stats, history: history}
	})
}

func (m *Model) loadHistory() tea.Cmd {
	if m.services == nil {
		return nil
	}
	ctx, gen := m.historyLoader.Start()
	mgr := m.services
	timeRange := m.timeRange
	return func() tea.Msg {
		history, err := mgr.StatsHistory(ctx, timeRange)
		return historyLoadedMsg{gen: gen, history: history, err: err}
	}
}

// Update handles messages for the stats tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		return m, m.handleLoaded(msg)

	case historyLoadedMsg:
		if !m.historyLoader.Finish(msg.gen) {
			return m, nil
		}
		m.history = msg.history
		m.historyErr = msg.err

	case autoRefreshMsg:
		if msg.seq != m.refreshSeq {
			return m, nil
		}
		return m, tea.Batch(m.load(), m.scheduleRefresh())

	case app.LoggedOutMsg:
		m.loader.Invalidate()
		m.historyLoader.Invalidate()
		m.refreshSeq++
		m.stats = nil
		m.history = nil
		m.err = nil
		m.status = components.StateLoading

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	default:
		if m.status == components.StateLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m *Model) handleLoaded(msg statsLoadedMsg) tea.Cmd {
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
	m.stats = msg.stats
	m.history = msg.history
	m.err = nil
	m.status = components.StateLoaded
	m.lastRefresh = time.Now()
	return nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleRange):
		m.timeRange = m.timeRange.Next()
		return m, m.loadHistory()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// Status returns the load state of the tab.
func (m *Model) Status() components.LoadState {
	return m.status
}

// TimeRange returns the range of the trend chart.
func (m *Model) TimeRange() models.TimeRange {
	return m.timeRange
}

// SetSize sets the available size for the stats tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-4, 0)
	m.viewport.Height = max(height-2, 0)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.ToggleRange,
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.ToggleRange, m.keys.Refresh},
		{m.keys.Up, m.keys.Down},
	}
}
