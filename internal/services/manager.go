// Package services provides service orchestration for the console.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/aiconsole/internal/api"
	"github.com/j-veylop/aiconsole/internal/config"
	"github.com/j-veylop/aiconsole/internal/db"
	"github.com/j-veylop/aiconsole/internal/logger"
	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/session"
)

// Alerting thresholds for desktop notifications.
const (
	failureRateAlertPercent = 20.0
	failureRateMinSample    = 5
)

type (
	// SessionChangedEvent is emitted when the stored session is replaced or
	// removed. Session is nil after a logout or a backend rejection.
	SessionChangedEvent struct {
		Session *models.Session
		// Revoked is true when the session ended without an explicit logout.
		Revoked bool
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Error   error
		Service string
	}

	// StatsRecordedEvent is emitted after a stats snapshot was stored.
	StatsRecordedEvent struct {
		Snapshot models.StatsSnapshot
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (SessionChangedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()          {}
func (StatsRecordedEvent) isServiceEvent()  {}

// Notifier raises a desktop notification.
type Notifier func(title, message string) error

func desktopNotify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Manager owns the session store, the API client and the local history
// database, and routes their events to subscribers.
type Manager struct {
	mu              sync.RWMutex
	store           *session.Store
	client          *api.Client
	database        *db.DB
	notify          Notifier
	eventChan       chan ServiceEvent
	stopChan        chan struct{}
	subscribers     []chan<- ServiceEvent
	profile         string
	historyLimit    int
	lastFailureRate float64
	expectingLogout bool
	haveFailureRate bool
	closeOnce       sync.Once
}

// NewManager creates a new service manager from configuration.
func NewManager(cfg *config.Config) (*Manager, error) {
	store, err := session.New(cfg.SessionPath, cfg.Profile)
	if err != nil {
		return nil, err
	}

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	client := api.New(cfg.APIURL, store, api.WithTimeout(cfg.RequestTimeout))
	return NewManagerFrom(store, client, database, cfg.StatsHistoryLimit), nil
}

// NewManagerFrom assembles a manager from already constructed parts.
// database may be nil, in which case history and auditing are disabled.
func NewManagerFrom(store *session.Store, client *api.Client, database *db.DB, historyLimit int) *Manager {
	if historyLimit <= 0 {
		historyLimit = 60
	}
	m := &Manager{
		store:        store,
		client:       client,
		database:     database,
		notify:       desktopNotify,
		eventChan:    make(chan ServiceEvent, 100),
		stopChan:     make(chan struct{}),
		profile:      store.Profile(),
		historyLimit: historyLimit,
	}

	go m.routeEvents()

	return m
}

// SetNotifier replaces the desktop notifier.
func (m *Manager) SetNotifier(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notify = n
}

// Watch starts following session changes made by other processes.
func (m *Manager) Watch() error {
	return m.store.Watch()
}

// routeEvents routes events from the session store to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.store.Events():
			m.handleSessionEvent(event)
		case <-m.stopChan:
			return
		}
	}
}

// handleSessionEvent converts and broadcasts session events.
func (m *Manager) handleSessionEvent(event session.Event) {
	switch event.Type {
	case session.EventSessionSet:
		m.broadcast(SessionChangedEvent{Session: event.Session})

	case session.EventSessionCleared:
		m.mu.Lock()
		revoked := !m.expectingLogout
		m.expectingLogout = false
		notify := m.notify
		m.mu.Unlock()

		if revoked {
			logger.Warn("session ended without logout", "profile", m.profile)
			if err := notify("AI Console: session ended", "The admin API rejected the session. Please log in again."); err != nil {
				logger.Debug("desktop notification failed", "error", err)
			}
		}
		m.broadcast(SessionChangedEvent{Revoked: revoked})

	case session.EventError:
		m.broadcast(ErrorEvent{Service: "session", Error: event.Error})
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	select {
	case m.eventChan <- event:
	default:
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
// It yields nil once the channel is closed.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ev
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Client returns the API client.
func (m *Manager) Client() *api.Client {
	return m.client
}

// Session returns the session store.
func (m *Manager) Session() *session.Store {
	return m.store
}

// Database returns the history database, which may be nil.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Profile returns the active profile name.
func (m *Manager) Profile() string {
	return m.profile
}

// Login authenticates through the API client, which stores the session.
func (m *Manager) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	resp, err := m.client.Login(ctx, creds)
	m.journal(ctx, "login", "session", "", err)
	return resp, err
}

// Logout clears the stored session.
func (m *Manager) Logout(ctx context.Context) error {
	if m.store.Token() == "" {
		return nil
	}

	m.mu.Lock()
	m.expectingLogout = true
	m.mu.Unlock()

	err := m.client.Logout()
	if err != nil {
		m.mu.Lock()
		m.expectingLogout = false
		m.mu.Unlock()
	}
	m.journal(ctx, "logout", "session", "", err)
	return err
}

// Mutate runs one backend mutation and journals its outcome locally.
func (m *Manager) Mutate(ctx context.Context, action, resource, id string, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	m.journal(ctx, action, resource, id, err)
	return err
}

func (m *Manager) journal(ctx context.Context, action, resource, id string, err error) {
	if m.database == nil {
		return
	}

	ev := models.AuditEvent{
		Profile:    m.profile,
		Action:     action,
		Resource:   resource,
		ResourceID: id,
		Success:    err == nil,
		OccurredAt: time.Now(),
	}
	if sess := m.store.Get(); sess != nil {
		ev.Username = sess.Username
	}
	if err != nil {
		ev.Error = err.Error()
	}

	// The journal must not fail a mutation that already happened.
	if dbErr := m.database.InsertAuditEvent(context.WithoutCancel(ctx), &ev); dbErr != nil {
		logger.Error("failed to journal mutation", "action", action, "resource", resource, "error", dbErr)
	}
}

// RecentActivity returns the newest journaled mutations for the active profile.
func (m *Manager) RecentActivity(ctx context.Context, limit int) ([]models.AuditEvent, error) {
	if m.database == nil {
		return nil, nil
	}
	return m.database.RecentAuditEvents(ctx, m.profile, limit)
}

// RecordStats stores a snapshot of stats and raises a desktop notification
// when the failure rate since the previous snapshot crosses the alert threshold.
func (m *Manager) RecordStats(ctx context.Context, stats *models.UsageStats) error {
	if m.database == nil || stats == nil {
		return nil
	}

	prev, err := m.database.LatestSnapshot(ctx, m.profile)
	if err != nil {
		return err
	}

	snap := models.SnapshotOf(m.profile, stats, time.Now())
	if err := m.database.InsertSnapshot(ctx, &snap); err != nil {
		return err
	}

	if prev != nil {
		m.checkFailureRate(prev, &snap)
	}

	m.broadcast(StatsRecordedEvent{Snapshot: snap})
	return nil
}

func (m *Manager) checkFailureRate(prev, cur *models.StatsSnapshot) {
	total := cur.TotalRequests - prev.TotalRequests
	failed := cur.FailedRequests - prev.FailedRequests
	if total < failureRateMinSample || failed < 0 {
		return
	}
	rate := float64(failed) / float64(total) * 100

	m.mu.Lock()
	crossed := rate >= failureRateAlertPercent && (!m.haveFailureRate || m.lastFailureRate < failureRateAlertPercent)
	m.lastFailureRate = rate
	m.haveFailureRate = true
	notify := m.notify
	m.mu.Unlock()

	if crossed {
		title := "AI Console: failure rate rising"
		body := fmt.Sprintf("%.1f%% of the last %d gateway requests failed", rate, total)
		if err := notify(title, body); err != nil {
			logger.Debug("desktop notification failed", "error", err)
		}
	}
}

// StatsHistory returns stored snapshots inside timeRange, oldest first.
func (m *Manager) StatsHistory(ctx context.Context, timeRange models.TimeRange) ([]models.StatsSnapshot, error) {
	if m.database == nil {
		return nil, errors.New("database not initialized")
	}
	return m.database.GetSnapshots(ctx, m.profile, timeRange.Since(time.Now()), m.historyLimit)
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var errs []error
	m.closeOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if err := m.store.Close(); err != nil {
			errs = append(errs, err)
		}

		if m.database != nil {
			if err := m.database.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
