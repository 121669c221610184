package stats

import (
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/j-veylop/aiconsole/internal/app"
	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/services/servicestest"
	"github.com/j-veylop/aiconsole/internal/ui/components"
	"github.com/j-veylop/aiconsole/internal/ui/uitest"
)

func sampleStats() models.UsageStats {
	return models.UsageStats{
		TotalRequests:      200,
		SuccessfulRequests: 190,
		FailedRequests:     10,
		TotalTokensUsed:    123456,
		RequestsByNetwork:  map[string]int64{"gpt": 150, "claude": 50},
		RequestsByClient:   map[string]int64{"bot": 200},
	}
}

func newTab(t *testing.T, status int) (*Model, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/stats", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		if status != http.StatusOK {
			servicestest.Error(w, status, "")
			return
		}
		servicestest.JSON(w, http.StatusOK, sampleStats())
	})
	mgr := servicestest.NewManager(t, mux, true)
	m := New(mgr, 0)
	m.SetSize(120, 40)
	return m, &calls
}

func TestLoad(t *testing.T) {
	m, calls := newTab(t, http.StatusOK)

	if m.Status() != components.StateLoading {
		t.Fatalf("initial status = %v, want loading", m.Status())
	}
	uitest.Pump(m, m.Init())

	if m.Status() != components.StateLoaded {
		t.Fatalf("status = %v, want loaded", m.Status())
	}
	if calls.Load() != 1 {
		t.Errorf("stats requested %d times, want 1", calls.Load())
	}
	if len(m.history) != 1 {
		t.Errorf("history has %d snapshots, want the one just recorded", len(m.history))
	}

	view := m.View()
	for _, want := range []string{"95.0%", "200", "gpt", "bot"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestLoad_Error(t *testing.T) {
	m, _ := newTab(t, http.StatusInternalServerError)
	uitest.Pump(m, m.Init())

	if m.Status() != components.StateError {
		t.Fatalf("status = %v, want error", m.Status())
	}
	if !strings.Contains(m.View(), "HTTP 500") {
		t.Errorf("view does not show the error: %q", m.View())
	}
}

func TestLoad_Unauthenticated(t *testing.T) {
	m, _ := newTab(t, http.StatusUnauthorized)
	msgs := uitest.Pump(m, m.Init())

	if _, ok := uitest.Find[app.UnauthenticatedMsg](msgs); !ok {
		t.Fatalf("no UnauthenticatedMsg in %v", msgs)
	}
	if m.Status() == components.StateError {
		t.Error("an expired session must not show as a load error")
	}
}

func TestStaleResultDropped(t *testing.T) {
	m, _ := newTab(t, http.StatusOK)

	first := uitest.Collect(m.load())
	second := uitest.Collect(m.load())

	for _, msg := range first {
		m.Update(msg)
	}
	if m.Status() == components.StateLoaded {
		t.Fatal("result of a superseded load was applied")
	}
	for _, msg := range second {
		m.Update(msg)
	}
	if m.Status() != components.StateLoaded {
		t.Fatalf("status = %v, want loaded", m.Status())
	}
}

func TestLoggedOutDropsInFlight(t *testing.T) {
	m, _ := newTab(t, http.StatusOK)
	msgs := uitest.Collect(m.load())

	m.Update(app.LoggedOutMsg{})
	for _, msg := range msgs {
		m.Update(msg)
	}
	if m.Status() != components.StateLoading {
		t.Errorf("status = %v, want loading after logout", m.Status())
	}
	if m.stats != nil {
		t.Error("stats survived logout")
	}
}

func TestToggleRange(t *testing.T) {
	m, _ := newTab(t, http.StatusOK)
	uitest.Pump(m, m.Init())

	want := []models.TimeRange{models.TimeRange7Days, models.TimeRange30Days, models.TimeRangeAllTime, models.TimeRange24Hours}
	for _, r := range want {
		_, cmd := m.Update(uitest.Key("t"))
		if m.TimeRange() != r {
			t.Fatalf("TimeRange() = %v, want %v", m.TimeRange(), r)
		}
		uitest.Pump(m, cmd)
	}
	if len(m.history) != 1 {
		t.Errorf("history has %d snapshots after reload, want 1", len(m.history))
	}
}

func TestAutoRefresh(t *testing.T) {
	m, calls := newTab(t, http.StatusOK)
	uitest.Pump(m, m.Init())

	// A tick from an older chain is ignored.
	if _, cmd := m.Update(autoRefreshMsg{seq: m.refreshSeq - 1}); cmd != nil {
		t.Error("stale refresh tick produced a command")
	}

	_, cmd := m.Update(autoRefreshMsg{seq: m.refreshSeq})
	uitest.Pump(m, cmd)
	if calls.Load() != 2 {
		t.Errorf("stats requested %d times, want 2", calls.Load())
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		name  string
		stats models.UsageStats
		want  string
	}{
		{"no requests", models.UsageStats{}, "0.0%"},
		{"all ok", models.UsageStats{TotalRequests: 4, SuccessfulRequests: 4}, "100.0%"},
		{"two thirds", models.UsageStats{TotalRequests: 3, SuccessfulRequests: 2}, "66.7%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRate(&tt.stats); got != tt.want {
				t.Errorf("FormatRate() = %q, want %q", got, tt.want)
			}
		})
	}
}
