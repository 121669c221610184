package logs

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/j-veylop/aiconsole/internal/app"
	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/services/servicestest"
	"github.com/j-veylop/aiconsole/internal/ui/components"
	"github.com/j-veylop/aiconsole/internal/ui/uitest"
)

var (
	botID = uuid.NewString()
	gptID = uuid.NewString()
)

// fakeLogs pages through total entries, every third one failed.
type fakeLogs struct {
	mu      sync.Mutex
	total   int
	queries []url.Values
}

func (f *fakeLogs) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/logs", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f.mu.Lock()
		f.queries = append(f.queries, q)
		total := f.total
		f.mu.Unlock()

		var all []models.RequestLog
		for i := range total {
			l := models.RequestLog{ID: strconv.Itoa(i), Success: i%3 != 0, Prompt: fmt.Sprintf("prompt %d", i), ClientApplicationName: "bot"}
			if s := q.Get("success"); s != "" && strconv.FormatBool(l.Success) != s {
				continue
			}
			all = append(all, l)
		}
		page, _ := strconv.Atoi(q.Get("page"))
		size, _ := strconv.Atoi(q.Get("size"))
		start := min(page*size, len(all))
		end := min(start+size, len(all))
		servicestest.JSON(w, http.StatusOK, models.LogPage{
			Content:       all[start:end],
			TotalElements: int64(len(all)),
			TotalPages:    (len(all) + size - 1) / size,
		})
	})
	mux.HandleFunc("GET /api/admin/clients", func(w http.ResponseWriter, _ *http.Request) {
		servicestest.JSON(w, http.StatusOK, []models.ClientApplication{{ID: botID, Name: "bot"}})
	})
	mux.HandleFunc("GET /api/admin/networks", func(w http.ResponseWriter, _ *http.Request) {
		servicestest.JSON(w, http.StatusOK, []models.NeuralNetwork{{ID: gptID, Name: "gpt"}})
	})
	return mux
}

func (f *fakeLogs) last() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func (f *fakeLogs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func newTab(t *testing.T, f *fakeLogs) *Model {
	t.Helper()
	m := New(servicestest.NewManager(t, f.handler(), true), 20)
	m.SetSize(140, 40)
	uitest.Pump(m, m.Init())
	return m
}

func TestPaging(t *testing.T) {
	f := &fakeLogs{total: 45}
	m := newTab(t, f)

	if m.Status() != components.StateLoaded {
		t.Fatalf("status = %v", m.Status())
	}
	if m.TotalPages() != 3 || len(m.Logs()) != 20 {
		t.Fatalf("pages = %d, logs = %d", m.TotalPages(), len(m.Logs()))
	}
	if q := f.last(); q.Get("page") != "0" || q.Get("size") != "20" {
		t.Errorf("first query = %v", q)
	}

	// Previous is disabled on the first page.
	if _, cmd := m.Update(uitest.Key("left")); cmd != nil {
		t.Error("previous page requested on page 0")
	}

	for want := 1; want <= 2; want++ {
		_, cmd := m.Update(uitest.Key("right"))
		uitest.Pump(m, cmd)
		if m.Page() != want || f.last().Get("page") != strconv.Itoa(want) {
			t.Fatalf("page = %d, query page = %s, want %d", m.Page(), f.last().Get("page"), want)
		}
	}
	if len(m.Logs()) != 5 {
		t.Errorf("last page has %d entries, want 5", len(m.Logs()))
	}

	before := f.count()
	if _, cmd := m.Update(uitest.Key("right")); cmd != nil {
		t.Error("next page requested on the last page")
	}
	if f.count() != before || m.Page() != 2 {
		t.Error("page moved past the end")
	}

	_, cmd := m.Update(uitest.Key("g"))
	uitest.Pump(m, cmd)
	if m.Page() != 0 {
		t.Errorf("page = %d after g, want 0", m.Page())
	}
	if !strings.Contains(m.View(), "Page 1 of 3") {
		t.Error("pager not rendered")
	}
}

func TestFilterResetsPage(t *testing.T) {
	f := &fakeLogs{total: 45}
	m := newTab(t, f)

	_, cmd := m.Update(uitest.Key("G"))
	uitest.Pump(m, cmd)
	if m.Page() != 2 {
		t.Fatalf("page = %d, want 2", m.Page())
	}

	_, cmd = m.Update(uitest.Key("s"))
	uitest.Pump(m, cmd)

	q := f.last()
	if q.Get("success") != "true" || q.Get("page") != "0" {
		t.Errorf("query after filter = %v", q)
	}
	if m.Page() != 0 || m.TotalPages() != 2 {
		t.Errorf("page = %d of %d, want 0 of 2", m.Page(), m.TotalPages())
	}

	_, cmd = m.Update(uitest.Key("s"))
	uitest.Pump(m, cmd)
	if f.last().Get("success") != "false" {
		t.Errorf("second press should show failures, got %v", f.last())
	}

	_, cmd = m.Update(uitest.Key("c"))
	uitest.Pump(m, cmd)
	if f.last().Get("clientId") != botID {
		t.Errorf("client filter not sent: %v", f.last())
	}
	if !strings.Contains(m.View(), "client: bot") {
		t.Error("client filter chip missing")
	}

	_, cmd = m.Update(uitest.Key("x"))
	uitest.Pump(m, cmd)
	if !m.Filter().Empty() || f.last().Has("success") || f.last().Has("clientId") {
		t.Errorf("filters not cleared: %v", f.last())
	}
}

func TestShrunkLogClampsPage(t *testing.T) {
	f := &fakeLogs{total: 45}
	m := newTab(t, f)

	_, cmd := m.Update(uitest.Key("G"))
	uitest.Pump(m, cmd)

	f.mu.Lock()
	f.total = 25
	f.mu.Unlock()

	_, cmd = m.Update(uitest.Key("r"))
	uitest.Pump(m, cmd)
	if m.Page() != 1 || len(m.Logs()) != 5 {
		t.Errorf("page = %d with %d logs, want 1 with 5", m.Page(), len(m.Logs()))
	}
}

func TestEmptyLog(t *testing.T) {
	m := newTab(t, &fakeLogs{})

	if m.TotalPages() != 0 || m.Page() != 0 {
		t.Fatalf("page %d of %d", m.Page(), m.TotalPages())
	}
	if _, cmd := m.Update(uitest.Key("right")); cmd != nil {
		t.Error("paging on an empty log")
	}
	if !strings.Contains(m.View(), "No requests") {
		t.Error("empty state not shown")
	}
}

func TestDetails(t *testing.T) {
	m := newTab(t, &fakeLogs{total: 3})

	m.Update(uitest.Key("enter"))
	if !m.CapturesInput() {
		t.Fatal("enter did not open the details")
	}
	if !strings.Contains(m.View(), "prompt 0") {
		t.Error("details do not show the prompt")
	}
	m.Update(uitest.Key("esc"))
	if m.CapturesInput() {
		t.Error("esc did not close the details")
	}
}

func TestNextHelpers(t *testing.T) {
	if v := nextSuccess(nil); v == nil || !*v {
		t.Error("nil → true")
	}
	f := false
	if nextSuccess(&f) != nil {
		t.Error("false → nil")
	}

	ids := []string{"a", "b"}
	a := nextID(nil, ids)
	b := nextID(a, ids)
	if *a != "a" || *b != "b" || nextID(b, ids) != nil {
		t.Error("nextID does not cycle a → b → nil")
	}
	if nextID(nil, nil) != nil {
		t.Error("no ids must yield nil")
	}
}

func TestLoggedOut(t *testing.T) {
	m := newTab(t, &fakeLogs{total: 45})
	m.Update(app.LoggedOutMsg{})
	if m.Status() != components.StateLoading || m.Logs() != nil || m.TotalPages() != 0 {
		t.Error("logout did not reset the tab")
	}
}
