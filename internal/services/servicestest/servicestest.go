// Package servicestest builds service managers backed by an in-process
// admin API for tests of the packages above services.
package servicestest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/j-veylop/aiconsole/internal/api"
	"github.com/j-veylop/aiconsole/internal/db"
	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/services"
	"github.com/j-veylop/aiconsole/internal/session"
)

// Token is the bearer token of pre-authenticated managers.
const Token = "test-token"

// NewManager starts h as the admin API and returns a manager talking to it
// with an in-memory session store and a temporary history database. When
// signedIn is true the store starts with a session for user "admin".
func NewManager(t testing.TB, h http.Handler, signedIn bool) *services.Manager {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	store := session.NewMemory("test")
	if signedIn {
		if err := store.Set(models.Session{Token: Token, Username: "admin", CreatedAt: time.Now()}); err != nil {
			t.Fatalf("store.Set() failed: %v", err)
		}
		// Drain the event so subscribers only see changes made by the test.
		<-store.Events()
	}

	database, err := db.New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("db.New() failed: %v", err)
	}

	client := api.New(srv.URL, store, api.WithTimeout(5*time.Second))
	mgr := services.NewManagerFrom(store, client, database, 0)
	mgr.SetNotifier(func(string, string) error { return nil })
	t.Cleanup(func() { _ = mgr.Close() })

	return mgr
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a plain-text error body, the way the backend reports
// validation and conflict failures.
func Error(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
