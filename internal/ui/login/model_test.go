package login

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/aiconsole/internal/app"
	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/services/servicestest"
)

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func backend(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decode: %v", err)
		}
		if creds.Password != "secret" {
			servicestest.Error(w, http.StatusUnauthorized, "")
			return
		}
		servicestest.JSON(w, http.StatusOK, models.LoginResponse{Token: "tok", Username: creds.Username})
	})
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		servicestest.JSON(w, http.StatusOK, models.LoginResponse{Token: "ignored", Username: "newbie"})
	})
	return mux
}

// submit fills the form and runs the resulting command chain until the
// backend result arrives.
func submit(t *testing.T, m *Model, user, pass string) tea.Msg {
	t.Helper()
	m.Init()
	typeText(m, user)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(m, pass)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("submit returned no command")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatal("submit should batch the spinner and the request")
	}
	for _, c := range batch {
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case app.LoginResultMsg, app.RegisterResultMsg:
			return msg
		}
	}
	t.Fatal("no result message produced")
	return nil
}

func TestLogin_Success(t *testing.T) {
	mgr := servicestest.NewManager(t, backend(t), false)
	m := New(mgr)

	res := submit(t, m, "admin", "secret").(app.LoginResultMsg)
	if res.Error != nil {
		t.Fatalf("login failed: %v", res.Error)
	}
	if mgr.Session().Token() != "tok" {
		t.Errorf("token = %q", mgr.Session().Token())
	}
}

func TestLogin_WrongPasswordStaysWithMessage(t *testing.T) {
	mgr := servicestest.NewManager(t, backend(t), false)
	m := New(mgr)

	res := submit(t, m, "admin", "wrong").(app.LoginResultMsg)
	m.Update(res)

	if m.Message() != "not authenticated, please log in again" {
		t.Errorf("Message = %q", m.Message())
	}
	if !strings.Contains(m.View(), "not authenticated") {
		t.Error("view should show the failure")
	}
	if mgr.Session().Token() != "" {
		t.Error("no token should be stored")
	}
}

func TestLogin_RequiredFields(t *testing.T) {
	m := New(nil)
	m.Init()
	typeText(m, "admin")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("empty password must not submit")
	}
	if !strings.Contains(m.View(), "Password: is required") {
		t.Error("validation message missing")
	}
}

func TestLogin_RegisterMode(t *testing.T) {
	mgr := servicestest.NewManager(t, backend(t), false)
	m := New(mgr)
	m.Init()

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if !m.IsRegister() {
		t.Fatal("ctrl+r should switch to register mode")
	}

	res := submit(t, m, "newbie", "pw").(app.RegisterResultMsg)
	if res.Error != nil {
		t.Fatalf("register failed: %v", res.Error)
	}
	if mgr.Session().Token() != "" {
		t.Error("register must not sign in")
	}

	m.Update(res)
	if m.IsRegister() {
		t.Error("successful registration should return to login mode")
	}
	if m.Message() != "Account created. Please log in." {
		t.Errorf("Message = %q", m.Message())
	}
}

func TestLogin_LoggedOutReason(t *testing.T) {
	m := New(nil)
	m.Update(app.LoggedOutMsg{Reason: "not authenticated, please log in again"})
	if !strings.Contains(m.View(), "not authenticated, please log in again") {
		t.Error("view should explain why the session ended")
	}
}
