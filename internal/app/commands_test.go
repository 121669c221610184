package app

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/aiconsole/internal/api"
	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/services"
	"github.com/j-veylop/aiconsole/internal/services/servicestest"
)

func authHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		servicestest.JSON(w, http.StatusOK, models.LoginResponse{Token: "fresh", Username: "admin", ExpiresIn: 3600})
	})
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		servicestest.Error(w, http.StatusConflict, "Username already exists")
	})
	return mux
}

func TestNotifyHelpers(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) tea.Cmd
		want NotificationType
	}{
		{"Success", NotifySuccess, NotificationSuccess},
		{"Error", NotifyError, NotificationError},
		{"Warning", NotifyWarning, NotificationWarning},
		{"Info", NotifyInfo, NotificationInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.fn("msg")()

			addMsg, ok := msg.(AddNotificationMsg)
			if !ok {
				t.Fatalf("Expected AddNotificationMsg, got %T", msg)
			}
			if addMsg.Type != tt.want {
				t.Errorf("Type = %v, want %v", addMsg.Type, tt.want)
			}
			if addMsg.Message != "msg" {
				t.Errorf("Message = %q, want msg", addMsg.Message)
			}
			if addMsg.Duration <= 0 {
				t.Error("toasts should expire")
			}
		})
	}
}

func TestTickCommands(t *testing.T) {
	if tickCmd(time.Millisecond) == nil || defaultTickCmd() == nil {
		t.Error("tick commands should not be nil")
	}
	if clearNotificationCmd("id", time.Millisecond) == nil {
		t.Error("clearNotificationCmd returned nil")
	}
}

func TestWaitForServiceEventCmd(t *testing.T) {
	ch := make(chan services.ServiceEvent, 1)
	ch <- services.ErrorEvent{Service: "session", Error: errors.New("boom")}

	msg := waitForServiceEventCmd(ch)()
	ev, ok := msg.(ServiceEventMsg)
	if !ok {
		t.Fatalf("got %T, want ServiceEventMsg", msg)
	}
	if _, ok := ev.Event.(services.ErrorEvent); !ok {
		t.Errorf("event = %T", ev.Event)
	}

	close(ch)
	if msg := waitForServiceEventCmd(ch)(); msg != nil {
		t.Errorf("closed channel should yield nil, got %T", msg)
	}
}

func TestCopyToClipboardCmd(t *testing.T) {
	var copied string
	orig := clipboardWrite
	t.Cleanup(func() { clipboardWrite = orig })

	clipboardWrite = func(s string) error {
		copied = s
		return nil
	}
	msg := copyToClipboardCmd("sk-123", "API key")().(ClipboardResultMsg)
	if msg.Error != nil || msg.Label != "API key" || copied != "sk-123" {
		t.Errorf("got %+v, copied %q", msg, copied)
	}

	clipboardWrite = func(string) error { return errors.New("no clipboard") }
	msg = copyToClipboardCmd("x", "y")().(ClipboardResultMsg)
	if msg.Error == nil {
		t.Error("clipboard failure should be reported")
	}
}

func TestLoginCmd(t *testing.T) {
	mgr := servicestest.NewManager(t, authHandler(), false)

	msg := LoginCmd(mgr, models.Credentials{Username: "admin", Password: "pw"})().(LoginResultMsg)
	if msg.Error != nil {
		t.Fatalf("login failed: %v", msg.Error)
	}
	if msg.Username != "admin" {
		t.Errorf("Username = %q", msg.Username)
	}
	if mgr.Session().Token() != "fresh" {
		t.Errorf("token = %q, want fresh", mgr.Session().Token())
	}
}

func TestLoginCmd_WrongPassword(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		servicestest.Error(w, http.StatusUnauthorized, "Bad credentials")
	})
	mgr := servicestest.NewManager(t, mux, false)

	msg := LoginCmd(mgr, models.Credentials{Username: "admin", Password: "nope"})().(LoginResultMsg)
	if !errors.Is(msg.Error, api.ErrUnauthenticated) {
		t.Errorf("Error = %v, want ErrUnauthenticated", msg.Error)
	}
	if mgr.Session().Token() != "" {
		t.Error("failed login must not store a token")
	}
}

func TestRegisterCmd(t *testing.T) {
	mgr := servicestest.NewManager(t, authHandler(), false)

	msg := RegisterCmd(mgr, models.Credentials{Username: "admin", Password: "pw"})().(RegisterResultMsg)
	if msg.Error == nil || msg.Error.Error() != "Username already exists" {
		t.Errorf("Error = %v, want backend body", msg.Error)
	}
}

func TestMutate(t *testing.T) {
	mgr := servicestest.NewManager(t, http.NotFoundHandler(), true)

	ok := Mutate(mgr, "delete", ResourceNetworks, "id-1", func(context.Context) (string, error) {
		return "Network deleted", nil
	})().(MutationResultMsg)
	if ok.Error != nil || ok.Detail != "Network deleted" || ok.Resource != ResourceNetworks || ok.ID != "id-1" {
		t.Errorf("got %+v", ok)
	}

	failed := Mutate(mgr, "delete", ResourceNetworks, "id-2", func(context.Context) (string, error) {
		return "", errors.New("Network is in use")
	})().(MutationResultMsg)
	if failed.Error == nil {
		t.Fatal("error should be reported")
	}

	events, err := mgr.RecentActivity(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentActivity() failed: %v", err)
	}
	if len(events) != 2 || events[0].Success || !events[1].Success {
		t.Errorf("journal = %+v", events)
	}
}

func TestIsUnauthenticated(t *testing.T) {
	if !IsUnauthenticated(api.ErrUnauthenticated) {
		t.Error("sentinel should match")
	}
	if IsUnauthenticated(errors.New("x")) || IsUnauthenticated(nil) {
		t.Error("other errors should not match")
	}
	if _, ok := Unauthenticated()().(UnauthenticatedMsg); !ok {
		t.Error("Unauthenticated should produce UnauthenticatedMsg")
	}
	if msg, ok := CopyToClipboard("a", "b")().(CopyToClipboardMsg); !ok || msg.Text != "a" {
		t.Error("CopyToClipboard should produce CopyToClipboardMsg")
	}
}
