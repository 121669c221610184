package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/j-veylop/aiconsole/internal/models"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s.Session() != nil {
		t.Error("new state should be signed out")
	}
	if s.Blocking() != nil {
		t.Error("new state should have no blocking error")
	}
	if len(s.GetNotifications()) != 0 {
		t.Error("new state should have no notifications")
	}
}

func TestState_Session(t *testing.T) {
	s := NewState()
	sess := &models.Session{Token: "tok", Username: "admin"}
	s.SetSession(sess)

	sess.Username = "mutated"
	if s.Username() != "admin" {
		t.Errorf("Username = %q, want a copy of the session", s.Username())
	}

	s.SetSession(nil)
	if s.Session() != nil || s.Username() != "" {
		t.Error("SetSession(nil) should sign out")
	}
}

func TestState_BlockingError(t *testing.T) {
	s := NewState()
	s.SetBlockingError("Could not delete network", "Network is in use")
	s.SetBlockingError("Could not delete client", "Client not found")

	b := s.Blocking()
	if b == nil || b.Title != "Could not delete client" {
		t.Fatalf("Blocking = %+v, want the newest error", b)
	}

	s.DismissBlocking()
	if s.Blocking() != nil {
		t.Error("DismissBlocking should clear the dialog")
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "test", time.Minute)
	if id == "" {
		t.Error("AddNotification returned empty ID")
	}

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("GetNotifications len = %d, want 1", len(notifs))
	}
	if notifs[0].Message != "test" {
		t.Errorf("Notification message = %s, want test", notifs[0].Message)
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("Notification should be removed")
	}
}

func TestState_NotificationLimit(t *testing.T) {
	s := NewState()
	for i := range maxNotifications + 3 {
		s.AddNotification(NotificationInfo, fmt.Sprintf("n%d", i), time.Minute)
	}

	notifs := s.GetNotifications()
	if len(notifs) != maxNotifications {
		t.Fatalf("len = %d, want %d", len(notifs), maxNotifications)
	}
	if notifs[0].Message != "n3" {
		t.Errorf("oldest kept = %q, want n3", notifs[0].Message)
	}
}

func TestState_ClearExpiredNotifications(t *testing.T) {
	s := NewState()

	s.notifications = append(s.notifications,
		Notification{ID: "expired", CreatedAt: time.Now().Add(-2 * time.Minute), Duration: time.Minute},
		Notification{ID: "active", CreatedAt: time.Now(), Duration: time.Minute},
		Notification{ID: "sticky", CreatedAt: time.Now().Add(-time.Hour)},
	)

	s.ClearExpiredNotifications()

	notifs := s.GetNotifications()
	if len(notifs) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(notifs))
	}
	if notifs[0].ID != "active" || notifs[1].ID != "sticky" {
		t.Errorf("kept %s, %s", notifs[0].ID, notifs[1].ID)
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("loading...")
	s.SetLoadingNotification("still loading...")
	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != LoadingNotificationID || notifs[0].Message != "still loading..." {
		t.Errorf("got %+v", notifs[0])
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("loading notification should be removed")
	}
}

func TestState_ClearAllNotifications(t *testing.T) {
	s := NewState()
	s.AddNotification(NotificationError, "boom", 0)
	s.SetBlockingError("t", "m")

	s.ClearAllNotifications()
	if len(s.GetNotifications()) != 0 || s.Blocking() != nil {
		t.Error("ClearAllNotifications should clear toasts and the dialog")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		typ  NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationLoading, "loading"},
		{NotificationType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("NotificationType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
