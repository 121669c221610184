package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/aiconsole/internal/api"
	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// clipboardWrite is swapped in tests.
var clipboardWrite = clipboard.WriteAll

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// LoginCmd signs in through the manager and reports a LoginResultMsg.
func LoginCmd(mgr *services.Manager, creds models.Credentials) tea.Cmd {
	return func() tea.Msg {
		resp, err := mgr.Login(context.Background(), creds)
		if err != nil {
			return LoginResultMsg{Error: err}
		}
		return LoginResultMsg{Username: resp.Username}
	}
}

// RegisterCmd creates an account without signing in and reports a RegisterResultMsg.
func RegisterCmd(mgr *services.Manager, creds models.Credentials) tea.Cmd {
	return func() tea.Msg {
		_, err := mgr.Client().Register(context.Background(), creds)
		return RegisterResultMsg{Username: creds.Username, Error: err}
	}
}

func logoutCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		if err := mgr.Logout(context.Background()); err != nil {
			return AddNotificationMsg{
				Type:     NotificationError,
				Message:  fmt.Sprintf("Logout failed: %v", err),
				Duration: LongNotificationDuration,
			}
		}
		return nil
	}
}

func copyToClipboardCmd(text, label string) tea.Cmd {
	return func() tea.Msg {
		return ClipboardResultMsg{Label: label, Error: clipboardWrite(text)}
	}
}

// notifyCmd returns a command that adds a notification.
func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: d}
	}
}

// NotifySuccess returns a command that adds a success notification.
func NotifySuccess(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// NotifyError returns a command that adds an error notification.
func NotifyError(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// NotifyWarning returns a command that adds a warning notification.
func NotifyWarning(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// NotifyInfo returns a command that adds an info notification.
func NotifyInfo(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// IsUnauthenticated reports whether err means the session is gone.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, api.ErrUnauthenticated)
}

// Unauthenticated returns a command telling the shell to show the login view.
func Unauthenticated() tea.Cmd {
	return func() tea.Msg { return UnauthenticatedMsg{} }
}

// CopyToClipboard returns a command that asks the shell to copy text.
func CopyToClipboard(text, label string) tea.Cmd {
	return func() tea.Msg {
		return CopyToClipboardMsg{Text: text, Label: label}
	}
}

// Mutate runs fn through the service manager, which journals it, and
// reports the outcome as a MutationResultMsg. fn may return a detail line
// for the success notification.
func Mutate(mgr *services.Manager, action, resource, id string, fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		var detail string
		err := mgr.Mutate(context.Background(), action, resource, id, func(ctx context.Context) error {
			var err error
			detail, err = fn(ctx)
			return err
		})
		return MutationResultMsg{
			Action:   action,
			Resource: resource,
			ID:       id,
			Detail:   detail,
			Error:    err,
		}
	}
}
