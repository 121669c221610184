package app

import (
	"time"

	"github.com/j-veylop/aiconsole/internal/models"
	"github.com/j-veylop/aiconsole/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Message  string
	Type     NotificationType
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// BlockingErrorMsg reports a failed mutation. It is shown in a dialog that
// stays up until the user dismisses it.
type BlockingErrorMsg struct {
	Error   error
	Context string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// LoginResultMsg carries the outcome of a login attempt.
type LoginResultMsg struct {
	Error    error
	Username string
}

// RegisterResultMsg carries the outcome of a registration attempt.
type RegisterResultMsg struct {
	Error    error
	Username string
}

// AuthenticatedMsg is sent to every tab once a session is available.
type AuthenticatedMsg struct {
	Session models.Session
}

// LoggedOutMsg is sent to every tab and to the login view when the session
// ends. Reason is shown on the login view.
type LoggedOutMsg struct {
	Reason string
}

// UnauthenticatedMsg is returned by a view whose request was rejected by
// the backend.
type UnauthenticatedMsg struct{}

// LogoutMsg requests an explicit logout.
type LogoutMsg struct{}

// Resource names used by MutationResultMsg.
const (
	ResourceNetworks = "networks"
	ResourceClients  = "clients"
	ResourceAccess   = "access"
)

// MutationResultMsg is broadcast when a create, update, delete or other
// write finishes. Views showing Resource re-fetch on success; failures are
// shown by the shell in a blocking dialog.
type MutationResultMsg struct {
	Error    error
	Action   string
	Resource string
	ID       string
	Detail   string
}

// QuitMsg requests the application to quit.
type QuitMsg struct{}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// CopyToClipboardMsg requests copying text to clipboard.
type CopyToClipboardMsg struct {
	Text  string
	Label string
}

// ClipboardResultMsg contains the result of a clipboard operation.
type ClipboardResultMsg struct {
	Error error
	Label string
}
