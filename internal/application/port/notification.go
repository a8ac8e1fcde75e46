package port

import "context"

// NotificationType indicates the visual style of a notification.
type NotificationType int

const (
	// NotificationInfo is for informational messages.
	NotificationInfo NotificationType = iota
	// NotificationSuccess is for success confirmations.
	NotificationSuccess
	// NotificationError is for error messages.
	NotificationError
	// NotificationWarning is for warning messages.
	NotificationWarning
)

// String returns a human-readable representation of the notification type.
func (t NotificationType) String() string {
	switch t {
	case NotificationInfo:
		return "info"
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	default:
		return "info"
	}
}

// NotificationID uniquely identifies a displayed notification.
type NotificationID string

// Notification represents the port interface for user-facing notices
// (per-file open failures, batch summaries, zoom level).
type Notification interface {
	// Show displays a notification with the given message and type.
	// Returns an ID that can be used to dismiss the notification.
	Show(ctx context.Context, message string, notifType NotificationType) NotificationID

	// ShowZoom displays the zoom level after a zoom change.
	ShowZoom(ctx context.Context, zoomPercent int) NotificationID

	// Dismiss removes a specific notification by ID.
	Dismiss(ctx context.Context, id NotificationID)
}

// NopNotification drops every notification.
type NopNotification struct{}

func (NopNotification) Show(context.Context, string, NotificationType) NotificationID { return "" }
func (NopNotification) ShowZoom(context.Context, int) NotificationID                  { return "" }
func (NopNotification) Dismiss(context.Context, NotificationID)                       {}
