// Package notify delivers transient user-facing notifications.
package notify

import (
	"context"
	"time"

	"github.com/angelmondragon/rentpos-backend/pkg/enums"
)

// Notification is a toast shown to the cashier. AutoDismissMs of zero means
// the notification stays until acknowledged.
type Notification struct {
	Severity      enums.NotificationSeverity `json:"severity"`
	Title         string                     `json:"title"`
	Message       string                     `json:"message"`
	AutoDismissMs int64                      `json:"auto_dismiss_ms"`
}

// Notifier is fire-and-forget: implementations must not block the caller on
// delivery failures.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) {
	f(ctx, n)
}

// Nop drops every notification.
var Nop Notifier = NotifierFunc(func(context.Context, Notification) {})

// Multi fans a notification out to every non-nil notifier in order.
func Multi(notifiers ...Notifier) Notifier {
	active := make([]Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	return NotifierFunc(func(ctx context.Context, n Notification) {
		for _, target := range active {
			target.Notify(ctx, n)
		}
	})
}

func Warning(title, message string, dismiss time.Duration) Notification {
	return Notification{Severity: enums.NotificationSeverityWarning, Title: title, Message: message, AutoDismissMs: dismiss.Milliseconds()}
}

func Success(title, message string, dismiss time.Duration) Notification {
	return Notification{Severity: enums.NotificationSeveritySuccess, Title: title, Message: message, AutoDismissMs: dismiss.Milliseconds()}
}

// Error builds a blocking error notification.
func Error(title, message string) Notification {
	return Notification{Severity: enums.NotificationSeverityError, Title: title, Message: message}
}
