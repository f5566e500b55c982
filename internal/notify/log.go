package notify

import (
	"context"

	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	"github.com/angelmondragon/rentpos-backend/pkg/logger"
)

// LogNotifier writes every notification to the structured log.
type LogNotifier struct {
	logg *logger.Logger
}

func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{logg: logg}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) {
	if l == nil || l.logg == nil {
		return
	}
	ctx = l.logg.WithFields(ctx, map[string]any{
		"notification_severity": n.Severity.String(),
		"notification_title":    n.Title,
		"notification_message":  n.Message,
	})
	switch n.Severity {
	case enums.NotificationSeverityWarning, enums.NotificationSeverityError:
		l.logg.Warn(ctx, "user notification raised")
	default:
		l.logg.Info(ctx, "user notification raised")
	}
}
