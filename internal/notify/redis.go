package notify

import (
	"context"
	"encoding/json"

	"github.com/angelmondragon/rentpos-backend/pkg/logger"
	"github.com/angelmondragon/rentpos-backend/pkg/requestctx"
)

// Publisher is the subset of the redis client used to fan out toasts.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) error
	NotificationChannel(sessionID string) string
}

// RedisPublisher pushes notifications to the session's channel so other tabs
// of the same till can display them.
type RedisPublisher struct {
	pub  Publisher
	logg *logger.Logger
}

func NewRedisPublisher(pub Publisher, logg *logger.Logger) *RedisPublisher {
	return &RedisPublisher{pub: pub, logg: logg}
}

func (r *RedisPublisher) Notify(ctx context.Context, n Notification) {
	if r == nil || r.pub == nil {
		return
	}
	sessionID := requestctx.SessionID(ctx)
	if sessionID == "" {
		return
	}
	body, err := json.Marshal(n)
	if err != nil {
		r.logError(ctx, "encode notification", err)
		return
	}
	if err := r.pub.Publish(ctx, r.pub.NotificationChannel(sessionID), body); err != nil {
		r.logError(ctx, "publish notification", err)
	}
}

func (r *RedisPublisher) logError(ctx context.Context, msg string, err error) {
	if r.logg != nil {
		r.logg.Error(ctx, msg, err)
	}
}
