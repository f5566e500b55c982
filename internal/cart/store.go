package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/rentpos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
	"github.com/angelmondragon/rentpos-backend/pkg/redis"
)

// Store persists drafts per session and kind. Load returns a CodeNotFound
// error when nothing is stored.
type Store interface {
	Load(ctx context.Context, session string, kind enums.DraftKind) (*Draft, error)
	Save(ctx context.Context, d *Draft) error
	Delete(ctx context.Context, session string, kind enums.DraftKind) error
}

type kv interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	DraftKey(sessionID, kind string) string
}

// RedisStore keeps drafts as JSON blobs that expire after ttl of inactivity.
type RedisStore struct {
	client kv
	ttl    time.Duration
}

// NewRedisStore builds a draft store over the redis client.
func NewRedisStore(client kv, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Load(ctx context.Context, session string, kind enums.DraftKind) (*Draft, error) {
	raw, err := s.client.Get(ctx, s.client.DraftKey(session, kind.String()))
	if err != nil {
		if redis.IsMiss(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load draft")
	}
	var d Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode draft")
	}
	return &d, nil
}

func (s *RedisStore) Save(ctx context.Context, d *Draft) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode draft")
	}
	if err := s.client.Set(ctx, s.client.DraftKey(d.Session, d.Kind.String()), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save draft")
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, session string, kind enums.DraftKind) error {
	if err := s.client.Del(ctx, s.client.DraftKey(session, kind.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete draft")
	}
	return nil
}
