package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"pizzeria-storefront/storefront-svc/internal/domain"
)

// RedisCartMirror keeps a copy of each session cart so a restarted process
// can restore it. The in-memory cart stays authoritative.
type RedisCartMirror struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCartMirror(rdb *redis.Client, ttl time.Duration) *RedisCartMirror {
	return &RedisCartMirror{rdb: rdb, ttl: ttl}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func (m *RedisCartMirror) Save(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	if len(lines) == 0 {
		return m.Delete(ctx, sessionID)
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return m.rdb.Set(ctx, cartKey(sessionID), payload, m.ttl).Err()
}

// Load returns nil lines and no error when nothing is mirrored for sessionID.
func (m *RedisCartMirror) Load(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	payload, err := m.rdb.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(payload, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (m *RedisCartMirror) Delete(ctx context.Context, sessionID string) error {
	return m.rdb.Del(ctx, cartKey(sessionID)).Err()
}
