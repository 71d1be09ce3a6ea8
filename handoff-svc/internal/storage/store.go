package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"pizzeria-storefront/handoff-svc/internal/domain"
)

type Store struct {
	db        *sql.DB
	rdb       *redis.Client
	inboxSize int64
}

func NewStore(db *sql.DB, rdb *redis.Client, inboxSize int64) *Store {
	if inboxSize <= 0 {
		inboxSize = 100
	}
	return &Store{
		db:        db,
		rdb:       rdb,
		inboxSize: inboxSize,
	}
}

func InboxKey(destination string) string {
	return "handoff:inbox:" + destination
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS order_handoffs (
			order_id UUID PRIMARY KEY,
			short_code TEXT NOT NULL,
			destination TEXT NOT NULL,
			total_amount NUMERIC(10,2) NOT NULL,
			link TEXT NOT NULL,
			received_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

// RecordHandoff logs the dispatch once per order. It reports false when the
// order was already recorded by an earlier delivery.
func (s *Store) RecordHandoff(ctx context.Context, msg domain.HandoffMessage) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO order_handoffs (order_id, short_code, destination, total_amount, link)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (order_id) DO NOTHING`,
		msg.OrderID, msg.ShortCode, msg.Destination, msg.Total, msg.Link)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// seenTTL outlives any realistic broker redelivery window.
const seenTTL = 7 * 24 * time.Hour

// appendOnce pushes ARGV[1] onto the inbox KEYS[2] and trims it to ARGV[2]
// entries, unless the marker KEYS[1] shows the order was already delivered.
var appendOnce = redis.NewScript(`
if not redis.call("SET", KEYS[1], "1", "NX", "EX", ARGV[3]) then
	return 0
end
redis.call("RPUSH", KEYS[2], ARGV[1])
redis.call("LTRIM", KEYS[2], -tonumber(ARGV[2]), -1)
return 1
`)

func SeenKey(orderID string) string {
	return "handoff:seen:" + orderID
}

// AppendInbox pushes msg onto the destination inbox, keeping only the most
// recent inboxSize entries. It reports false when the order is already in
// the inbox. The marker and the push are applied atomically.
func (s *Store) AppendInbox(ctx context.Context, msg domain.HandoffMessage) (bool, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return false, err
	}
	keys := []string{SeenKey(msg.OrderID), InboxKey(msg.Destination)}
	appended, err := appendOnce.Run(ctx, s.rdb, keys, payload, s.inboxSize, int64(seenTTL/time.Second)).Int()
	if err != nil {
		return false, err
	}
	return appended == 1, nil
}

// Inbox returns up to limit messages for destination, newest first.
func (s *Store) Inbox(ctx context.Context, destination string, limit int64) ([]domain.HandoffMessage, error) {
	if limit <= 0 || limit > s.inboxSize {
		limit = s.inboxSize
	}
	raw, err := s.rdb.LRange(ctx, InboxKey(destination), -limit, -1).Result()
	if err != nil {
		return nil, err
	}

	messages := make([]domain.HandoffMessage, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var msg domain.HandoffMessage
		if err := json.Unmarshal([]byte(raw[i]), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
