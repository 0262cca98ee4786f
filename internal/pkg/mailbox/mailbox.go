// Package mailbox is the durable holding area for notifications produced
// while no matching manager session is live. Entries wait in Redis until the
// first flush by any manager session drains them.
//
// Queue policy (deliberate, not incidental): a flush removes every queued
// entry, matching or not. Delivery is at-least-once to the first matching
// consumer; entries targeted at a manager who never opens a session are
// dropped on someone else's first flush instead of accumulating forever.
package mailbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nexhr/nexhr-backend-go/internal/domain/notification"
)

// Redis keys. The slot key is the legacy single-entry format older clients
// still write; the list key holds the ordered queue. Both are drained, slot
// first, list in enqueue order.
const (
	SlotKey = "notifications:pending"
	ListKey = "notifications:pending:list"
)

// Envelope is the persisted form of a queued notification.
type Envelope struct {
	Notification notification.Notification `json:"notification"`
	EnqueuedAt   time.Time                 `json:"enqueued_at"`
}

type Mailbox struct {
	rdb     *redis.Client
	matcher notification.Matcher
	logger  *slog.Logger
}

func New(rdb *redis.Client, matcher notification.Matcher, logger *slog.Logger) *Mailbox {
	return &Mailbox{rdb: rdb, matcher: matcher, logger: logger}
}

// Enqueue appends a notification to the persisted queue.
func (m *Mailbox) Enqueue(ctx context.Context, n notification.Notification) error {
	payload, err := json.Marshal(Envelope{Notification: n, EnqueuedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("marshal queued notification: %w", err)
	}

	if err := m.rdb.RPush(ctx, ListKey, payload).Err(); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

// Flush atomically reads and clears the queue, then delivers every entry
// whose target matches the identity. The read-and-clear runs in one Redis
// transaction, so a second concurrent flush sees an empty queue: when two
// managers open sessions simultaneously the first flush wins.
//
// It returns how many entries were delivered.
func (m *Mailbox) Flush(ctx context.Context, identity notification.Identity, deliver func(notification.Notification)) (int, error) {
	pipe := m.rdb.TxPipeline()
	slotCmd := pipe.GetDel(ctx, SlotKey)
	listCmd := pipe.LRange(ctx, ListKey, 0, -1)
	pipe.Del(ctx, ListKey)

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("drain pending notifications: %w", err)
	}

	// Legacy slot entry is processed before the list.
	var raws []string
	if raw, err := slotCmd.Result(); err == nil && raw != "" {
		raws = append(raws, raw)
	}
	if items, err := listCmd.Result(); err == nil {
		raws = append(raws, items...)
	}

	delivered := 0
	for _, raw := range raws {
		env, ok := m.decode(raw)
		if !ok {
			continue
		}
		if env.Notification.Target.Matches(identity, m.matcher) {
			deliver(env.Notification)
			delivered++
		}
	}
	return delivered, nil
}

// decode parses a queued entry, falling back to a bare notification for
// slot entries written before the envelope format existed.
func (m *Mailbox) decode(raw string) (Envelope, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		m.logger.Warn("dropping malformed queued notification", slog.String("raw", raw))
		return Envelope{}, false
	}

	if _, ok := fields["notification"]; ok {
		var env Envelope
		if err := json.Unmarshal([]byte(raw), &env); err != nil {
			m.logger.Warn("dropping malformed queued notification", slog.String("raw", raw))
			return Envelope{}, false
		}
		return env, true
	}

	var n notification.Notification
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		m.logger.Warn("dropping malformed queued notification", slog.String("raw", raw))
		return Envelope{}, false
	}
	return Envelope{Notification: n}, true
}
