package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nexhr/nexhr-backend-go/internal/domain/notification"
)

const syncTimeout = 5 * time.Second

// Store is one manager session's notification collection, newest first.
//
// Local state is authoritative for read status: every transition applies
// in memory first, then a fire-and-forget task reconciles with the
// repository. A failed remote write is logged and never surfaced, so the
// session stays consistent through transient connectivity loss. This
// availability-over-consistency tradeoff applies to read state only, never
// to leave request transitions.
type Store struct {
	mu          sync.Mutex
	recipientID string
	repo        notification.Repository
	logger      *slog.Logger

	notifications []notification.Notification
	unread        int

	wg sync.WaitGroup
}

// NewStore creates an empty store for a manager. repo may be nil for a
// purely local store.
func NewStore(recipientID string, repo notification.Repository, logger *slog.Logger) *Store {
	return &Store{
		recipientID: recipientID,
		repo:        repo,
		logger:      logger,
	}
}

// Add normalizes defaults and inserts the notification as the newest entry.
// If an entry with the same id already exists the fields merge instead, and
// the read state reconciles in both directions: an unread copy of a read
// notification re-opens it, a read copy of an unread one clears it.
func (s *Store) Add(n notification.Notification) {
	n.ApplyDefaults(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID != n.ID {
			continue
		}
		existing := &s.notifications[i]
		if existing.Read && !n.Read {
			s.unread++
		} else if !existing.Read && n.Read {
			s.decUnread()
		}
		*existing = n
		return
	}

	s.notifications = append([]notification.Notification{n}, s.notifications...)
	if !n.Read {
		s.unread++
	}
}

// MarkRead transitions a single notification to read. The unread counter
// only moves by the delta actually applied: marking an already-read or
// unknown id changes nothing.
func (s *Store) MarkRead(id string) {
	s.mu.Lock()
	changed := false
	for i := range s.notifications {
		if s.notifications[i].ID == id && !s.notifications[i].Read {
			s.notifications[i].Read = true
			s.decUnread()
			changed = true
			break
		}
	}
	s.mu.Unlock()

	if changed {
		s.syncRead([]string{id}, false)
	}
}

// MarkAllRead transitions every notification to read and resets the unread
// counter to zero.
func (s *Store) MarkAllRead() {
	s.mu.Lock()
	changed := false
	for i := range s.notifications {
		if !s.notifications[i].Read {
			s.notifications[i].Read = true
			changed = true
		}
	}
	s.unread = 0
	s.mu.Unlock()

	if changed {
		s.syncRead(nil, true)
	}
}

// UnreadCount returns the number of unread notifications. It always equals
// a fresh recount of the collection.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

// Notifications returns a copy of the collection, newest first.
func (s *Store) Notifications() []notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notification.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// RecipientID returns the manager this store belongs to.
func (s *Store) RecipientID() string {
	return s.recipientID
}

func (s *Store) decUnread() {
	if s.unread > 0 {
		s.unread--
	}
}

// syncRead pushes a read-state transition to the repository without holding
// up the caller. Failures are logged, not returned: the local transition
// already happened and stands.
func (s *Store) syncRead(ids []string, all bool) {
	if s.repo == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		var err error
		if all {
			err = s.repo.MarkAllRead(ctx, s.recipientID)
		} else {
			err = s.repo.MarkRead(ctx, s.recipientID, ids)
		}
		if err != nil {
			s.logger.Warn("failed to sync notification read state",
				slog.String("recipient_id", s.recipientID),
				slog.Any("error", err),
			)
		}
	}()
}
