package notification

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/nexhr/nexhr-backend-go/internal/domain/notification"
	"github.com/nexhr/nexhr-backend-go/internal/pkg/events"
	"github.com/nexhr/nexhr-backend-go/internal/pkg/mailbox"
)

// Service routes notifications to manager sessions. Delivery is direct into
// the store of every live matching session; with no matching session live,
// the notification parks in the mailbox until one opens.
type Service struct {
	repo    notification.Repository
	hub     *events.Hub
	box     *mailbox.Mailbox
	matcher notification.Matcher
	logger  *slog.Logger

	mu     sync.RWMutex
	stores map[string]*Store // session id -> store
}

func NewService(repo notification.Repository, hub *events.Hub, box *mailbox.Mailbox, matcher notification.Matcher, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		hub:     hub,
		box:     box,
		matcher: matcher,
		logger:  logger,
		stores:  make(map[string]*Store),
	}
}

// Dispatch delivers a notification to every live matching manager session,
// or parks it in the mailbox when none is live. Persistence per recipient is
// best-effort: a failed insert is logged, delivery still happens.
func (s *Service) Dispatch(ctx context.Context, n notification.Notification) error {
	n.ApplyDefaults(time.Now())

	sessions := s.hub.Matching(n.Target)
	if len(sessions) == 0 {
		return s.box.Enqueue(ctx, n)
	}

	persisted := make(map[string]bool)
	for _, sess := range sessions {
		store := s.storeFor(sess.ID)
		if store == nil {
			continue
		}
		store.Add(n)
		s.hub.Send(sess, events.Event{Event: events.EventNotification, Data: n.ToResponse()})
		s.hub.Send(sess, events.Event{Event: events.EventUnreadCount, Data: store.UnreadCount()})

		// Two tabs of the same manager share one persisted record.
		if recipient := sess.Identity.ID; recipient != "" && !persisted[recipient] {
			persisted[recipient] = true
			if err := s.repo.Create(ctx, recipient, &n); err != nil {
				s.logger.Warn("failed to persist delivered notification",
					slog.String("recipient_id", recipient),
					slog.Any("error", err),
				)
			}
		}
	}
	return nil
}

// OpenSession registers a live session for a manager identity, creates its
// store, and drains the mailbox into it before returning, so queued
// notifications are in place before the session handles anything else.
// Flushed entries go into the store only: the SSE handler renders the store
// as backlog when the stream starts, so pushing them onto the session
// channel as well would deliver them twice.
// The returned cleanup must run when the connection ends.
func (s *Service) OpenSession(ctx context.Context, identity notification.Identity) (*events.Session, *Store, func()) {
	sess, closeSession := s.hub.Open(identity)
	store := NewStore(identity.ID, s.repo, s.logger)

	s.mu.Lock()
	s.stores[sess.ID] = store
	s.mu.Unlock()

	_, err := s.box.Flush(ctx, identity, func(n notification.Notification) {
		n.ApplyDefaults(time.Now())
		store.Add(n)
		if recipient := identity.ID; recipient != "" {
			if err := s.repo.Create(ctx, recipient, &n); err != nil {
				s.logger.Warn("failed to persist flushed notification",
					slog.String("recipient_id", recipient),
					slog.Any("error", err),
				)
			}
		}
	})
	if err != nil {
		s.logger.Warn("mailbox flush failed", slog.Any("error", err))
	}

	cleanup := func() {
		s.mu.Lock()
		delete(s.stores, sess.ID)
		s.mu.Unlock()
		closeSession()
	}
	return sess, store, cleanup
}

// MarkRead applies the read transition to every open store of the manager
// (each store syncs remotely itself); with no session open it writes
// straight to the repository.
func (s *Service) MarkRead(ctx context.Context, recipientID string, ids []string) error {
	if stores := s.storesByRecipient(recipientID); len(stores) > 0 {
		for _, store := range stores {
			for _, id := range ids {
				store.MarkRead(id)
			}
		}
		return nil
	}
	return s.repo.MarkRead(ctx, recipientID, ids)
}

// MarkAllRead is MarkRead over the whole collection.
func (s *Service) MarkAllRead(ctx context.Context, recipientID string) error {
	if stores := s.storesByRecipient(recipientID); len(stores) > 0 {
		for _, store := range stores {
			store.MarkAllRead()
		}
		return nil
	}
	return s.repo.MarkAllRead(ctx, recipientID)
}

// List returns the manager's persisted notifications, paginated.
func (s *Service) List(ctx context.Context, recipientID string, page, limit int) (notification.ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, total, err := s.repo.GetByRecipient(ctx, recipientID, page, limit)
	if err != nil {
		return notification.ListResponse{}, err
	}

	unread, err := s.repo.GetUnreadCount(ctx, recipientID)
	if err != nil {
		return notification.ListResponse{}, err
	}

	responses := make([]notification.NotificationResponse, len(items))
	for i, n := range items {
		responses[i] = n.ToResponse()
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	if totalPages < 1 {
		totalPages = 1
	}

	return notification.ListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		Limit:         limit,
		TotalPages:    totalPages,
	}, nil
}

// UnreadCount returns the persisted unread count for a manager.
func (s *Service) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, recipientID)
}

func (s *Service) storeFor(sessionID string) *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores[sessionID]
}

func (s *Service) storesByRecipient(recipientID string) []*Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Store
	for _, store := range s.stores {
		if store.RecipientID() == recipientID {
			out = append(out, store)
		}
	}
	return out
}
