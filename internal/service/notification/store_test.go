package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexhr/nexhr-backend-go/internal/domain/notification"
)

type fakeRepo struct {
	mu sync.Mutex

	created     []notification.Notification
	markedRead  [][]string
	markedAll   int
	createErr   error
	markReadErr error
	backlog     []notification.Notification
}

func (f *fakeRepo) Create(_ context.Context, _ string, n *notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeRepo) GetByRecipient(_ context.Context, _ string, page, limit int) ([]notification.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := int64(len(f.backlog))
	offset := (page - 1) * limit
	if offset >= len(f.backlog) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(f.backlog) {
		end = len(f.backlog)
	}
	return f.backlog[offset:end], total, nil
}

func (f *fakeRepo) GetUnreadCount(_ context.Context, _ string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, n := range f.backlog {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) MarkRead(_ context.Context, _ string, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markReadErr != nil {
		return f.markReadErr
	}
	f.markedRead = append(f.markedRead, ids)
	return nil
}

func (f *fakeRepo) MarkAllRead(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markReadErr != nil {
		return f.markReadErr
	}
	f.markedAll++
	return nil
}

// recount walks the collection so the counter invariant is checked against
// the ground truth, not against itself.
func recount(s *Store) int {
	count := 0
	for _, n := range s.Notifications() {
		if !n.Read {
			count++
		}
	}
	return count
}

func TestStoreAdd(t *testing.T) {
	s := NewStore("mgr-1", nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	s.Add(notification.Notification{ID: "n-1", Message: "first"})
	s.Add(notification.Notification{ID: "n-2", Message: "second"})

	list := s.Notifications()
	require.Len(t, list, 2)
	assert.Equal(t, "n-2", list[0].ID, "newest entry comes first")
	assert.Equal(t, 2, s.UnreadCount())
	assert.Equal(t, recount(s), s.UnreadCount())
}

func TestStoreAdd_AppliesDefaults(t *testing.T) {
	s := NewStore("mgr-1", nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	s.Add(notification.Notification{})

	list := s.Notifications()
	require.Len(t, list, 1)
	assert.NotEmpty(t, list[0].ID)
	assert.Equal(t, "Notification", list[0].Title)
	assert.False(t, list[0].CreatedAt.IsZero())
}

func TestStoreAdd_MergesByID(t *testing.T) {
	s := NewStore("mgr-1", nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	s.Add(notification.Notification{ID: "n-1", Message: "old"})
	require.Equal(t, 1, s.UnreadCount())

	// A read copy of an unread entry clears it.
	s.Add(notification.Notification{ID: "n-1", Message: "new", Read: true})
	list := s.Notifications()
	require.Len(t, list, 1)
	assert.Equal(t, "new", list[0].Message)
	assert.Equal(t, 0, s.UnreadCount())
	assert.Equal(t, recount(s), s.UnreadCount())

	// An unread copy of a read entry re-opens it.
	s.Add(notification.Notification{ID: "n-1", Message: "newer"})
	assert.Equal(t, 1, s.UnreadCount())
	assert.Equal(t, recount(s), s.UnreadCount())
}

func TestStoreMarkRead(t *testing.T) {
	repo := &fakeRepo{}
	s := NewStore("mgr-1", repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	s.Add(notification.Notification{ID: "n-1"})
	s.Add(notification.Notification{ID: "n-2"})

	s.MarkRead("n-1")
	assert.Equal(t, 1, s.UnreadCount())
	assert.Equal(t, recount(s), s.UnreadCount())

	// Marking again, or marking an unknown id, moves nothing.
	s.MarkRead("n-1")
	s.MarkRead("ghost")
	assert.Equal(t, 1, s.UnreadCount())

	s.wg.Wait()
	require.Len(t, repo.markedRead, 1, "only the applied transition syncs")
	assert.Equal(t, []string{"n-1"}, repo.markedRead[0])
}

func TestStoreMarkAllRead(t *testing.T) {
	repo := &fakeRepo{}
	s := NewStore("mgr-1", repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	for _, id := range []string{"n-1", "n-2", "n-3"} {
		s.Add(notification.Notification{ID: id})
	}

	s.MarkAllRead()
	assert.Equal(t, 0, s.UnreadCount())
	assert.Equal(t, 0, recount(s))

	// No-op when everything is already read.
	s.MarkAllRead()

	s.wg.Wait()
	assert.Equal(t, 1, repo.markedAll)
}

func TestStoreSyncFailureIsNotSurfaced(t *testing.T) {
	repo := &fakeRepo{markReadErr: errors.New("connection refused")}
	s := NewStore("mgr-1", repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	s.Add(notification.Notification{ID: "n-1"})
	s.MarkRead("n-1")
	s.wg.Wait()

	// The local transition stands even though the remote write failed.
	assert.Equal(t, 0, s.UnreadCount())
	list := s.Notifications()
	require.Len(t, list, 1)
	assert.True(t, list[0].Read)
}

func TestStoreNotificationsReturnsCopy(t *testing.T) {
	s := NewStore("mgr-1", nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Add(notification.Notification{ID: "n-1"})

	list := s.Notifications()
	list[0].Read = true

	assert.Equal(t, 1, s.UnreadCount(), "mutating the snapshot must not touch the store")
}
