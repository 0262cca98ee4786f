package events

import (
	"sync"

	"github.com/google/uuid"

	"github.com/nexhr/nexhr-backend-go/internal/domain/notification"
)

// Event names carried over a session channel.
const (
	EventNotification = "notification"
	EventUnreadCount  = "unread_count"
)

// Event is a single in-process pub/sub message for a manager session.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Session is one live manager connection. Events arrive on C until the
// session's cleanup function runs.
type Session struct {
	ID       string
	Identity notification.Identity
	C        chan Event
}

// Hub tracks live manager sessions and routes events to the subset whose
// identity matches a notification target.
type Hub struct {
	mu       sync.RWMutex
	matcher  notification.Matcher
	sessions map[string]*Session
}

// NewHub creates a hub routing with the given matcher strategy.
func NewHub(matcher notification.Matcher) *Hub {
	return &Hub{
		matcher:  matcher,
		sessions: make(map[string]*Session),
	}
}

// Open registers a session for a manager identity and returns it with its
// cleanup function. The caller must run cleanup when the connection ends.
func (h *Hub) Open(identity notification.Identity) (*Session, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := &Session{
		ID:       uuid.New().String(),
		Identity: identity,
		C:        make(chan Event, 16),
	}
	h.sessions[s.ID] = s

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.sessions[s.ID]; !ok {
			return
		}
		delete(h.sessions, s.ID)
		close(s.C)
	}

	return s, cleanup
}

// Matching returns the live sessions whose identity satisfies the target.
func (h *Hub) Matching(target *notification.Target) []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []*Session
	for _, s := range h.sessions {
		if target.Matches(s.Identity, h.matcher) {
			out = append(out, s)
		}
	}
	return out
}

// Send delivers an event to one session without blocking; a full channel
// drops the event rather than stalling the publisher.
func (h *Hub) Send(s *Session, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.sessions[s.ID]; !ok {
		return
	}
	select {
	case s.C <- event:
	default:
	}
}

// Broadcast sends an event to every session matching the target and reports
// how many sessions it reached.
func (h *Hub) Broadcast(target *notification.Target, event Event) int {
	sessions := h.Matching(target)
	for _, s := range sessions {
		h.Send(s, event)
	}
	return len(sessions)
}

// SessionCount returns the number of live sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
