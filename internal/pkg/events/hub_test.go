package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexhr/nexhr-backend-go/internal/domain/notification"
)

func TestHubOpenAndCleanup(t *testing.T) {
	hub := NewHub(notification.SubstringMatcher{})

	s, cleanup := hub.Open(notification.Identity{ID: "mgr-1", Department: "IT"})
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 1, hub.SessionCount())

	cleanup()
	assert.Equal(t, 0, hub.SessionCount())

	// The channel is closed so a consuming range loop terminates.
	_, open := <-s.C
	assert.False(t, open)

	// Cleanup is safe to run twice.
	cleanup()
}

func TestHubBroadcast_RoutesByTarget(t *testing.T) {
	hub := NewHub(notification.SubstringMatcher{})

	it, itCleanup := hub.Open(notification.Identity{ID: "mgr-1", Name: "Sangeet Chowdhury", Department: "IT"})
	defer itCleanup()
	finance, finCleanup := hub.Open(notification.Identity{ID: "mgr-2", Name: "Priya", Department: "Finance"})
	defer finCleanup()

	target := &notification.Target{Departments: []string{"information technology"}}
	reached := hub.Broadcast(target, Event{Event: EventNotification, Data: "hello"})

	assert.Equal(t, 1, reached)

	select {
	case ev := <-it.C:
		assert.Equal(t, EventNotification, ev.Event)
	default:
		t.Error("IT session should have received the event")
	}

	select {
	case <-finance.C:
		t.Error("finance session should not have received the event")
	default:
	}
}

func TestHubBroadcast_EmptyTargetReachesEveryone(t *testing.T) {
	hub := NewHub(notification.SubstringMatcher{})

	for _, dep := range []string{"IT", "Finance", "Sales"} {
		_, cleanup := hub.Open(notification.Identity{Department: dep})
		defer cleanup()
	}

	reached := hub.Broadcast(nil, Event{Event: EventUnreadCount, Data: 3})
	assert.Equal(t, 3, reached)
}

func TestHubSend_DoesNotBlockOnFullChannel(t *testing.T) {
	hub := NewHub(notification.SubstringMatcher{})

	s, cleanup := hub.Open(notification.Identity{ID: "mgr-1"})
	defer cleanup()

	// Fill the buffer and keep publishing; a slow consumer must never stall
	// the publisher.
	for i := 0; i < cap(s.C)+10; i++ {
		hub.Send(s, Event{Event: EventNotification, Data: i})
	}

	assert.Len(t, s.C, cap(s.C))
}

func TestHubSend_IgnoresClosedSession(t *testing.T) {
	hub := NewHub(notification.SubstringMatcher{})

	s, cleanup := hub.Open(notification.Identity{ID: "mgr-1"})
	cleanup()

	// Sending after cleanup must not panic on the closed channel.
	hub.Send(s, Event{Event: EventNotification})
}
