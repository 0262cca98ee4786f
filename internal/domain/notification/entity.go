package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type represents the type of notification
type Type string

const (
	TypeLeaveSubmitted Type = "leave_submitted"
	TypeLeaveCancelled Type = "leave_cancelled"
	TypeTaskCompleted  Type = "task_completed"
	TypeTaskReview     Type = "task_review"
)

const (
	defaultTitle   = "Notification"
	defaultMessage = "You have a new notification"
)

// Notification represents a notification entity. Target controls which
// manager sessions it is routed to; Data is an opaque payload passed through
// unchanged (e.g. the leave request id).
type Notification struct {
	ID        string                 `json:"id"`
	Type      Type                   `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Read      bool                   `json:"read"`
	CreatedAt time.Time              `json:"created_at"`
	Target    *Target                `json:"target,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// ApplyDefaults fills in generated/defaulted fields on a freshly created
// notification: id, title, message and creation time.
func (n *Notification) ApplyDefaults(now time.Time) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Title == "" {
		n.Title = defaultTitle
	}
	if n.Message == "" {
		n.Message = defaultMessage
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
}

// NewLeaveSubmitted builds the notification emitted when an employee
// submits a leave request.
func NewLeaveSubmitted(employeeName, leaveType string, totalDays int, requestID string, target Target) Notification {
	return Notification{
		Type:    TypeLeaveSubmitted,
		Title:   "New Leave Request",
		Message: employeeName + " submitted a " + leaveType + " leave request",
		Target:  &target,
		Data: map[string]interface{}{
			"request_id": requestID,
			"leave_type": leaveType,
			"total_days": totalDays,
		},
	}
}

// NewLeaveCancelled builds the notification emitted when an employee
// cancels a pending leave request.
func NewLeaveCancelled(employeeName, leaveType string, requestID string, target Target) Notification {
	return Notification{
		Type:    TypeLeaveCancelled,
		Title:   "Leave Request Cancelled",
		Message: employeeName + " cancelled their " + leaveType + " leave request",
		Target:  &target,
		Data: map[string]interface{}{
			"request_id": requestID,
			"leave_type": leaveType,
		},
	}
}
