package notification

import (
	"context"
)

// Repository defines the notification persistence interface. Every record
// belongs to the recipient manager it was delivered to.
type Repository interface {
	Create(ctx context.Context, recipientID string, n *Notification) error
	GetByRecipient(ctx context.Context, recipientID string, page, limit int) ([]Notification, int64, error)
	GetUnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, recipientID string, ids []string) error
	MarkAllRead(ctx context.Context, recipientID string) error
}
