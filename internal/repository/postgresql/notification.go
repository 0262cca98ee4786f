package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nexhr/nexhr-backend-go/internal/domain/notification"
	"github.com/nexhr/nexhr-backend-go/internal/pkg/database"
)

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

// Create persists a delivered notification for a recipient
func (r *notificationRepository) Create(ctx context.Context, recipientID string, n *notification.Notification) error {
	q := GetQuerier(ctx, r.db)

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	dataJSON, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal notification data: %w", err)
	}
	targetJSON, err := json.Marshal(n.Target)
	if err != nil {
		return fmt.Errorf("failed to marshal notification target: %w", err)
	}

	query := `
		INSERT INTO notifications (id, recipient_id, type, title, message, data, target, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id, recipient_id) DO NOTHING
	`

	_, err = q.Exec(ctx, query,
		n.ID,
		recipientID,
		string(n.Type),
		n.Title,
		n.Message,
		dataJSON,
		targetJSON,
		n.Read,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// GetByRecipient retrieves a recipient's notifications, newest first
func (r *notificationRepository) GetByRecipient(ctx context.Context, recipientID string, page, limit int) ([]notification.Notification, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	countQuery := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1`
	if err := q.QueryRow(ctx, countQuery, recipientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := `
		SELECT id, type, title, message, data, target, read, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := q.Query(ctx, query, recipientID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []notification.Notification
	for rows.Next() {
		var n notification.Notification
		var notifType string
		var dataJSON, targetJSON []byte

		if err := rows.Scan(&n.ID, &notifType, &n.Title, &n.Message, &dataJSON, &targetJSON, &n.Read, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Type = notification.Type(notifType)

		if len(dataJSON) > 0 {
			if err := json.Unmarshal(dataJSON, &n.Data); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal notification data: %w", err)
			}
		}
		if len(targetJSON) > 0 && string(targetJSON) != "null" {
			n.Target = &notification.Target{}
			if err := json.Unmarshal(targetJSON, n.Target); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal notification target: %w", err)
			}
		}

		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read notifications: %w", err)
	}

	return notifications, total, nil
}

// GetUnreadCount returns the number of unread notifications for a recipient
func (r *notificationRepository) GetUnreadCount(ctx context.Context, recipientID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND read = false`
	if err := q.QueryRow(ctx, query, recipientID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead marks the given notifications as read
func (r *notificationRepository) MarkRead(ctx context.Context, recipientID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `UPDATE notifications SET read = true WHERE recipient_id = $1 AND id = ANY($2)`
	if _, err := q.Exec(ctx, query, recipientID, ids); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return nil
}

// MarkAllRead marks every notification of a recipient as read
func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE notifications SET read = true WHERE recipient_id = $1 AND read = false`
	if _, err := q.Exec(ctx, query, recipientID); err != nil {
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}

	return nil
}
