package notification

import (
	"context"
	"errors"
)

// ErrNotFound indicates the notification was not found
var ErrNotFound = errors.New("notification not found")

type Repository interface {
	// Create appends a notification row. Joins the ambient transaction when
	// one is carried in ctx, so a rolled-back lifecycle event leaves no
	// orphan notification.
	Create(ctx context.Context, notif *Notification) error

	ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]*Notification, int64, error)
	CountUnseen(ctx context.Context, userID uint) (int64, error)

	// MarkSeen flips the seen flag for a notification owned by userID.
	MarkSeen(ctx context.Context, id, userID uint) error
}
