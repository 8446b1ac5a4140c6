// Package notification provides the append-only user notification entity.
// Notifications are emitted inside the transaction of the request lifecycle
// event that triggers them: rolled back with it, durable with it.
package notification

import (
	"fmt"
	"time"
)

type Notification struct {
	id        uint
	userID    uint
	message   string
	seen      bool
	createdAt time.Time
}

func NewNotification(userID uint, message string) (*Notification, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}
	return &Notification{
		userID:    userID,
		message:   message,
		seen:      false,
		createdAt: time.Now(),
	}, nil
}

func ReconstructNotification(id, userID uint, message string, seen bool, createdAt time.Time) (*Notification, error) {
	if id == 0 {
		return nil, fmt.Errorf("notification ID cannot be zero")
	}
	return &Notification{
		id:        id,
		userID:    userID,
		message:   message,
		seen:      seen,
		createdAt: createdAt,
	}, nil
}

func (n *Notification) ID() uint {
	return n.id
}

func (n *Notification) UserID() uint {
	return n.userID
}

func (n *Notification) Message() string {
	return n.message
}

func (n *Notification) Seen() bool {
	return n.seen
}

func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

func (n *Notification) SetID(id uint) error {
	if n.id != 0 {
		return fmt.Errorf("notification ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("notification ID cannot be zero")
	}
	n.id = id
	return nil
}

func (n *Notification) MarkSeen() {
	n.seen = true
}
