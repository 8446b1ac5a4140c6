// Package notification provides the user-facing notification service:
// listing, unread counting, and marking as seen. Emission happens inside the
// request use cases.
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"netreq/internal/domain/notification"
	apperrors "netreq/internal/shared/errors"
	"netreq/internal/shared/logger"
)

// NotificationDTO is the read model of a notification.
type NotificationDTO struct {
	ID        uint   `json:"id"`
	Message   string `json:"message"`
	Seen      bool   `json:"seen"`
	CreatedAt string `json:"created_at"`
}

// ListResult carries one page of notifications and the total count.
type ListResult struct {
	Notifications []*NotificationDTO
	Total         int64
}

type Service struct {
	repo   notification.Repository
	logger logger.Interface
}

func NewService(repo notification.Repository, logger logger.Interface) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, userID uint, limit, offset int) (*ListResult, error) {
	notifications, total, err := s.repo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Errorw("failed to list notifications", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	dtos := make([]*NotificationDTO, 0, len(notifications))
	for _, notif := range notifications {
		dtos = append(dtos, &NotificationDTO{
			ID:        notif.ID(),
			Message:   notif.Message(),
			Seen:      notif.Seen(),
			CreatedAt: notif.CreatedAt().Format(time.RFC3339),
		})
	}
	return &ListResult{Notifications: dtos, Total: total}, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	count, err := s.repo.CountUnseen(ctx, userID)
	if err != nil {
		s.logger.Errorw("failed to count unseen notifications", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to count unseen notifications: %w", err)
	}
	return count, nil
}

// MarkSeen flips the seen flag on a notification owned by userID. Marking an
// already-seen notification is a no-op.
func (s *Service) MarkSeen(ctx context.Context, id, userID uint) error {
	if err := s.repo.MarkSeen(ctx, id, userID); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			return apperrors.NewNotFoundError("notification not found", fmt.Sprintf("%d", id))
		}
		s.logger.Errorw("failed to mark notification seen", "notification_id", id, "error", err)
		return fmt.Errorf("failed to mark notification seen: %w", err)
	}
	return nil
}
