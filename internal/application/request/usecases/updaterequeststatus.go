package usecases

import (
	"context"
	"errors"
	"fmt"

	"netreq/internal/domain/notification"
	"netreq/internal/domain/request"
	apperrors "netreq/internal/shared/errors"
	"netreq/internal/shared/logger"
)

// UpdateRequestStatusCommand represents an administrative status update.
type UpdateRequestStatusCommand struct {
	RequestID uint
	Status    string
}

// UpdateRequestStatusUseCase applies an administrative status label to a
// request. The update never touches the inventory ledger or allocations,
// whatever the old and new statuses are.
type UpdateRequestStatusUseCase struct {
	requestRepo      request.Repository
	notificationRepo notification.Repository
	tx               TransactionManager
	logger           logger.Interface
}

func NewUpdateRequestStatusUseCase(
	requestRepo request.Repository,
	notificationRepo notification.Repository,
	tx TransactionManager,
	logger logger.Interface,
) *UpdateRequestStatusUseCase {
	return &UpdateRequestStatusUseCase{
		requestRepo:      requestRepo,
		notificationRepo: notificationRepo,
		tx:               tx,
		logger:           logger,
	}
}

func (uc *UpdateRequestStatusUseCase) Execute(ctx context.Context, cmd UpdateRequestStatusCommand) error {
	uc.logger.Infow("executing update request status use case",
		"request_id", cmd.RequestID, "status", cmd.Status)

	status := request.Status(cmd.Status)
	if !status.IsValid() {
		return apperrors.NewValidationError("status is required")
	}

	err := uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		req, err := uc.requestRepo.GetByID(txCtx, cmd.RequestID)
		if err != nil {
			if errors.Is(err, request.ErrNotFound) {
				return apperrors.NewNotFoundError("request not found", fmt.Sprintf("%d", cmd.RequestID))
			}
			return fmt.Errorf("failed to load request: %w", err)
		}

		if err := req.SetStatus(status); err != nil {
			return apperrors.NewValidationError(err.Error())
		}

		if err := uc.requestRepo.UpdateStatus(txCtx, cmd.RequestID, status); err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}

		notif, err := notification.NewNotification(
			req.UserID(),
			fmt.Sprintf("Your network request #%d status has been updated to %s.", cmd.RequestID, status),
		)
		if err != nil {
			return fmt.Errorf("failed to build notification: %w", err)
		}
		if err := uc.notificationRepo.Create(txCtx, notif); err != nil {
			return fmt.Errorf("failed to save notification: %w", err)
		}

		return nil
	})
	if err != nil {
		uc.logger.Warnw("update request status aborted",
			"request_id", cmd.RequestID, "status", cmd.Status, "error", err)
		return err
	}

	uc.logger.Infow("request status updated", "request_id", cmd.RequestID, "status", cmd.Status)
	return nil
}
