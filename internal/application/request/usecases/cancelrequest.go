package usecases

import (
	"context"
	"errors"
	"fmt"

	"netreq/internal/domain/notification"
	"netreq/internal/domain/request"
	"netreq/internal/domain/resource"
	"netreq/internal/shared/authorization"
	apperrors "netreq/internal/shared/errors"
	"netreq/internal/shared/logger"
)

// CancelRequestCommand represents the input for cancelling a request.
type CancelRequestCommand struct {
	RequestID uint
	Actor     authorization.Actor
}

// CancelRequestUseCase releases a pending request's reservations and marks
// it cancelled, all inside one transaction.
type CancelRequestUseCase struct {
	resourceRepo     resource.Repository
	requestRepo      request.Repository
	notificationRepo notification.Repository
	tx               TransactionManager
	logger           logger.Interface
}

func NewCancelRequestUseCase(
	resourceRepo resource.Repository,
	requestRepo request.Repository,
	notificationRepo notification.Repository,
	tx TransactionManager,
	logger logger.Interface,
) *CancelRequestUseCase {
	return &CancelRequestUseCase{
		resourceRepo:     resourceRepo,
		requestRepo:      requestRepo,
		notificationRepo: notificationRepo,
		tx:               tx,
		logger:           logger,
	}
}

// Execute cancels a pending request. A failed cancel leaves the request
// status and every allocation unchanged.
func (uc *CancelRequestUseCase) Execute(ctx context.Context, cmd CancelRequestCommand) error {
	uc.logger.Infow("executing cancel request use case",
		"request_id", cmd.RequestID, "actor_id", cmd.Actor.UserID)

	err := uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		req, err := uc.requestRepo.GetByID(txCtx, cmd.RequestID)
		if err != nil {
			if errors.Is(err, request.ErrNotFound) {
				return apperrors.NewNotFoundError("request not found", fmt.Sprintf("%d", cmd.RequestID))
			}
			return fmt.Errorf("failed to load request: %w", err)
		}

		if !cmd.Actor.CanAccessOwnedResource(req.UserID()) {
			return apperrors.NewForbiddenError("you are not authorized to cancel this request")
		}

		// Capture the footprint before the transition clears it.
		allocations := req.Allocations()

		if err := req.Cancel(); err != nil {
			return apperrors.NewInvalidTransitionError(
				fmt.Sprintf("cannot cancel request with status %s; only pending requests can be cancelled", req.Status()),
			)
		}

		for _, alloc := range allocations {
			if err := uc.resourceRepo.Release(txCtx, alloc.ResourceID(), alloc.QuantityUsed()); err != nil {
				return fmt.Errorf("failed to release resource %d: %w", alloc.ResourceID(), err)
			}
		}

		if err := uc.requestRepo.MarkCancelled(txCtx, cmd.RequestID); err != nil {
			// The snapshot read above can race a concurrent status change;
			// the conditional update is the authoritative check.
			if errors.Is(err, request.ErrNotPending) {
				return apperrors.NewInvalidTransitionError(
					"request is no longer pending and cannot be cancelled",
				)
			}
			if errors.Is(err, request.ErrNotFound) {
				return apperrors.NewNotFoundError("request not found", fmt.Sprintf("%d", cmd.RequestID))
			}
			return fmt.Errorf("failed to mark request cancelled: %w", err)
		}

		notif, err := notification.NewNotification(
			req.UserID(),
			fmt.Sprintf("Your network request #%d has been cancelled.", cmd.RequestID),
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
		uc.logger.Warnw("cancel request aborted", "request_id", cmd.RequestID, "error", err)
		return err
	}

	uc.logger.Infow("request cancelled", "request_id", cmd.RequestID)
	return nil
}
