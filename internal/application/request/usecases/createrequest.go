package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"netreq/internal/domain/location"
	"netreq/internal/domain/notification"
	"netreq/internal/domain/request"
	"netreq/internal/domain/resource"
	apperrors "netreq/internal/shared/errors"
	"netreq/internal/shared/logger"
)

// ResourceLine is one (resource, quantity) line of a create command. Lines
// are processed in the order given; the first unsatisfiable line aborts the
// whole request.
type ResourceLine struct {
	ResourceID uint
	Quantity   int
}

// CreateRequestCommand represents the input for creating a network request.
type CreateRequestCommand struct {
	UserID         uint
	LocationID     uint
	ConnectionType string
	Resources      []ResourceLine
}

// CreateRequestResult represents the output of creating a network request.
type CreateRequestResult struct {
	ID             uint   `json:"id"`
	LocationID     uint   `json:"location_id"`
	ConnectionType string `json:"connection_type"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
}

// CreateRequestUseCase handles request creation with its full resource
// footprint as a single all-or-nothing unit.
type CreateRequestUseCase struct {
	locationRepo     location.Repository
	resourceRepo     resource.Repository
	requestRepo      request.Repository
	notificationRepo notification.Repository
	tx               TransactionManager
	logger           logger.Interface
}

func NewCreateRequestUseCase(
	locationRepo location.Repository,
	resourceRepo resource.Repository,
	requestRepo request.Repository,
	notificationRepo notification.Repository,
	tx TransactionManager,
	logger logger.Interface,
) *CreateRequestUseCase {
	return &CreateRequestUseCase{
		locationRepo:     locationRepo,
		resourceRepo:     resourceRepo,
		requestRepo:      requestRepo,
		notificationRepo: notificationRepo,
		tx:               tx,
		logger:           logger,
	}
}

// Execute creates a new pending request, reserving every requested resource
// line inside one transaction. A failure on any line leaves zero ledger
// mutation and no request row.
func (uc *CreateRequestUseCase) Execute(ctx context.Context, cmd CreateRequestCommand) (*CreateRequestResult, error) {
	uc.logger.Infow("executing create request use case",
		"user_id", cmd.UserID, "location_id", cmd.LocationID, "lines", len(cmd.Resources))

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Warnw("invalid create request command", "error", err)
		return nil, err
	}

	loc, err := uc.locationRepo.GetByID(ctx, cmd.LocationID)
	if err != nil {
		if errors.Is(err, location.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("location not found", fmt.Sprintf("%d", cmd.LocationID))
		}
		uc.logger.Errorw("failed to load location", "location_id", cmd.LocationID, "error", err)
		return nil, fmt.Errorf("failed to load location: %w", err)
	}
	if !loc.IsNetworkAvailable() {
		return nil, apperrors.NewValidationError("network is not available at the requested location")
	}

	allocations := make([]*request.Allocation, 0, len(cmd.Resources))
	for _, line := range cmd.Resources {
		alloc, err := request.NewAllocation(line.ResourceID, line.Quantity)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		allocations = append(allocations, alloc)
	}

	req, err := request.NewRequest(cmd.UserID, cmd.LocationID, cmd.ConnectionType, allocations)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.requestRepo.Create(txCtx, req); err != nil {
			return fmt.Errorf("failed to save request: %w", err)
		}

		// Reserve in caller-supplied order; the first failing line aborts
		// the whole scope and rolls back every prior reservation.
		for _, line := range cmd.Resources {
			res, err := uc.resourceRepo.GetByID(txCtx, line.ResourceID)
			if err != nil {
				if errors.Is(err, resource.ErrNotFound) {
					return apperrors.NewNotFoundError("resource not found", fmt.Sprintf("%d", line.ResourceID))
				}
				return fmt.Errorf("failed to load resource: %w", err)
			}

			if err := uc.resourceRepo.Reserve(txCtx, line.ResourceID, line.Quantity); err != nil {
				if errors.Is(err, resource.ErrInsufficientQuantity) {
					return apperrors.NewInsufficientQuantityError(
						fmt.Sprintf("insufficient quantity of %s available", res.Name()),
					)
				}
				if errors.Is(err, resource.ErrNotFound) {
					return apperrors.NewNotFoundError("resource not found", fmt.Sprintf("%d", line.ResourceID))
				}
				return fmt.Errorf("failed to reserve resource: %w", err)
			}
		}

		notif, err := notification.NewNotification(
			cmd.UserID,
			fmt.Sprintf("Your network request #%d has been submitted and is pending review.", req.ID()),
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
		uc.logger.Warnw("create request transaction aborted",
			"user_id", cmd.UserID, "location_id", cmd.LocationID, "error", err)
		return nil, err
	}

	uc.logger.Infow("request created", "request_id", req.ID(), "user_id", cmd.UserID)

	return &CreateRequestResult{
		ID:             req.ID(),
		LocationID:     req.LocationID(),
		ConnectionType: req.ConnectionType(),
		Status:         req.Status().String(),
		CreatedAt:      req.CreatedAt().Format(time.RFC3339),
	}, nil
}

func (uc *CreateRequestUseCase) validateCommand(cmd CreateRequestCommand) error {
	if cmd.UserID == 0 {
		return apperrors.NewUnauthorizedError("user is not authenticated")
	}
	if cmd.LocationID == 0 {
		return apperrors.NewValidationError("location_id is required")
	}
	if cmd.ConnectionType == "" {
		return apperrors.NewValidationError("connection_type is required")
	}
	for _, line := range cmd.Resources {
		if line.ResourceID == 0 {
			return apperrors.NewValidationError("resource_id is required for every resource line")
		}
		if line.Quantity < 1 {
			return apperrors.NewValidationError("resource quantity must be at least 1")
		}
	}
	return nil
}
