package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"netreq/internal/domain/request"
	"netreq/internal/shared/authorization"
	apperrors "netreq/internal/shared/errors"
	"netreq/internal/shared/logger"
)

// AllocationDTO is one resource line of a request as returned to callers.
type AllocationDTO struct {
	ResourceID   uint   `json:"resource_id"`
	ResourceName string `json:"resource_name"`
	QuantityUsed int    `json:"quantity_used"`
}

// RequestDTO is the full read model of a network request.
type RequestDTO struct {
	ID             uint            `json:"id"`
	UserID         uint            `json:"user_id"`
	LocationID     uint            `json:"location_id"`
	ConnectionType string          `json:"connection_type"`
	Status         string          `json:"status"`
	Resources      []AllocationDTO `json:"resources"`
	CreatedAt      string          `json:"created_at"`
}

func toRequestDTO(req *request.Request) *RequestDTO {
	allocations := make([]AllocationDTO, 0, len(req.Allocations()))
	for _, alloc := range req.Allocations() {
		allocations = append(allocations, AllocationDTO{
			ResourceID:   alloc.ResourceID(),
			ResourceName: alloc.ResourceName(),
			QuantityUsed: alloc.QuantityUsed(),
		})
	}
	return &RequestDTO{
		ID:             req.ID(),
		UserID:         req.UserID(),
		LocationID:     req.LocationID(),
		ConnectionType: req.ConnectionType(),
		Status:         req.Status().String(),
		Resources:      allocations,
		CreatedAt:      req.CreatedAt().Format(time.RFC3339),
	}
}

// GetRequestQuery represents the input for fetching one request.
type GetRequestQuery struct {
	RequestID uint
	Actor     authorization.Actor
}

// GetRequestUseCase loads a single request with its allocations. Non-admin
// callers may only see their own requests.
type GetRequestUseCase struct {
	requestRepo request.Repository
	logger      logger.Interface
}

func NewGetRequestUseCase(requestRepo request.Repository, logger logger.Interface) *GetRequestUseCase {
	return &GetRequestUseCase{requestRepo: requestRepo, logger: logger}
}

func (uc *GetRequestUseCase) Execute(ctx context.Context, query GetRequestQuery) (*RequestDTO, error) {
	req, err := uc.requestRepo.GetByID(ctx, query.RequestID)
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("request not found", fmt.Sprintf("%d", query.RequestID))
		}
		uc.logger.Errorw("failed to load request", "request_id", query.RequestID, "error", err)
		return nil, fmt.Errorf("failed to load request: %w", err)
	}

	if !query.Actor.CanAccessOwnedResource(req.UserID()) {
		return nil, apperrors.NewForbiddenError("you are not authorized to view this request")
	}

	return toRequestDTO(req), nil
}
