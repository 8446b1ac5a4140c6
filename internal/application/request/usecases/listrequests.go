package usecases

import (
	"context"
	"fmt"
	"time"

	"netreq/internal/domain/request"
	"netreq/internal/shared/authorization"
	"netreq/internal/shared/logger"
)

// ListRequestsQuery represents the input for listing requests. Non-admin
// actors are always scoped to their own requests regardless of UserID.
type ListRequestsQuery struct {
	Actor     authorization.Actor
	UserID    uint
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// ListRequestsResult carries one page of requests and the total match count.
type ListRequestsResult struct {
	Requests []*RequestDTO
	Total    int64
}

type ListRequestsUseCase struct {
	requestRepo request.Repository
	logger      logger.Interface
}

func NewListRequestsUseCase(requestRepo request.Repository, logger logger.Interface) *ListRequestsUseCase {
	return &ListRequestsUseCase{requestRepo: requestRepo, logger: logger}
}

func (uc *ListRequestsUseCase) Execute(ctx context.Context, query ListRequestsQuery) (*ListRequestsResult, error) {
	filter := request.ListFilter{
		UserID:    query.UserID,
		Status:    request.Status(query.Status),
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
	}
	if !query.Actor.Role.IsAdmin() {
		filter.UserID = query.Actor.UserID
	}

	requests, total, err := uc.requestRepo.List(ctx, filter, query.Limit, query.Offset)
	if err != nil {
		uc.logger.Errorw("failed to list requests", "error", err)
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	dtos := make([]*RequestDTO, 0, len(requests))
	for _, req := range requests {
		dtos = append(dtos, toRequestDTO(req))
	}

	return &ListRequestsResult{Requests: dtos, Total: total}, nil
}
