package usecases

import (
	"context"
	"fmt"
	"time"

	"netreq/internal/domain/location"
	"netreq/internal/domain/request"
	apperrors "netreq/internal/shared/errors"
	"netreq/internal/shared/logger"
)

// Report periods.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// GenerateReportQuery represents the input for a usage report.
type GenerateReportQuery struct {
	Period string
}

// ReportResult summarizes request activity within the period.
type ReportResult struct {
	Period           string           `json:"period"`
	StartDate        string           `json:"start_date"`
	EndDate          string           `json:"end_date"`
	TotalRequests    int64            `json:"total_requests"`
	ByStatus         map[string]int64 `json:"by_status"`
	ByLocation       map[string]int64 `json:"by_location"`
	ByConnectionType map[string]int64 `json:"by_connection_type"`
}

// GenerateReportUseCase aggregates request counts for a trailing period by
// status, location, and connection type.
type GenerateReportUseCase struct {
	requestRepo  request.Repository
	locationRepo location.Repository
	logger       logger.Interface
}

func NewGenerateReportUseCase(
	requestRepo request.Repository,
	locationRepo location.Repository,
	logger logger.Interface,
) *GenerateReportUseCase {
	return &GenerateReportUseCase{
		requestRepo:  requestRepo,
		locationRepo: locationRepo,
		logger:       logger,
	}
}

func (uc *GenerateReportUseCase) Execute(ctx context.Context, query GenerateReportQuery) (*ReportResult, error) {
	end := time.Now()
	var start time.Time
	switch query.Period {
	case PeriodDaily:
		start = end.AddDate(0, 0, -1)
	case PeriodWeekly:
		start = end.AddDate(0, 0, -7)
	case PeriodMonthly:
		start = end.AddDate(0, -1, 0)
	default:
		return nil, apperrors.NewValidationError("period must be one of daily, weekly, monthly")
	}

	filter := request.ListFilter{StartDate: &start, EndDate: &end}
	requests, total, err := uc.requestRepo.List(ctx, filter, 0, 0)
	if err != nil {
		uc.logger.Errorw("failed to load requests for report", "period", query.Period, "error", err)
		return nil, fmt.Errorf("failed to load requests for report: %w", err)
	}

	locationNames, err := uc.locationNames(ctx)
	if err != nil {
		return nil, err
	}

	result := &ReportResult{
		Period:           query.Period,
		StartDate:        start.Format(time.RFC3339),
		EndDate:          end.Format(time.RFC3339),
		TotalRequests:    total,
		ByStatus:         make(map[string]int64),
		ByLocation:       make(map[string]int64),
		ByConnectionType: make(map[string]int64),
	}

	for _, req := range requests {
		result.ByStatus[req.Status().String()]++

		locName, ok := locationNames[req.LocationID()]
		if !ok {
			locName = fmt.Sprintf("location #%d", req.LocationID())
		}
		result.ByLocation[locName]++

		result.ByConnectionType[req.ConnectionType()]++
	}

	return result, nil
}

func (uc *GenerateReportUseCase) locationNames(ctx context.Context) (map[uint]string, error) {
	locations, err := uc.locationRepo.List(ctx, nil)
	if err != nil {
		uc.logger.Errorw("failed to load locations for report", "error", err)
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}
	names := make(map[uint]string, len(locations))
	for _, loc := range locations {
		names[loc.ID()] = loc.AreaName()
	}
	return names, nil
}
