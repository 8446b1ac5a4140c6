// Package request aggregates the network request use cases behind one
// service facade consumed by the HTTP layer.
package request

import (
	"context"

	"netreq/internal/application/request/usecases"
	"netreq/internal/domain/location"
	"netreq/internal/domain/notification"
	"netreq/internal/domain/request"
	"netreq/internal/domain/resource"
	"netreq/internal/shared/logger"
)

type Service struct {
	createRequest       *usecases.CreateRequestUseCase
	cancelRequest       *usecases.CancelRequestUseCase
	updateRequestStatus *usecases.UpdateRequestStatusUseCase
	getRequest          *usecases.GetRequestUseCase
	listRequests        *usecases.ListRequestsUseCase
	generateReport      *usecases.GenerateReportUseCase
}

func NewService(
	locationRepo location.Repository,
	resourceRepo resource.Repository,
	requestRepo request.Repository,
	notificationRepo notification.Repository,
	tx usecases.TransactionManager,
	logger logger.Interface,
) *Service {
	return &Service{
		createRequest:       usecases.NewCreateRequestUseCase(locationRepo, resourceRepo, requestRepo, notificationRepo, tx, logger),
		cancelRequest:       usecases.NewCancelRequestUseCase(resourceRepo, requestRepo, notificationRepo, tx, logger),
		updateRequestStatus: usecases.NewUpdateRequestStatusUseCase(requestRepo, notificationRepo, tx, logger),
		getRequest:          usecases.NewGetRequestUseCase(requestRepo, logger),
		listRequests:        usecases.NewListRequestsUseCase(requestRepo, logger),
		generateReport:      usecases.NewGenerateReportUseCase(requestRepo, locationRepo, logger),
	}
}

func (s *Service) CreateRequest(ctx context.Context, cmd usecases.CreateRequestCommand) (*usecases.CreateRequestResult, error) {
	return s.createRequest.Execute(ctx, cmd)
}

func (s *Service) CancelRequest(ctx context.Context, cmd usecases.CancelRequestCommand) error {
	return s.cancelRequest.Execute(ctx, cmd)
}

func (s *Service) UpdateRequestStatus(ctx context.Context, cmd usecases.UpdateRequestStatusCommand) error {
	return s.updateRequestStatus.Execute(ctx, cmd)
}

func (s *Service) GetRequest(ctx context.Context, query usecases.GetRequestQuery) (*usecases.RequestDTO, error) {
	return s.getRequest.Execute(ctx, query)
}

func (s *Service) ListRequests(ctx context.Context, query usecases.ListRequestsQuery) (*usecases.ListRequestsResult, error) {
	return s.listRequests.Execute(ctx, query)
}

func (s *Service) GenerateReport(ctx context.Context, query usecases.GenerateReportQuery) (*usecases.ReportResult, error) {
	return s.generateReport.Execute(ctx, query)
}
