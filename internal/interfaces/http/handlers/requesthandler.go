package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"netreq/internal/application/request"
	"netreq/internal/application/request/usecases"
	"netreq/internal/shared/authorization"
	apperrors "netreq/internal/shared/errors"
	"netreq/internal/shared/logger"
	"netreq/internal/shared/utils"
)

type RequestHandler struct {
	requestService *request.Service
	logger         logger.Interface
}

func NewRequestHandler(requestService *request.Service, logger logger.Interface) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		logger:         logger,
	}
}

type ResourceLineRequest struct {
	ResourceID uint `json:"resource_id" validate:"required"`
	Quantity   int  `json:"quantity" validate:"required,min=1"`
}

type CreateRequestRequest struct {
	LocationID     uint                  `json:"location_id" validate:"required"`
	ConnectionType string                `json:"connection_type" validate:"required"`
	Resources      []ResourceLineRequest `json:"resources" validate:"dive"`
}

type UpdateRequestStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	lines := make([]usecases.ResourceLine, 0, len(req.Resources))
	for _, line := range req.Resources {
		lines = append(lines, usecases.ResourceLine{ResourceID: line.ResourceID, Quantity: line.Quantity})
	}

	result, err := h.requestService.CreateRequest(c.Request.Context(), usecases.CreateRequestCommand{
		UserID:         actor.UserID,
		LocationID:     req.LocationID,
		ConnectionType: req.ConnectionType,
		Resources:      lines,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Request submitted successfully")
}

func (h *RequestHandler) CancelRequest(c *gin.Context) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.requestService.CancelRequest(c.Request.Context(), usecases.CancelRequestCommand{
		RequestID: id,
		Actor:     actor,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Request cancelled successfully", nil)
}

func (h *RequestHandler) UpdateRequestStatus(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update request status", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.requestService.UpdateRequestStatus(c.Request.Context(), usecases.UpdateRequestStatusCommand{
		RequestID: id,
		Status:    req.Status,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Request status updated successfully", nil)
}

func (h *RequestHandler) GetRequest(c *gin.Context) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	dto, err := h.requestService.GetRequest(c.Request.Context(), usecases.GetRequestQuery{
		RequestID: id,
		Actor:     actor,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto)
}

func (h *RequestHandler) ListRequests(c *gin.Context) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	pagination := utils.ParsePagination(c)

	query := usecases.ListRequestsQuery{
		Actor:  actor,
		Status: c.Query("status"),
		Limit:  pagination.PageSize,
		Offset: pagination.Offset(),
	}

	if raw := c.Query("user_id"); raw != "" {
		id, err := parseQueryID(raw)
		if err != nil {
			utils.ErrorResponseWithError(c, apperrors.NewValidationError("user_id must be a positive integer"))
			return
		}
		query.UserID = id
	}
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.ErrorResponseWithError(c, apperrors.NewValidationError("start_date must be an RFC3339 timestamp"))
			return
		}
		query.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.ErrorResponseWithError(c, apperrors.NewValidationError("end_date must be an RFC3339 timestamp"))
			return
		}
		query.EndDate = &t
	}

	result, err := h.requestService.ListRequests(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Requests, result.Total, pagination.Page, pagination.PageSize)
}

func (h *RequestHandler) GenerateReport(c *gin.Context) {
	period := c.DefaultQuery("period", usecases.PeriodWeekly)

	report, err := h.requestService.GenerateReport(c.Request.Context(), usecases.GenerateReportQuery{
		Period: period,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", report)
}
