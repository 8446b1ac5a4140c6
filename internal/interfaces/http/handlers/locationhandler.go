package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"netreq/internal/application/location"
	"netreq/internal/shared/logger"
	"netreq/internal/shared/utils"
)

type LocationHandler struct {
	locationService *location.Service
	logger          logger.Interface
}

func NewLocationHandler(locationService *location.Service, logger logger.Interface) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
		logger:          logger,
	}
}

type CreateLocationRequest struct {
	AreaName         string `json:"area_name" binding:"required"`
	NetworkAvailable bool   `json:"network_available"`
}

type UpdateLocationRequest struct {
	AreaName         *string `json:"area_name"`
	NetworkAvailable *bool   `json:"network_available"`
}

func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create location", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	dto, err := h.locationService.Create(c.Request.Context(), location.CreateLocationCommand{
		AreaName:         req.AreaName,
		NetworkAvailable: req.NetworkAvailable,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, dto, "Location created successfully")
}

func (h *LocationHandler) GetLocation(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	dto, err := h.locationService.Get(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto)
}

func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update location", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	dto, err := h.locationService.Update(c.Request.Context(), id, location.UpdateLocationCommand{
		AreaName:         req.AreaName,
		NetworkAvailable: req.NetworkAvailable,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Location updated successfully", dto)
}

func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.locationService.Delete(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *LocationHandler) ListLocations(c *gin.Context) {
	var available *bool
	if raw := c.Query("available"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			available = &parsed
		}
	}

	dtos, err := h.locationService.List(c.Request.Context(), available)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dtos)
}
