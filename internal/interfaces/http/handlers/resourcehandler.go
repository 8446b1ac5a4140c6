package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appresource "netreq/internal/application/resource"
	"netreq/internal/domain/resource"
	"netreq/internal/shared/logger"
	"netreq/internal/shared/utils"
)

type ResourceHandler struct {
	resourceService *appresource.Service
	logger          logger.Interface
}

func NewResourceHandler(resourceService *appresource.Service, logger logger.Interface) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
		logger:          logger,
	}
}

type CreateResourceRequest struct {
	Name              string `json:"name" binding:"required"`
	QuantityTotal     int    `json:"quantity_total" binding:"min=0"`
	QuantityAvailable *int   `json:"quantity_available"`
}

type UpdateResourceRequest struct {
	Name              *string `json:"name"`
	QuantityTotal     *int    `json:"quantity_total"`
	QuantityAvailable *int    `json:"quantity_available"`
}

func (h *ResourceHandler) CreateResource(c *gin.Context) {
	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create resource", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// Omitted available quantity means the pool starts fully available.
	available := -1
	if req.QuantityAvailable != nil {
		available = *req.QuantityAvailable
	}

	dto, err := h.resourceService.Create(c.Request.Context(), appresource.CreateResourceCommand{
		Name:              req.Name,
		QuantityTotal:     req.QuantityTotal,
		QuantityAvailable: available,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, dto, "Resource created successfully")
}

func (h *ResourceHandler) GetResource(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	dto, err := h.resourceService.Get(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto)
}

func (h *ResourceHandler) UpdateResource(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update resource", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	dto, err := h.resourceService.Update(c.Request.Context(), id, appresource.UpdateResourceCommand{
		Name:              req.Name,
		QuantityTotal:     req.QuantityTotal,
		QuantityAvailable: req.QuantityAvailable,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Resource updated successfully", dto)
}

func (h *ResourceHandler) DeleteResource(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.resourceService.Delete(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *ResourceHandler) ListResources(c *gin.Context) {
	filter := resource.ListFilter{
		Name: c.Query("name"),
	}
	if raw := c.Query("available_only"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			filter.AvailableOnly = parsed
		}
	}

	dtos, err := h.resourceService.List(c.Request.Context(), filter)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dtos)
}
