package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"netreq/internal/application/notification"
	"netreq/internal/shared/authorization"
	"netreq/internal/shared/logger"
	"netreq/internal/shared/utils"
)

type NotificationHandler struct {
	notificationService *notification.Service
	logger              logger.Interface
}

func NewNotificationHandler(notificationService *notification.Service, logger logger.Interface) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	pagination := utils.ParsePagination(c)

	result, err := h.notificationService.List(c.Request.Context(), actor.UserID, pagination.PageSize, pagination.Offset())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Notifications, result.Total, pagination.Page, pagination.PageSize)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, ok := authorization.ActorFromContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), actor.UserID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"unread_count": count})
}

func (h *NotificationHandler) MarkSeen(c *gin.Context) {
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

	if err := h.notificationService.MarkSeen(c.Request.Context(), id, actor.UserID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notification marked as seen", nil)
}
