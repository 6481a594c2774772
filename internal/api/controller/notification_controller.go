package controller

import (
	"net/http"
	"strconv"

	"github.com/eklundh/tidflow/internal/api/response"
	"github.com/eklundh/tidflow/internal/service"
	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	notifications *service.NotificationService
	auth          *service.AuthService
}

func NewNotificationController(notifications *service.NotificationService, auth *service.AuthService) *NotificationController {
	return &NotificationController{notifications: notifications, auth: auth}
}

func (ctrl *NotificationController) List(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	list, err := ctrl.notifications.List(c.Request.Context(), session, c.Query("unread") == "true")
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, list)
}

func (ctrl *NotificationController) MarkRead(c *gin.Context) {
	session := currentSession(c, ctrl.auth)
	if session == nil {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid notification id")
		return
	}

	if err := ctrl.notifications.MarkRead(c.Request.Context(), session, uint(id)); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
