package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/services"
	"github.com/yeremiapane/projectflow/utils"
)

type NotificationController struct {
	Service *services.NotificationService
}

func NewNotificationController(service *services.NotificationService) *NotificationController {
	return &NotificationController{Service: service}
}

// GetUserNotifications lists the inbox of :userId newest first, optionally by ?status=
func (nc *NotificationController) GetUserNotifications(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	status := models.NotificationStatus(strings.ToUpper(c.Query("status")))
	page, err := nc.Service.ListForUser(c.Request.Context(), a, userID, status, pageRequest(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notifications", paged(page))
}

func (nc *NotificationController) GetUnreadCount(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	count, err := nc.Service.CountUnread(c.Request.Context(), a)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Unread count", gin.H{"count": count})
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	notif, err := nc.Service.MarkRead(c.Request.Context(), a, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", notif)
}

func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	updated, err := nc.Service.MarkAllRead(c.Request.Context(), a)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications marked as read", gin.H{"updated": updated})
}

func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := nc.Service.Delete(c.Request.Context(), a, id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"id": id})
}
