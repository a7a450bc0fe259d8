package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/projectflow/realtime"
	"github.com/yeremiapane/projectflow/services"
	"github.com/yeremiapane/projectflow/utils"
)

type WSController struct {
	Hub           *realtime.Hub
	Notifications *services.NotificationService
	upgrader      websocket.Upgrader
}

// NewWSController accepts upgrades from allowedOrigin, or from any origin when it is "*" or empty.
func NewWSController(hub *realtime.Hub, notifications *services.NotificationService, allowedOrigin string) *WSController {
	return &WSController{
		Hub:           hub,
		Notifications: notifications,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
	}
}

// NotificationsSocket streams the caller's notifications until the socket closes
func (wc *WSController) NotificationsSocket(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	ws, err := wc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Websocket upgrade for user %d failed: %v", a.ID, err)
		return
	}

	wc.Hub.Register(a.ID, ws)
	if wc.Notifications != nil {
		if count, err := wc.Notifications.CountUnread(c.Request.Context(), a); err == nil {
			wc.Hub.Push(a.ID, realtime.EventUnreadCount, gin.H{"count": count})
		}
	}

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	wc.Hub.Unregister(a.ID, ws)
}
