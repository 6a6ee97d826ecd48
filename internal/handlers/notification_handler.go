package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the newest notifications, rendered for display.
// Reading does not mark anything as read.
func (h *HandlerManager) ListNotifications(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	items, err := h.Notifications.Render(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

func (h *HandlerManager) UnreadCount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	count, err := h.Notifications.CountUnread(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (h *HandlerManager) MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	out, err := h.Notifications.MarkAllRead(c.Request.Context(), userID)
	respondOutcome(c, out, err)
}

func (h *HandlerManager) MarkNotificationRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	out, err := h.Notifications.MarkRead(c.Request.Context(), userID, id)
	respondOutcome(c, out, err)
}

func (h *HandlerManager) DeleteNotification(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	out, err := h.Notifications.Delete(c.Request.Context(), userID, id)
	respondOutcome(c, out, err)
}
