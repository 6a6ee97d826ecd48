package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mroshb/sweatcheck/internal/services"
	"github.com/mroshb/sweatcheck/pkg/logger"
)

type broadcastRequest struct {
	Type    string `json:"type"`
	Message string `json:"message" binding:"required"`
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// Broadcast writes one notification per user
func (h *HandlerManager) Broadcast(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}

	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	out, err := h.Notifications.Broadcast(c.Request.Context(), req.Type, req.Message)
	if err == nil && out.OK {
		logger.Info("Admin broadcast", "admin_id", adminID, "result", out.Message)
	}
	respondOutcome(c, out, err)
}

func (h *HandlerManager) SetRole(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.Users.SetRole(c.Request.Context(), userID, req.Role); err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Admin changed role", "admin_id", adminID, "user_id", userID)
	respondOutcome(c, services.Outcome{OK: true, Message: "Role updated."}, nil)
}
