package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/sweatcheck/internal/models"
	"github.com/mroshb/sweatcheck/internal/services"
)

type friendRequestInput struct {
	Email string `json:"email" binding:"required"`
}

type friendResponse struct {
	ID        uint   `json:"id"`
	Nick      string `json:"nick"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type pendingRequestResponse struct {
	models.PendingRequest
	AvatarURL string `json:"avatar_url,omitempty"`
}

func (h *HandlerManager) ListFriends(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	friends, err := h.Friends.ListFriends(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]friendResponse, 0, len(friends))
	for i := range friends {
		out = append(out, friendResponse{
			ID:        friends[i].ID,
			Nick:      friends[i].Nick,
			Email:     friends[i].Email,
			AvatarURL: h.Images.SignedURLPtr(c.Request.Context(), friends[i].AvatarPath),
		})
	}
	c.JSON(http.StatusOK, gin.H{"friends": out})
}

// RemoveFriend always succeeds, even when the two were not friends
func (h *HandlerManager) RemoveFriend(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	otherID, ok := idParam(c, "id")
	if !ok {
		return
	}

	out, err := h.Friends.RemoveFriend(c.Request.Context(), userID, otherID)
	respondOutcome(c, out, err)
}

func (h *HandlerManager) SendFriendRequest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req friendRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	out, err := h.Friends.SendRequest(c.Request.Context(), userID, req.Email)
	respondOutcome(c, out, err)
}

func (h *HandlerManager) ListIncomingRequests(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	requests, err := h.Friends.ListIncoming(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": h.pendingResponses(c, requests)})
}

func (h *HandlerManager) ListOutgoingRequests(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	requests, err := h.Friends.ListOutgoing(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": h.pendingResponses(c, requests)})
}

func (h *HandlerManager) pendingResponses(c *gin.Context, requests []models.PendingRequest) []pendingRequestResponse {
	out := make([]pendingRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, pendingRequestResponse{
			PendingRequest: r,
			AvatarURL:      h.Images.SignedURLPtr(c.Request.Context(), r.AvatarPath),
		})
	}
	return out
}

func (h *HandlerManager) AcceptFriendRequest(c *gin.Context) {
	h.respondToRequest(c, h.Friends.Accept)
}

func (h *HandlerManager) DeclineFriendRequest(c *gin.Context) {
	h.respondToRequest(c, h.Friends.Decline)
}

func (h *HandlerManager) CancelFriendRequest(c *gin.Context) {
	h.respondToRequest(c, h.Friends.Cancel)
}

// requestAction is one of the friend request transitions
type requestAction func(ctx context.Context, actorID, requestID uint) (services.Outcome, error)

func (h *HandlerManager) respondToRequest(c *gin.Context, action requestAction) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}

	out, err := action(c.Request.Context(), userID, requestID)
	respondOutcome(c, out, err)
}
