package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	mw "github.com/socialshowcase/backend/middleware"
	"github.com/socialshowcase/backend/social"
)

// FriendsHandler serves friend requests and friendships.
type FriendsHandler struct {
	svc *social.Service
}

// NewFriendsHandler creates a new FriendsHandler.
func NewFriendsHandler(svc *social.Service) *FriendsHandler {
	return &FriendsHandler{svc: svc}
}

type friendRequestRequest struct {
	ToUserID string `json:"toUserId" binding:"required"`
}

// Request handles POST /api/friends/request.
func (h *FriendsHandler) Request(c *gin.Context) {
	var req friendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.svc.Request(mw.GetUserID(c), req.ToUserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

// Requests handles GET /api/friends/requests (incoming, newest first).
func (h *FriendsHandler) Requests(c *gin.Context) {
	items, err := h.svc.IncomingRequests(mw.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Accept handles POST /api/friends/requests/:id/accept.
func (h *FriendsHandler) Accept(c *gin.Context) {
	if err := h.svc.Accept(mw.GetUserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "accepted"})
}

// Reject handles POST /api/friends/requests/:id/reject.
func (h *FriendsHandler) Reject(c *gin.Context) {
	if err := h.svc.Reject(mw.GetUserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rejected"})
}

// List handles GET /api/friends.
func (h *FriendsHandler) List(c *gin.Context) {
	items, err := h.svc.Friends(mw.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Remove handles DELETE /api/friends/:id.
func (h *FriendsHandler) Remove(c *gin.Context) {
	if err := h.svc.Remove(mw.GetUserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed"})
}
