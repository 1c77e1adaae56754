package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/socialshowcase/backend/content"
	mw "github.com/socialshowcase/backend/middleware"
)

// CommentsHandler serves post comments.
type CommentsHandler struct {
	svc *content.Service
}

// NewCommentsHandler creates a new CommentsHandler.
func NewCommentsHandler(svc *content.Service) *CommentsHandler {
	return &CommentsHandler{svc: svc}
}

// List handles GET /api/posts/:id/comments.
func (h *CommentsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	items, total, err := h.svc.ListComments(mw.GetUserID(c), mw.GetRole(c), c.Param("id"), page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total, "page": page, "pageSize": pageSize})
}

type commentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID string `json:"parentId"`
}

// Create handles POST /api/posts/:id/comments.
func (h *CommentsHandler) Create(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment, err := h.svc.AddComment(mw.GetUserID(c), mw.GetRole(c), c.Param("id"), req.Content, req.ParentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE /api/comments/:id.
func (h *CommentsHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteComment(mw.GetUserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
