package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialshowcase/backend/content"
	mw "github.com/socialshowcase/backend/middleware"
)

// RatingsHandler serves post ratings.
type RatingsHandler struct {
	svc *content.Service
}

// NewRatingsHandler creates a new RatingsHandler.
func NewRatingsHandler(svc *content.Service) *RatingsHandler {
	return &RatingsHandler{svc: svc}
}

type rateRequest struct {
	Score int `json:"score" binding:"required,min=1,max=5"`
}

// Rate handles POST /api/posts/:id/rating.
func (h *RatingsHandler) Rate(c *gin.Context) {
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rating, err := h.svc.Rate(mw.GetUserID(c), mw.GetRole(c), c.Param("id"), req.Score)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// Mine handles GET /api/posts/:id/rating/me.
func (h *RatingsHandler) Mine(c *gin.Context) {
	rating, err := h.svc.MyRating(mw.GetUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": rating})
}

// Summary handles GET /api/posts/:id/rating/summary.
func (h *RatingsHandler) Summary(c *gin.Context) {
	summary, err := h.svc.RatingSummary(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
