package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialshowcase/backend/audit"
	"github.com/socialshowcase/backend/content"
	mw "github.com/socialshowcase/backend/middleware"
	"github.com/socialshowcase/backend/model"
)

// PostsHandler serves post CRUD, listing and tag counts.
type PostsHandler struct {
	svc   *content.Service
	audit *audit.Service
}

// NewPostsHandler creates a new PostsHandler.
func NewPostsHandler(svc *content.Service, a *audit.Service) *PostsHandler {
	return &PostsHandler{svc: svc, audit: a}
}

type postRequest struct {
	Title      *string            `json:"title"`
	Text       *string            `json:"text"`
	Tags       *[]string          `json:"tags"`
	Visibility *model.Visibility  `json:"visibility"`
	Media      *[]model.MediaItem `json:"media"`
}

func (r postRequest) input() content.PostInput {
	return content.PostInput{
		Title:      r.Title,
		Text:       r.Text,
		Tags:       r.Tags,
		Visibility: r.Visibility,
		Media:      r.Media,
	}
}

// Create handles POST /api/posts.
func (h *PostsHandler) Create(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post, err := h.svc.CreatePost(mw.GetUserID(c), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Update handles PUT /api/posts/:id.
func (h *PostsHandler) Update(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post, err := h.svc.UpdatePost(mw.GetUserID(c), c.Param("id"), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /api/posts/:id.
func (h *PostsHandler) Delete(c *gin.Context) {
	userID, role := mw.GetUserID(c), mw.GetRole(c)
	postID := c.Param("id")
	if err := h.svc.DeletePost(userID, role, postID); err != nil {
		writeError(c, err)
		return
	}
	h.audit.Log(audit.Entry{
		TraceID:  mw.GetTraceID(c),
		UserID:   userID,
		Role:     string(role),
		Action:   "post.delete",
		TargetID: postID,
		IP:       c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// Get handles GET /api/posts/:id.
func (h *PostsHandler) Get(c *gin.Context) {
	post, err := h.svc.GetPost(mw.GetUserID(c), mw.GetRole(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// List handles GET /api/posts with q/tag/onlyMine/onlyFriendsFeed/dateFrom/
// dateTo/page/pageSize query parameters.
func (h *PostsHandler) List(c *gin.Context) {
	q := content.ListQuery{
		Q:               c.Query("q"),
		Tag:             c.Query("tag"),
		OnlyMine:        c.Query("onlyMine") == "true" || c.Query("onlyMine") == "1",
		OnlyFriendsFeed: c.Query("onlyFriendsFeed") == "true" || c.Query("onlyFriendsFeed") == "1",
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if s := c.Query("dateFrom"); s != "" {
		if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
			q.DateFrom = &t
		}
	}
	if s := c.Query("dateTo"); s != "" {
		if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
			q.DateTo = &t
		}
	}

	items, total, err := h.svc.ListPosts(mw.GetUserID(c), mw.GetRole(c), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"total":    total,
		"page":     q.Page,
		"pageSize": q.PageSize,
	})
}

// Tags handles GET /api/tags.
func (h *PostsHandler) Tags(c *gin.Context) {
	items, err := h.svc.TagCounts()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
