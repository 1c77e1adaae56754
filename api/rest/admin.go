package rest

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialshowcase/backend/audit"
	"github.com/socialshowcase/backend/content"
	mw "github.com/socialshowcase/backend/middleware"
	"github.com/socialshowcase/backend/model"
	"github.com/socialshowcase/backend/store"
)

// AdminHandler serves user/post administration, stats and the audit trail.
type AdminHandler struct {
	store   *store.Store
	content *content.Service
	audit   *audit.Service
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(st *store.Store, svc *content.Service, a *audit.Service) *AdminHandler {
	return &AdminHandler{store: st, content: svc, audit: a}
}

// ListUsers handles GET /api/admin/users. Soft-deleted users are included
// so the admin can see the full account history.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users := []model.User{}
	if err := h.store.View(func(snap *model.Snapshot) error {
		for _, u := range snap.Users {
			users = append(users, u.Sanitized())
		}
		return nil
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": users, "total": len(users)})
}

// DeleteUser handles DELETE /api/admin/users/:id (soft delete).
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	found := false
	if err := h.store.Update(func(snap *model.Snapshot) error {
		for i := range snap.Users {
			if snap.Users[i].ID == id && !snap.Users[i].Deleted {
				snap.Users[i].Deleted = true
				found = true
				return nil
			}
		}
		return nil
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	h.audit.Log(audit.Entry{
		TraceID:  mw.GetTraceID(c),
		UserID:   mw.GetUserID(c),
		Role:     string(mw.GetRole(c)),
		Action:   "admin.user_delete",
		TargetID: id,
		IP:       c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// ListPosts handles GET /api/admin/posts: every post regardless of
// visibility, newest first, paged.
func (h *AdminHandler) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	items := []model.Post{}
	total := 0
	if err := h.store.View(func(snap *model.Snapshot) error {
		posts := append([]model.Post(nil), snap.Posts...)
		sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
		total = len(posts)
		start := (page - 1) * pageSize
		if start > len(posts) {
			start = len(posts)
		}
		end := start + pageSize
		if end > len(posts) {
			end = len(posts)
		}
		items = append(items, posts[start:end]...)
		return nil
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total, "page": page, "pageSize": pageSize})
}

// DeletePost handles DELETE /api/admin/posts/:id, cascading like the
// author-facing delete.
func (h *AdminHandler) DeletePost(c *gin.Context) {
	id := c.Param("id")
	if err := h.content.DeletePost(mw.GetUserID(c), model.RoleAdmin, id); err != nil {
		writeError(c, err)
		return
	}
	h.audit.Log(audit.Entry{
		TraceID:  mw.GetTraceID(c),
		UserID:   mw.GetUserID(c),
		Role:     string(mw.GetRole(c)),
		Action:   "admin.post_delete",
		TargetID: id,
		IP:       c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

type trendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Stats handles GET /api/admin/stats?days=: posts-per-day trend, media type
// ratio and top tags.
func (h *AdminHandler) Stats(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	if days < 1 || days > 90 {
		days = 7
	}

	trend := make([]trendPoint, days)
	today := time.Now()
	byDate := map[string]int{}
	for i := 0; i < days; i++ {
		d := today.AddDate(0, 0, -(days - 1 - i))
		trend[i] = trendPoint{Date: d.Format("2006-01-02")}
	}

	typeRatio := map[string]int{"text": 0, "image": 0, "video": 0}
	tagCounts := map[string]int{}

	if err := h.store.View(func(snap *model.Snapshot) error {
		for _, p := range snap.Posts {
			byDate[p.CreatedAt.Format("2006-01-02")]++
			kind := "text"
			for _, m := range p.Media {
				if m.Kind == model.MediaVideo {
					kind = "video"
					break
				}
				kind = "image"
			}
			typeRatio[kind]++
			for _, t := range p.Tags {
				tagCounts[t]++
			}
		}
		return nil
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	for i := range trend {
		trend[i].Count = byDate[trend[i].Date]
	}

	topTags := make([]content.TagCount, 0, len(tagCounts))
	for tag, n := range tagCounts {
		topTags = append(topTags, content.TagCount{Tag: tag, Count: n})
	}
	sort.Slice(topTags, func(i, j int) bool {
		if topTags[i].Count != topTags[j].Count {
			return topTags[i].Count > topTags[j].Count
		}
		return topTags[i].Tag < topTags[j].Tag
	})
	if len(topTags) > 10 {
		topTags = topTags[:10]
	}

	c.JSON(http.StatusOK, gin.H{
		"trend":     trend,
		"typeRatio": typeRatio,
		"topTags":   topTags,
	})
}

// AuditLogs handles GET /api/admin/audit?userId=&action=&limit=&offset=.
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	logs, err := h.audit.Recent(audit.Query{
		UserID: c.Query("userId"),
		Action: c.Query("action"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	c.JSON(http.StatusOK, gin.H{"items": logs})
}
