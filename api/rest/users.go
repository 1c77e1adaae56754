package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/socialshowcase/backend/model"
	"github.com/socialshowcase/backend/store"
)

// UsersHandler serves public user lookups.
type UsersHandler struct {
	store *store.Store
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(st *store.Store) *UsersHandler {
	return &UsersHandler{store: st}
}

// List handles GET /api/users?q=. Soft-deleted users are hidden and the
// password hash is stripped.
func (h *UsersHandler) List(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	users := []model.User{}
	if err := h.store.View(func(snap *model.Snapshot) error {
		for _, u := range snap.Users {
			if u.Deleted {
				continue
			}
			if q != "" && !strings.Contains(u.Nickname, q) && !strings.Contains(u.Phone, q) {
				continue
			}
			users = append(users, u.Sanitized())
		}
		return nil
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": users, "total": len(users)})
}

// Get handles GET /api/users/:id.
func (h *UsersHandler) Get(c *gin.Context) {
	id := c.Param("id")
	var user model.User
	found := false
	if err := h.store.View(func(snap *model.Snapshot) error {
		if u := snap.User(id); u != nil {
			user = u.Sanitized()
			found = true
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
	c.JSON(http.StatusOK, user)
}
