package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/socialshowcase/backend/audit"
	mw "github.com/socialshowcase/backend/middleware"
	"github.com/socialshowcase/backend/model"
	"github.com/socialshowcase/backend/moderation"
	"github.com/socialshowcase/backend/store"
)

// ModerationHandler serves the sensitive-word list, the text check endpoint
// and admin word management.
type ModerationHandler struct {
	store *store.Store
	audit *audit.Service
}

// NewModerationHandler creates a new ModerationHandler.
func NewModerationHandler(st *store.Store, a *audit.Service) *ModerationHandler {
	return &ModerationHandler{store: st, audit: a}
}

// Words handles GET /api/moderation/words.
func (h *ModerationHandler) Words(c *gin.Context) {
	words := []string{}
	if err := h.store.View(func(snap *model.Snapshot) error {
		words = append(words, snap.SensitiveWords...)
		return nil
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": words})
}

type checkRequest struct {
	Text string `json:"text" binding:"required"`
}

// Check handles POST /api/moderation/check, returning hits and masked text.
func (h *ModerationHandler) Check(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var result moderation.Result
	if err := h.store.View(func(snap *model.Snapshot) error {
		result = moderation.Mask(req.Text, snap.SensitiveWords)
		return nil
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, result)
}

type wordRequest struct {
	Word string `json:"word" binding:"required"`
}

// AddWord handles POST /api/admin/moderation/words.
func (h *ModerationHandler) AddWord(c *gin.Context) {
	var req wordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	word := strings.TrimSpace(req.Word)
	if word == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty word"})
		return
	}
	if err := h.store.Update(func(snap *model.Snapshot) error {
		for _, w := range snap.SensitiveWords {
			if w == word {
				return nil
			}
		}
		snap.SensitiveWords = append(snap.SensitiveWords, word)
		return nil
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	h.audit.Log(audit.Entry{
		TraceID: mw.GetTraceID(c),
		UserID:  mw.GetUserID(c),
		Role:    string(mw.GetRole(c)),
		Action:  "moderation.word_add",
		Detail:  gin.H{"word": word},
		IP:      c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"message": "added"})
}

// RemoveWord handles DELETE /api/admin/moderation/words/:word.
func (h *ModerationHandler) RemoveWord(c *gin.Context) {
	word := c.Param("word")
	if err := h.store.Update(func(snap *model.Snapshot) error {
		kept := snap.SensitiveWords[:0]
		for _, w := range snap.SensitiveWords {
			if w != word {
				kept = append(kept, w)
			}
		}
		snap.SensitiveWords = kept
		return nil
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	h.audit.Log(audit.Entry{
		TraceID: mw.GetTraceID(c),
		UserID:  mw.GetUserID(c),
		Role:    string(mw.GetRole(c)),
		Action:  "moderation.word_remove",
		Detail:  gin.H{"word": word},
		IP:      c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"message": "removed"})
}
