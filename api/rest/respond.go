// Package rest exposes the HTTP surface. Handlers are thin: they bind
// input, call a service, and translate service errors to status codes.
package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialshowcase/backend/ai"
	"github.com/socialshowcase/backend/content"
	"github.com/socialshowcase/backend/social"
	"github.com/socialshowcase/backend/video"
)

// writeError maps a service error to an HTTP response.
func writeError(c *gin.Context, err error) {
	var sensitive *content.SensitiveContentError
	if errors.As(err, &sensitive) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "sensitive words detected",
			"hits":  sensitive.Hits,
		})
		return
	}

	switch {
	case errors.Is(err, content.ErrPostNotFound),
		errors.Is(err, content.ErrCommentNotFound),
		errors.Is(err, social.ErrRequestNotFound),
		errors.Is(err, social.ErrUserNotFound),
		errors.Is(err, ai.ErrTaskNotFound),
		errors.Is(err, video.ErrJobNotFound),
		errors.Is(err, video.ErrFileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, content.ErrForbidden),
		errors.Is(err, social.ErrNotAddressee):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, social.ErrAlreadyFriends),
		errors.Is(err, social.ErrPendingExists),
		errors.Is(err, social.ErrAlreadyResolved):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, content.ErrInvalidInput),
		errors.Is(err, social.ErrSelfRequest),
		errors.Is(err, ai.ErrNoActions),
		errors.Is(err, ai.ErrUnknownAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
