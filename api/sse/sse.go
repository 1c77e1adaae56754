// Package sse streams AI task and video job status transitions to clients.
// Events come off the pub/sub channel the engines publish to; polling the
// task or job record remains authoritative.
package sse

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialshowcase/backend/cache"
	"github.com/socialshowcase/backend/config"
	"github.com/socialshowcase/backend/events"
	mw "github.com/socialshowcase/backend/middleware"
	"go.uber.org/zap"
)

const keepaliveEvery = 30 * time.Second

// Handler handles the SSE endpoint.
type Handler struct {
	pubsub cache.PubSub
	c      cache.Cache
	sec    config.SecurityConfig
	logger *zap.Logger
}

// NewHandler creates a new SSE Handler.
func NewHandler(pubsub cache.PubSub, c cache.Cache, sec config.SecurityConfig, logger *zap.Logger) *Handler {
	return &Handler{pubsub: pubsub, c: c, sec: sec, logger: logger}
}

// authorize validates the query-parameter token. EventSource cannot set
// request headers, so the Bearer header is not an option here.
func (h *Handler) authorize(c *gin.Context) bool {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return false
	}
	if _, err := mw.ParseToken(tokenStr, h.sec.JWTSecret); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return false
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if ok, err := h.c.Exists(ctx, "session:"+tokenStr); err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		return false
	}
	return true
}

// ServeJobs handles GET /api/events/jobs?token=<jwt>.
func (h *Handler) ServeJobs(c *gin.Context) {
	if !h.authorize(c) {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	msgCh, unsub, err := h.pubsub.Subscribe(c.Request.Context(), events.Channel)
	if err != nil {
		h.logger.Error("sse subscribe failed", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	defer unsub()

	send := func(event, data string) {
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, data)
		c.Writer.Flush()
	}
	send("connected", "{}")

	keepalive := time.NewTicker(keepaliveEvery)
	defer keepalive.Stop()

	done := c.Request.Context().Done()
	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				return
			}
			send("job", msg.Payload)
		case <-keepalive.C:
			fmt.Fprint(c.Writer, ": keepalive\n\n")
			c.Writer.Flush()
		case <-done:
			return
		}
	}
}
