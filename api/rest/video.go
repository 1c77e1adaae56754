package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialshowcase/backend/video"
)

// VideoHandler serves the asynchronous transcode job endpoints.
type VideoHandler struct {
	engine *video.Engine
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(engine *video.Engine) *VideoHandler {
	return &VideoHandler{engine: engine}
}

type createJobRequest struct {
	FileID string `json:"fileId" binding:"required"`
}

// CreateJob handles POST /api/video/job/create.
func (h *VideoHandler) CreateJob(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.engine.Submit(req.FileID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobId": id})
}

// JobStatus handles GET /api/video/job/status?jobId=.
func (h *VideoHandler) JobStatus(c *gin.Context) {
	id := c.Query("jobId")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing jobId"})
		return
	}
	job, err := h.engine.Status(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}
