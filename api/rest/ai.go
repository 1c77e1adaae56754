package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialshowcase/backend/ai"
	"github.com/socialshowcase/backend/model"
)

// AIHandler serves the asynchronous AI task endpoints.
type AIHandler struct {
	engine *ai.Engine
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(engine *ai.Engine) *AIHandler {
	return &AIHandler{engine: engine}
}

type processRequest struct {
	PostID  string           `json:"postId"`
	Text    string           `json:"text"`
	Actions []model.AIAction `json:"actions" binding:"required"`
}

// Process handles POST /api/ai/process. It returns the task id immediately;
// the outcome is observed by polling Task.
func (h *AIHandler) Process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.engine.Submit(model.AITaskInput{PostID: req.PostID, Text: req.Text}, req.Actions)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"taskId": id})
}

// Task handles GET /api/ai/task/:id.
func (h *AIHandler) Task(c *gin.Context) {
	task, err := h.engine.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
