// Package events fans task and job status transitions out over pub/sub so
// the SSE endpoint can stream them. Publishing is best-effort; polling the
// record remains the contract of record.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/socialshowcase/backend/cache"
	"github.com/socialshowcase/backend/model"
	"go.uber.org/zap"
)

// Channel is the pub/sub channel carrying job events.
const Channel = "events:jobs"

// Kinds of event sources.
const (
	KindAITask   = "ai_task"
	KindVideoJob = "video_job"
)

// JobEvent is one status transition of an AI task or video job.
type JobEvent struct {
	Kind     string           `json:"kind"`
	ID       string           `json:"id"`
	Status   model.TaskStatus `json:"status"`
	Progress int              `json:"progress,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// Publish sends the event on the channel. A nil pub/sub is a no-op.
func Publish(ps cache.PubSub, logger *zap.Logger, ev JobEvent) {
	if ps == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ps.Publish(ctx, Channel, string(data)); err != nil {
		logger.Warn("job event publish failed", zap.Error(err), zap.String("id", ev.ID))
	}
}
