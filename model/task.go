package model

import "time"

// TaskStatus is shared by AI tasks and video jobs.
// success and failed are terminal.
type TaskStatus string

const (
	StatusQueued     TaskStatus = "queued"
	StatusProcessing TaskStatus = "processing"
	StatusSuccess    TaskStatus = "success"
	StatusFailed     TaskStatus = "failed"
)

// Terminal reports whether no further transition may occur.
func (s TaskStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// AIAction names one unit of work an AI task can request.
type AIAction string

const (
	ActionGenTitle  AIAction = "gen_title"
	ActionGenTags   AIAction = "gen_tags"
	ActionSummarize AIAction = "summarize"
	ActionSafety    AIAction = "safety"
)

// Valid reports whether a is part of the fixed action vocabulary.
func (a AIAction) Valid() bool {
	switch a {
	case ActionGenTitle, ActionGenTags, ActionSummarize, ActionSafety:
		return true
	}
	return false
}

// AITaskInput is the submitted payload. When PostID is set the effective
// text is re-derived from the post at processing time.
type AITaskInput struct {
	PostID string `json:"postId,omitempty"`
	Text   string `json:"text,omitempty"`
}

// SafetyResult is the output of the safety action.
type SafetyResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// AITaskResult holds per-action outputs, merged in at success as one unit.
type AITaskResult struct {
	Title   string        `json:"title,omitempty"`
	Summary string        `json:"summary,omitempty"`
	Tags    []string      `json:"tags,omitempty"`
	Safety  *SafetyResult `json:"safety,omitempty"`
}

// AITask is one asynchronous AI processing request. Exactly one background
// worker owns its status transitions; the record is only ever replaced
// whole, never partially updated in place.
type AITask struct {
	ID        string        `json:"id"`
	Status    TaskStatus    `json:"status"`
	Actions   []AIAction    `json:"actions"`
	Input     AITaskInput   `json:"input"`
	Result    *AITaskResult `json:"result,omitempty"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// VideoJobResult is set only when a job succeeds.
type VideoJobResult struct {
	PlayURLMP4 string `json:"playUrlMp4"`
}

// VideoJob is one asynchronous transcode request over an uploaded file.
// Progress is a monotonically non-decreasing 0..100.
type VideoJob struct {
	ID        string          `json:"id"`
	FileID    string          `json:"fileId"`
	Status    TaskStatus      `json:"status"`
	Progress  int             `json:"progress"`
	Result    *VideoJobResult `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// FileRecord describes an uploaded file on local disk.
type FileRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Mime      string    `json:"mime"`
	Size      int64     `json:"size"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"createdAt"`
}
