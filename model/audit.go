package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records moderation and admin actions. Unlike the document-store
// collections this is an append-only relational table, written through gorm.
type AuditLog struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TraceID    string         `gorm:"index:idx_audit_trace;size:36;not null" json:"trace_id"`
	UserID     string         `gorm:"index:idx_audit_user;size:36" json:"user_id"`
	Role       string         `gorm:"size:16" json:"role"`
	Action     string         `gorm:"size:64;not null" json:"action"`
	TargetID   string         `gorm:"size:64" json:"target_id"`
	Detail     datatypes.JSON `json:"detail"`
	Error      string         `gorm:"type:text" json:"error"`
	IP         string         `gorm:"size:45" json:"ip"`
	DurationMs int            `json:"duration_ms"`
	CreatedAt  time.Time      `gorm:"index:idx_audit_created;autoCreateTime:milli" json:"created_at"`
}
