// Package audit writes an append-only trail of sensitive actions (auth,
// moderation, admin operations) to a relational table, batched off the
// request path.
package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/socialshowcase/backend/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	queueDepth    = 1024
	batchMax      = 100
	flushInterval = 2 * time.Second
)

// Entry holds one audit event to be logged.
type Entry struct {
	TraceID    string
	UserID     string
	Role       string
	Action     string
	TargetID   string
	Detail     interface{}
	Error      string
	IP         string
	DurationMs int
}

// Query filters the trail for the admin endpoint.
type Query struct {
	UserID string
	Action string
	Limit  int
	Offset int
}

// Service logs audit entries asynchronously in batches. A nil *gorm.DB
// disables it; every method is then a no-op.
type Service struct {
	db      *gorm.DB
	queue   chan *model.AuditLog
	closing chan struct{}
	wg      sync.WaitGroup
	logger  *zap.Logger
}

// New migrates the audit table and starts the background writer.
func New(db *gorm.DB, logger *zap.Logger) (*Service, error) {
	svc := &Service{db: db, logger: logger}
	if db == nil {
		return svc, nil
	}
	if err := db.AutoMigrate(&model.AuditLog{}); err != nil {
		return nil, err
	}
	svc.queue = make(chan *model.AuditLog, queueDepth)
	svc.closing = make(chan struct{})
	svc.wg.Add(1)
	go svc.writer()
	return svc, nil
}

// Log enqueues an entry without blocking the request. If the queue is full
// the entry is dropped and a warning logged.
func (svc *Service) Log(entry Entry) {
	if svc.db == nil {
		return
	}
	detailJSON, _ := json.Marshal(entry.Detail)
	record := &model.AuditLog{
		TraceID:    entry.TraceID,
		UserID:     entry.UserID,
		Role:       entry.Role,
		Action:     entry.Action,
		TargetID:   entry.TargetID,
		Detail:     datatypes.JSON(detailJSON),
		Error:      entry.Error,
		IP:         entry.IP,
		DurationMs: entry.DurationMs,
	}
	select {
	case svc.queue <- record:
	default:
		svc.logger.Warn("audit queue full, entry dropped",
			zap.String("action", entry.Action))
	}
}

// Recent returns trail entries matching the query, newest first.
func (svc *Service) Recent(q Query) ([]model.AuditLog, error) {
	if svc.db == nil {
		return nil, nil
	}
	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	tx := svc.db.Model(&model.AuditLog{}).Order("id DESC").Limit(limit).Offset(q.Offset)
	if q.UserID != "" {
		tx = tx.Where("user_id = ?", q.UserID)
	}
	if q.Action != "" {
		tx = tx.Where("action = ?", q.Action)
	}
	var logs []model.AuditLog
	if err := tx.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Stop flushes what is queued and waits for the writer to exit. Safe to
// call more than once.
func (svc *Service) Stop(_ context.Context) {
	if svc.db == nil {
		return
	}
	select {
	case <-svc.closing:
	default:
		close(svc.closing)
	}
	svc.wg.Wait()
}

func (svc *Service) writer() {
	defer svc.wg.Done()

	pending := make([]*model.AuditLog, 0, batchMax)
	write := func() {
		if len(pending) == 0 {
			return
		}
		if err := svc.db.Create(&pending).Error; err != nil {
			svc.logger.Error("audit write failed",
				zap.Int("entries", len(pending)), zap.Error(err))
		}
		pending = pending[:0]
	}

	tk := time.NewTicker(flushInterval)
	defer tk.Stop()
	for {
		select {
		case rec := <-svc.queue:
			if pending = append(pending, rec); len(pending) >= batchMax {
				write()
			}
		case <-tk.C:
			write()
		case <-svc.closing:
			for {
				select {
				case rec := <-svc.queue:
					pending = append(pending, rec)
				default:
					write()
					return
				}
			}
		}
	}
}
