// Package video implements the asynchronous transcode job engine. The job
// does no real transcoding; it advances a fixed progress schedule with a
// delay between steps, persisting each step so pollers observe a
// monotonically non-decreasing progress.
package video

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/socialshowcase/backend/cache"
	"github.com/socialshowcase/backend/events"
	"github.com/socialshowcase/backend/model"
	"github.com/socialshowcase/backend/store"
	"go.uber.org/zap"
)

var (
	ErrFileNotFound = errors.New("video: file not found")
	ErrJobNotFound  = errors.New("video: job not found")
)

// progressSchedule is the fixed sequence of persisted progress values.
var progressSchedule = []int{10, 25, 45, 65, 80, 92, 100}

// Engine runs video jobs.
type Engine struct {
	store     *store.Store
	pubsub    cache.PubSub // nil: no event fan-out
	stepDelay time.Duration
	logger    *zap.Logger
	wg        sync.WaitGroup
}

// NewEngine creates an Engine. ps may be nil.
func NewEngine(st *store.Store, ps cache.PubSub, stepDelay time.Duration, logger *zap.Logger) *Engine {
	if stepDelay <= 0 {
		stepDelay = 350 * time.Millisecond
	}
	return &Engine{store: st, pubsub: ps, stepDelay: stepDelay, logger: logger}
}

// Submit persists a queued job for an already-uploaded file and schedules
// the background computation, returning the job id immediately.
func (e *Engine) Submit(fileID string) (string, error) {
	exists := false
	if err := e.store.View(func(snap *model.Snapshot) error {
		exists = snap.File(fileID) != nil
		return nil
	}); err != nil {
		return "", err
	}
	if !exists {
		return "", ErrFileNotFound
	}

	now := time.Now()
	job := model.VideoJob{
		ID:        uuid.New().String(),
		FileID:    fileID,
		Status:    model.StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.persist(job); err != nil {
		return "", err
	}

	e.wg.Add(1)
	go e.process(job)

	e.logger.Info("video job submitted",
		zap.String("id", job.ID), zap.String("file", fileID))
	return job.ID, nil
}

// Status returns the current job record.
func (e *Engine) Status(id string) (model.VideoJob, error) {
	var out model.VideoJob
	found := false
	err := e.store.View(func(snap *model.Snapshot) error {
		for _, j := range snap.VideoJobs {
			if j.ID == id {
				out = j
				found = true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return model.VideoJob{}, err
	}
	if !found {
		return model.VideoJob{}, ErrJobNotFound
	}
	return out, nil
}

// Wait blocks until all in-flight job workers have finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// process owns the job from processing to a terminal state. Every schedule
// step is persisted in order; a failure stops the schedule where it is.
func (e *Engine) process(job model.VideoJob) {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.fail(job, fmt.Sprintf("panic: %v", r))
		}
	}()

	job.Status = model.StatusProcessing
	if err := e.persist(job); err != nil {
		e.logger.Error("video job persist failed", zap.String("id", job.ID), zap.Error(err))
		return
	}

	for _, p := range progressSchedule {
		time.Sleep(e.stepDelay)
		job.Progress = p
		if err := e.persist(job); err != nil {
			e.fail(job, err.Error())
			return
		}
	}

	job.Status = model.StatusSuccess
	job.Result = &model.VideoJobResult{PlayURLMP4: "/files/" + job.FileID}
	if err := e.persist(job); err != nil {
		e.logger.Error("video job persist failed", zap.String("id", job.ID), zap.Error(err))
	}
}

func (e *Engine) fail(job model.VideoJob, msg string) {
	job.Status = model.StatusFailed
	job.Error = msg
	if err := e.persist(job); err != nil {
		e.logger.Error("video job persist failed", zap.String("id", job.ID), zap.Error(err))
	}
	e.logger.Warn("video job failed", zap.String("id", job.ID), zap.String("error", msg))
}

// persist replaces the job record whole and publishes the transition.
func (e *Engine) persist(job model.VideoJob) error {
	job.UpdatedAt = time.Now()
	err := e.store.Update(func(snap *model.Snapshot) error {
		snap.ReplaceVideoJob(job)
		return nil
	})
	if err != nil {
		return err
	}
	events.Publish(e.pubsub, e.logger, events.JobEvent{
		Kind:     events.KindVideoJob,
		ID:       job.ID,
		Status:   job.Status,
		Progress: job.Progress,
		Error:    job.Error,
	})
	return nil
}

// PruneTerminal drops terminal jobs whose last update is older than the
// retention window. Zero or negative retention disables pruning.
func (e *Engine) PruneTerminal(retention time.Duration) error {
	if retention <= 0 {
		return nil
	}
	cutoff := time.Now().Add(-retention)
	return e.store.Update(func(snap *model.Snapshot) error {
		kept := snap.VideoJobs[:0]
		for _, j := range snap.VideoJobs {
			if j.Status.Terminal() && j.UpdatedAt.Before(cutoff) {
				continue
			}
			kept = append(kept, j)
		}
		snap.VideoJobs = kept
		return nil
	})
}
