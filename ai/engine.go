// Package ai implements the asynchronous AI task engine. Submit persists a
// queued task and returns its id immediately; a spawned worker goroutine is
// the single owner of the task's status transitions
// (queued→processing→success|failed) and persists every one of them.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/socialshowcase/backend/cache"
	"github.com/socialshowcase/backend/events"
	"github.com/socialshowcase/backend/model"
	"github.com/socialshowcase/backend/moderation"
	"github.com/socialshowcase/backend/store"
	"go.uber.org/zap"
)

var (
	ErrNoActions     = errors.New("ai: actions must not be empty")
	ErrUnknownAction = errors.New("ai: unknown action")
	ErrTaskNotFound  = errors.New("ai: task not found")
)

// Engine runs AI tasks.
type Engine struct {
	store  *store.Store
	gen    TextGenerator // nil: local heuristics only
	pubsub cache.PubSub  // nil: no event fan-out
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewEngine creates an Engine. gen and ps may be nil.
func NewEngine(st *store.Store, gen TextGenerator, ps cache.PubSub, logger *zap.Logger) *Engine {
	return &Engine{store: st, gen: gen, pubsub: ps, logger: logger}
}

// Submit validates the request, persists a queued task and schedules its
// background computation. The caller only ever observes the returned id;
// the outcome is visible solely by polling Get.
func (e *Engine) Submit(input model.AITaskInput, actions []model.AIAction) (string, error) {
	if len(actions) == 0 {
		return "", ErrNoActions
	}
	seen := make(map[model.AIAction]struct{}, len(actions))
	deduped := make([]model.AIAction, 0, len(actions))
	for _, a := range actions {
		if !a.Valid() {
			return "", fmt.Errorf("%w: %q", ErrUnknownAction, a)
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		deduped = append(deduped, a)
	}

	now := time.Now()
	task := model.AITask{
		ID:        uuid.New().String(),
		Status:    model.StatusQueued,
		Actions:   deduped,
		Input:     input,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.persist(task); err != nil {
		return "", err
	}

	e.wg.Add(1)
	go e.process(task)

	e.logger.Info("ai task submitted",
		zap.String("id", task.ID),
		zap.Int("actions", len(deduped)))
	return task.ID, nil
}

// Get returns the current task record.
func (e *Engine) Get(id string) (model.AITask, error) {
	var out model.AITask
	found := false
	err := e.store.View(func(snap *model.Snapshot) error {
		for _, t := range snap.AITasks {
			if t.ID == id {
				out = t
				found = true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return model.AITask{}, err
	}
	if !found {
		return model.AITask{}, ErrTaskNotFound
	}
	return out, nil
}

// Wait blocks until all in-flight task workers have finished. Used on
// shutdown and by tests.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// process owns the task from processing to a terminal state. Any failure is
// absorbed into the record; nothing escapes to other operations.
func (e *Engine) process(task model.AITask) {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.fail(task, fmt.Sprintf("panic: %v", r))
		}
	}()

	task.Status = model.StatusProcessing
	if err := e.persist(task); err != nil {
		e.logger.Error("ai task persist failed", zap.String("id", task.ID), zap.Error(err))
		return
	}

	text, words, err := e.resolveInput(task.Input)
	if err != nil {
		e.fail(task, err.Error())
		return
	}

	result := &model.AITaskResult{}
	for _, action := range task.Actions {
		switch action {
		case model.ActionGenTitle:
			result.Title = e.genTitle(text)
		case model.ActionSummarize:
			result.Summary = e.genSummary(text)
		case model.ActionGenTags:
			result.Tags = e.genTags(text)
		case model.ActionSafety:
			r := moderation.Mask(text, words)
			sr := &model.SafetyResult{Allowed: r.Allowed}
			if !r.Allowed {
				sr.Reason = "命中敏感词：" + strings.Join(r.Hits, "、")
			}
			result.Safety = sr
		}
	}

	// All outputs merge in one write; a poller never sees a partial
	// result under status success.
	task.Status = model.StatusSuccess
	task.Result = result
	if err := e.persist(task); err != nil {
		e.logger.Error("ai task persist failed", zap.String("id", task.ID), zap.Error(err))
	}
}

// resolveInput derives the effective text and the current moderation word
// list. A post reference wins over raw text while the post still exists.
func (e *Engine) resolveInput(in model.AITaskInput) (string, []string, error) {
	text := in.Text
	var words []string
	err := e.store.View(func(snap *model.Snapshot) error {
		words = append([]string(nil), snap.SensitiveWords...)
		if in.PostID == "" {
			return nil
		}
		if p := snap.Post(in.PostID); p != nil {
			text = strings.TrimSpace(p.Title + " " + p.Text + " " + strings.Join(p.Tags, " "))
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return text, words, nil
}

func (e *Engine) genTitle(text string) string {
	if e.gen != nil {
		out, err := e.chat("你是一个内容运营助手。",
			"根据以下内容生成一个不超过20个中文字符的标题，只输出标题：\n"+text)
		if err == nil {
			return truncateRunes(strings.TrimSpace(out), titleMaxRunes)
		}
		e.logger.Warn("gen_title external call failed, using local fallback", zap.Error(err))
	}
	return localTitle(text)
}

func (e *Engine) genSummary(text string) string {
	if e.gen != nil {
		out, err := e.chat("你是一个内容助手。",
			"请将以下内容总结为不超过120字的一段话，只输出总结：\n"+text)
		if err == nil {
			return truncateRunes(strings.TrimSpace(out), summaryMaxRunes)
		}
		e.logger.Warn("summarize external call failed, using local fallback", zap.Error(err))
	}
	return localSummary(text)
}

func (e *Engine) genTags(text string) []string {
	if e.gen != nil {
		out, err := e.chat("你是一个内容标签助手。",
			"为以下内容生成 3~5 个中文标签，返回 JSON 数组：\n"+text)
		if err == nil {
			if tags := parseTags(out); len(tags) > 0 {
				return tags
			}
		} else {
			e.logger.Warn("gen_tags external call failed, using local fallback", zap.Error(err))
		}
	}
	return classifyTags(text)
}

func (e *Engine) chat(system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return e.gen.Chat(ctx, system, user)
}

func (e *Engine) fail(task model.AITask, msg string) {
	task.Status = model.StatusFailed
	task.Error = msg
	task.Result = nil
	if err := e.persist(task); err != nil {
		e.logger.Error("ai task persist failed", zap.String("id", task.ID), zap.Error(err))
	}
	e.logger.Warn("ai task failed", zap.String("id", task.ID), zap.String("error", msg))
}

// persist replaces the task record whole and publishes the transition.
func (e *Engine) persist(task model.AITask) error {
	task.UpdatedAt = time.Now()
	err := e.store.Update(func(snap *model.Snapshot) error {
		snap.ReplaceAITask(task)
		return nil
	})
	if err != nil {
		return err
	}
	events.Publish(e.pubsub, e.logger, events.JobEvent{
		Kind:   events.KindAITask,
		ID:     task.ID,
		Status: task.Status,
		Error:  task.Error,
	})
	return nil
}

// PruneTerminal drops terminal tasks whose last update is older than the
// retention window. Non-terminal tasks are never pruned. A zero or negative
// retention disables pruning.
func (e *Engine) PruneTerminal(retention time.Duration) error {
	if retention <= 0 {
		return nil
	}
	cutoff := time.Now().Add(-retention)
	return e.store.Update(func(snap *model.Snapshot) error {
		kept := snap.AITasks[:0]
		for _, t := range snap.AITasks {
			if t.Status.Terminal() && t.UpdatedAt.Before(cutoff) {
				continue
			}
			kept = append(kept, t)
		}
		snap.AITasks = kept
		return nil
	})
}
