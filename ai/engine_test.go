package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/socialshowcase/backend/model"
	"github.com/socialshowcase/backend/store"
	"github.com/socialshowcase/backend/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGenerator struct {
	reply string
	err   error
}

func (s *stubGenerator) Chat(_ context.Context, _, _ string) (string, error) {
	return s.reply, s.err
}

func newTestEngine(t *testing.T, gen TextGenerator) (*Engine, *store.Store) {
	t.Helper()
	st := store.New(memory.New())
	require.NoError(t, st.Init())
	require.NoError(t, st.Update(func(snap *model.Snapshot) error {
		snap.SensitiveWords = []string{"赌博"}
		return nil
	}))
	return NewEngine(st, gen, nil, zap.NewNop()), st
}

func TestSubmitValidation(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	_, err := e.Submit(model.AITaskInput{Text: "x"}, nil)
	assert.ErrorIs(t, err, ErrNoActions)

	_, err = e.Submit(model.AITaskInput{Text: "x"}, []model.AIAction{"translate"})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestGetUnknownTask(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	_, err := e.Get("nope")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestLocalTagsScenario(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	id, err := e.Submit(model.AITaskInput{Text: "旅行和美食的日常分享"}, []model.AIAction{model.ActionGenTags})
	require.NoError(t, err)
	e.Wait()

	task, err := e.Get(id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, task.Status)
	require.NotNil(t, task.Result)
	assert.Equal(t, []string{"旅行", "美食", "日常"}, task.Result.Tags)
	assert.Empty(t, task.Error)
}

func TestAllActionsSingleResult(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	id, err := e.Submit(model.AITaskInput{Text: "今天去旅行。吃了很多美食。"},
		[]model.AIAction{model.ActionGenTitle, model.ActionSummarize, model.ActionGenTags, model.ActionSafety})
	require.NoError(t, err)
	e.Wait()

	task, err := e.Get(id)
	require.NoError(t, err)
	require.Equal(t, model.StatusSuccess, task.Status)
	require.NotNil(t, task.Result)
	assert.Equal(t, "今天去旅行", task.Result.Title)
	assert.NotEmpty(t, task.Result.Summary)
	assert.NotEmpty(t, task.Result.Tags)
	require.NotNil(t, task.Result.Safety)
	assert.True(t, task.Result.Safety.Allowed)
}

func TestSafetyHit(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	id, err := e.Submit(model.AITaskInput{Text: "一起赌博"}, []model.AIAction{model.ActionSafety})
	require.NoError(t, err)
	e.Wait()

	task, err := e.Get(id)
	require.NoError(t, err)
	require.Equal(t, model.StatusSuccess, task.Status)
	require.NotNil(t, task.Result.Safety)
	assert.False(t, task.Result.Safety.Allowed)
	assert.Contains(t, task.Result.Safety.Reason, "赌博")
}

func TestExternalFailureFallsBackLocally(t *testing.T) {
	e, _ := newTestEngine(t, &stubGenerator{err: errors.New("upstream down")})

	id, err := e.Submit(model.AITaskInput{Text: "旅行记录"},
		[]model.AIAction{model.ActionGenTitle, model.ActionGenTags})
	require.NoError(t, err)
	e.Wait()

	task, err := e.Get(id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, task.Status)
	assert.Equal(t, "旅行记录", task.Result.Title)
	assert.Equal(t, []string{"旅行"}, task.Result.Tags)
}

func TestExternalGeneratorUsed(t *testing.T) {
	e, _ := newTestEngine(t, &stubGenerator{reply: `["远方","风景"]`})

	id, err := e.Submit(model.AITaskInput{Text: "whatever"}, []model.AIAction{model.ActionGenTags})
	require.NoError(t, err)
	e.Wait()

	task, err := e.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"远方", "风景"}, task.Result.Tags)
}

func TestPostInputResolvedAtProcessingTime(t *testing.T) {
	e, st := newTestEngine(t, nil)
	require.NoError(t, st.Update(func(snap *model.Snapshot) error {
		snap.Posts = append(snap.Posts, model.Post{ID: "p1", Title: "美食之旅", Text: "都是美食", Tags: []string{"旅行"}})
		return nil
	}))

	id, err := e.Submit(model.AITaskInput{PostID: "p1", Text: "ignored"}, []model.AIAction{model.ActionGenTags})
	require.NoError(t, err)
	e.Wait()

	task, err := e.Get(id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"旅行", "美食"}, task.Result.Tags)
}

func TestActionsDeduped(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	id, err := e.Submit(model.AITaskInput{Text: "x"},
		[]model.AIAction{model.ActionGenTags, model.ActionGenTags})
	require.NoError(t, err)
	e.Wait()

	task, err := e.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []model.AIAction{model.ActionGenTags}, task.Actions)
}

func TestPruneTerminal(t *testing.T) {
	e, st := newTestEngine(t, nil)
	id, err := e.Submit(model.AITaskInput{Text: "x"}, []model.AIAction{model.ActionGenTags})
	require.NoError(t, err)
	e.Wait()

	// Fresh terminal tasks survive.
	require.NoError(t, e.PruneTerminal(time.Hour))
	_, err = e.Get(id)
	require.NoError(t, err)

	// Age the record past the window.
	require.NoError(t, st.Update(func(snap *model.Snapshot) error {
		for i := range snap.AITasks {
			snap.AITasks[i].UpdatedAt = time.Now().Add(-2 * time.Hour)
		}
		return nil
	}))
	require.NoError(t, e.PruneTerminal(time.Hour))
	_, err = e.Get(id)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	// Zero retention disables pruning.
	assert.NoError(t, e.PruneTerminal(0))
}

func TestPruneKeepsNonTerminal(t *testing.T) {
	e, st := newTestEngine(t, nil)
	require.NoError(t, st.Update(func(snap *model.Snapshot) error {
		snap.AITasks = append(snap.AITasks, model.AITask{
			ID:        "stuck",
			Status:    model.StatusProcessing,
			UpdatedAt: time.Now().Add(-48 * time.Hour),
		})
		return nil
	}))
	require.NoError(t, e.PruneTerminal(time.Hour))
	_, err := e.Get("stuck")
	assert.NoError(t, err)
}
