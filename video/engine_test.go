package video

import (
	"testing"
	"time"

	"github.com/socialshowcase/backend/model"
	"github.com/socialshowcase/backend/store"
	"github.com/socialshowcase/backend/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	st := store.New(memory.New())
	require.NoError(t, st.Init())
	require.NoError(t, st.Update(func(snap *model.Snapshot) error {
		snap.Files = append(snap.Files, model.FileRecord{
			ID:   "f1",
			Name: "clip.mp4",
			Mime: "video/mp4",
		})
		return nil
	}))
	return NewEngine(st, nil, time.Millisecond, zap.NewNop()), st
}

func TestSubmitUnknownFile(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Submit("nope")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestStatusUnknownJob(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Status("nope")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobRunsToCompletion(t *testing.T) {
	e, _ := newTestEngine(t)
	id, err := e.Submit("f1")
	require.NoError(t, err)
	e.Wait()

	job, err := e.Status(id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, job.Status)
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.Result)
	assert.Equal(t, "/files/f1", job.Result.PlayURLMP4)
	assert.Empty(t, job.Error)
}

func TestProgressNeverDecreases(t *testing.T) {
	e, _ := newTestEngine(t)
	id, err := e.Submit("f1")
	require.NoError(t, err)

	last := 0
	deadline := time.After(5 * time.Second)
	for {
		job, err := e.Status(id)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, job.Progress, last)
		last = job.Progress
		if job.Status.Terminal() {
			break
		}
		select {
		case <-deadline:
			t.Fatal("job did not finish")
		default:
		}
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, 100, last)
}

func TestPruneTerminalJobs(t *testing.T) {
	e, st := newTestEngine(t)
	id, err := e.Submit("f1")
	require.NoError(t, err)
	e.Wait()

	require.NoError(t, st.Update(func(snap *model.Snapshot) error {
		for i := range snap.VideoJobs {
			snap.VideoJobs[i].UpdatedAt = time.Now().Add(-2 * time.Hour)
		}
		return nil
	}))
	require.NoError(t, e.PruneTerminal(time.Hour))
	_, err = e.Status(id)
	assert.ErrorIs(t, err, ErrJobNotFound)
}
