package monitoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/foresight-cli/internal/model"
	"github.com/sells-group/foresight-cli/internal/store"
)

func seedJob(t *testing.T, st store.Store, id string, status model.JobStatus, age time.Duration) {
	t.Helper()
	job := &model.Job{
		ID:        id,
		Status:    status,
		CreatedAt: time.Now().UTC().Add(-age),
	}
	if status == model.JobStatusFailed {
		job.Error = "boom"
	}
	require.NoError(t, st.PersistJob(context.Background(), job))
}

func TestCollect_CountsAndFailRate(t *testing.T) {
	st := store.NewMemory()
	seedJob(t, st, "j1", model.JobStatusSucceeded, time.Hour)
	seedJob(t, st, "j2", model.JobStatusSucceeded, time.Hour)
	seedJob(t, st, "j3", model.JobStatusFailed, time.Hour)
	seedJob(t, st, "j4", model.JobStatusRunning, time.Hour)

	snap, err := NewCollector(st).Collect(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 4, snap.JobsTotal)
	assert.Equal(t, 2, snap.JobsSucceeded)
	assert.Equal(t, 1, snap.JobsFailed)
	assert.Equal(t, 1, snap.JobsRunning)
	assert.InDelta(t, 1.0/3.0, snap.FailRate, 1e-9)
}

func TestCollect_LookbackWindow(t *testing.T) {
	st := store.NewMemory()
	seedJob(t, st, "old", model.JobStatusSucceeded, 48*time.Hour)
	seedJob(t, st, "new", model.JobStatusSucceeded, time.Hour)

	snap, err := NewCollector(st).Collect(context.Background(), 24)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.JobsTotal)
}

func TestCollect_LowExtractionFlag(t *testing.T) {
	st := store.NewMemory()
	job := &model.Job{
		ID:        "scanned",
		Status:    model.JobStatusSucceeded,
		CreatedAt: time.Now().UTC(),
		Report: &model.Report{
			Dashboard: model.Dashboard{
				ExtractionQuality: model.ExtractionQuality{Status: "low", Message: "scanned"},
			},
		},
	}
	require.NoError(t, st.PersistJob(context.Background(), job))

	snap, err := NewCollector(st).Collect(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.LowExtractions)
}
