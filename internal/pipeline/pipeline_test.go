package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/foresight-cli/internal/llm"
	"github.com/sells-group/foresight-cli/internal/model"
)

func newOfflineEngine() *llm.Engine {
	return llm.NewEngine(nil)
}

type capturePersister struct {
	progress []float64
}

func (c *capturePersister) PersistJob(_ context.Context, job *model.Job) error {
	c.progress = append(c.progress, job.Progress)
	return nil
}

func newTestJob(text string) *model.Job {
	now := time.Now().UTC()
	return &model.Job{
		ID:        "job-test",
		Status:    model.JobStatusRunning,
		Input:     model.JobInput{Text: text},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func longCleanInput() string {
	return strings.Repeat("The regional grid is absorbing new solar capacity at a record pace. ", 30)
}

func TestRun_OfflineLongInput(t *testing.T) {
	sink := &capturePersister{}
	p := New(newOfflineEngine(), WithPersister(sink))
	job := newTestJob(longCleanInput())

	require.NoError(t, p.Run(context.Background(), job))

	require.NotNil(t, job.Report)
	dash := job.Report.Dashboard

	assert.Equal(t, model.ModuleActive, moduleStatus(dash.Coverage, "trends"))
	assert.NotEmpty(t, dash.Trends)
	assert.Equal(t, "ok", dash.ExtractionQuality.Status)
	assert.NotEmpty(t, dash.Evidence)
	assert.NotEmpty(t, job.Outputs.Clarifications)
	assert.NotNil(t, job.Outputs.Critic)
	assert.NotEmpty(t, job.Report.ExecutiveBrief)
	assert.Contains(t, job.Report.FullReport, "# Foresight Report")
}

func TestRun_ProgressMonotonicAndCapped(t *testing.T) {
	sink := &capturePersister{}
	p := New(newOfflineEngine(), WithPersister(sink))
	job := newTestJob(longCleanInput())

	require.NoError(t, p.Run(context.Background(), job))

	require.Len(t, sink.progress, totalSteps)
	prev := 0.0
	for _, prog := range sink.progress {
		assert.GreaterOrEqual(t, prog, prev)
		assert.LessOrEqual(t, prog, maxProgress)
		prev = prog
	}
	assert.InDelta(t, maxProgress, job.Progress, 1e-9)
}

func TestRun_OfflineDeterministic(t *testing.T) {
	p := New(newOfflineEngine())

	first := newTestJob(longCleanInput())
	second := newTestJob(longCleanInput())
	require.NoError(t, p.Run(context.Background(), first))
	require.NoError(t, p.Run(context.Background(), second))

	assert.Equal(t, first.Outputs.Coverage, second.Outputs.Coverage)
	assert.Len(t, second.Outputs.Trends, len(first.Outputs.Trends))
	assert.Len(t, second.Outputs.WeakSignals, len(first.Outputs.WeakSignals))
	assert.Len(t, second.Outputs.CriticalUncertainties, len(first.Outputs.CriticalUncertainties))
	assert.Equal(t, first.Report, second.Report)
}

func TestRun_EmptyInputFails(t *testing.T) {
	p := New(newOfflineEngine())
	job := newTestJob("   \n\t ")

	err := p.Run(context.Background(), job)
	require.ErrorIs(t, err, ErrEmptyInput)
	assert.Nil(t, job.Report)
}

func TestRun_ShortInputReportsInsufficientSections(t *testing.T) {
	p := New(newOfflineEngine())
	job := newTestJob("A single short remark about markets.")

	require.NoError(t, p.Run(context.Background(), job))
	require.NotNil(t, job.Report)
	dash := job.Report.Dashboard

	assert.Equal(t, model.ModuleInactive, moduleStatus(dash.Coverage, "trends"))
	assert.Empty(t, dash.Trends)
	assert.Empty(t, dash.Scenarios)
	assert.Equal(t, "insufficient_data", dash.ScenariosStatus.Status)
	assert.NotEmpty(t, dash.ScenariosStatus.Reason)
}

func TestRun_ScannedSourceLowersExtractionQuality(t *testing.T) {
	p := New(newOfflineEngine())
	job := newTestJob(longCleanInput())
	job.Input.Extraction = &model.ExtractionMeta{
		Extractor:    "ocr",
		Chars:        len(job.Input.Text),
		Pages:        12,
		LooksScanned: true,
	}

	require.NoError(t, p.Run(context.Background(), job))
	assert.Equal(t, "low", job.Report.Dashboard.ExtractionQuality.Status)
	assert.NotEmpty(t, job.Report.Dashboard.ExtractionQuality.Message)
}

func TestRun_EvidenceReferentialIntegrity(t *testing.T) {
	p := New(newOfflineEngine())
	job := newTestJob(longCleanInput())

	require.NoError(t, p.Run(context.Background(), job))

	known := make(map[string]bool)
	for _, ev := range job.Outputs.Evidence {
		known[ev.ID] = true
	}
	for _, tr := range job.Outputs.Trends {
		for _, id := range tr.EvidenceIDs {
			assert.True(t, known[id], "trend %s cites unknown evidence %s", tr.ID, id)
		}
	}
	for _, ws := range job.Outputs.WeakSignals {
		for _, id := range ws.EvidenceIDs {
			assert.True(t, known[id], "signal %s cites unknown evidence %s", ws.ID, id)
		}
	}
	for _, cu := range job.Outputs.CriticalUncertainties {
		for _, id := range cu.EvidenceIDs {
			assert.True(t, known[id], "uncertainty %s cites unknown evidence %s", cu.ID, id)
		}
	}
}

func TestComposeReport_PrunesUnknownEvidenceIDs(t *testing.T) {
	job := newTestJob("text")
	job.Outputs.Classifier = &model.DocumentProfile{DocumentType: "note", Domain: "general", Horizon: "mid-term", AnalyticalLevel: "analytical"}
	job.Outputs.Evidence = []model.EvidenceItem{{ID: "ev-1", Kind: model.EvidenceClaim, ChunkID: "c1", Content: "x"}}
	job.Outputs.Trends = []model.Trend{{ID: "tr-1", Label: "t", Category: model.TrendPlain, EvidenceIDs: []string{"ev-1", "ev-ghost"}}}

	report := composeReport(job)

	require.Len(t, report.Dashboard.Trends, 1)
	assert.Equal(t, []string{"ev-1"}, report.Dashboard.Trends[0].EvidenceIDs)
}
