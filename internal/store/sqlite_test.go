package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/foresight-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleJob(id string, status model.JobStatus) *model.Job {
	now := time.Now().UTC().Truncate(time.Second)
	return &model.Job{
		ID:       id,
		Status:   status,
		Progress: 0.5,
		Input: model.JobInput{
			Text:     "Solar adoption doubled last year.",
			FileName: "report.pdf",
			Extraction: &model.ExtractionMeta{
				Extractor: "pdftotext",
				Chars:     33,
				Pages:     2,
			},
		},
		Chunks: []model.Chunk{{Index: 0, ID: "c1-abcd1234", Text: "Solar adoption doubled last year."}},
		Outputs: model.Outputs{
			Classifier: &model.DocumentProfile{
				DocumentType:    "policy report",
				Domain:          "energy",
				Horizon:         "mid-term",
				AnalyticalLevel: "analytical",
			},
			Coverage: []model.CoverageEntry{{Module: "trends", Status: model.ModuleActive}},
			Evidence: []model.EvidenceItem{{
				ID:      "ev-1-1",
				Kind:    model.EvidenceClaim,
				ChunkID: "c1-abcd1234",
				Snippet: "Solar adoption doubled last year",
				Content: "Solar adoption doubled last year",
			}},
			Trends: []model.Trend{{
				ID:          "tr-1",
				Label:       "solar adoption",
				Category:    model.TrendMega,
				EvidenceIDs: []string{"ev-1-1"},
				LabelType:   model.LabelInference,
				Confidence:  0.58,
			}},
		},
		Clarifications: model.Clarifications{
			Questions: []model.ClarificationQuestion{{ID: "q-scenarios", Module: "scenarios", Question: "What futures do you expect?"}},
			Answers:   []model.ClarificationAnswer{{QuestionID: "q-scenarios", Answer: "Several."}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSQLite_RoundTripNestedOutputs(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	job := sampleJob("job-1", model.JobStatusRunning)
	require.NoError(t, s.PersistJob(ctx, job))

	got, err := s.LoadJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, job.Status, got.Status)
	assert.Equal(t, job.Outputs, got.Outputs)
	assert.Equal(t, job.Clarifications, got.Clarifications)
	assert.Equal(t, job.Input.Extraction, got.Input.Extraction)
}

func TestSQLite_PersistIsUpsert(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	job := sampleJob("job-1", model.JobStatusRunning)
	require.NoError(t, s.PersistJob(ctx, job))

	job.Status = model.JobStatusSucceeded
	job.Progress = 1
	require.NoError(t, s.PersistJob(ctx, job))

	got, err := s.LoadJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusSucceeded, got.Status)
	assert.InDelta(t, 1.0, got.Progress, 1e-9)

	jobs, err := s.ListJobs(ctx, JobFilter{})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestSQLite_LoadMissing(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.LoadJob(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_ListFiltersByStatus(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.PersistJob(ctx, sampleJob("job-1", model.JobStatusSucceeded)))
	require.NoError(t, s.PersistJob(ctx, sampleJob("job-2", model.JobStatusFailed)))
	require.NoError(t, s.PersistJob(ctx, sampleJob("job-3", model.JobStatusSucceeded)))

	succeeded, err := s.ListJobs(ctx, JobFilter{Status: model.JobStatusSucceeded})
	require.NoError(t, err)
	assert.Len(t, succeeded, 2)

	limited, err := s.ListJobs(ctx, JobFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
