// Package jobs owns the job lifecycle: submission, background pipeline runs,
// clarification resubmission, and status reads. A per-job-id lock guarantees
// at most one concurrent run per job; duplicate submissions are ignored, not
// queued.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/foresight-cli/internal/chunk"
	"github.com/sells-group/foresight-cli/internal/extract"
	"github.com/sells-group/foresight-cli/internal/model"
	"github.com/sells-group/foresight-cli/internal/pipeline"
	"github.com/sells-group/foresight-cli/internal/store"
)

// failureMessage shown for errors that must not leak internals.
const genericFailure = "internal error during analysis"

// SubmitRequest carries raw text or file bytes for a new job.
type SubmitRequest struct {
	Text      string
	FileName  string
	FileBytes []byte
	DemoMode  bool
}

// Manager coordinates job submission and execution.
type Manager struct {
	store     store.Store
	pipe      *pipeline.Pipeline
	extractor *extract.Service
	locks     *KeyLock
	wg        sync.WaitGroup
}

// NewManager wires the manager's collaborators.
func NewManager(st store.Store, pipe *pipeline.Pipeline, extractor *extract.Service) *Manager {
	return &Manager{
		store:     st,
		pipe:      pipe,
		extractor: extractor,
		locks:     NewKeyLock(),
	}
}

// Submit creates a job from raw text or an uploaded file, persists it, and
// starts its pipeline run in the background. Input errors fail fast without
// creating a job.
func (m *Manager) Submit(ctx context.Context, req SubmitRequest) (*model.Job, error) {
	input, err := m.resolveInput(ctx, req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &model.Job{
		ID:        uuid.NewString(),
		Status:    model.JobStatusQueued,
		Input:     input,
		DemoMode:  req.DemoMode,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.PersistJob(ctx, job); err != nil {
		return nil, eris.Wrapf(err, "jobs: persist new job %s", job.ID)
	}

	// The background run mutates job; hand the caller a snapshot.
	snapshot := *job
	m.launch(job)
	return &snapshot, nil
}

func (m *Manager) resolveInput(ctx context.Context, req SubmitRequest) (model.JobInput, error) {
	if strings.TrimSpace(req.Text) != "" {
		return model.JobInput{Text: chunk.Preprocess(req.Text)}, nil
	}
	if len(req.FileBytes) == 0 {
		return model.JobInput{}, extract.ErrNoInput
	}

	text, meta, err := m.extractor.Extract(ctx, req.FileBytes, req.FileName)
	if err != nil {
		return model.JobInput{}, err
	}
	return model.JobInput{
		Text:       chunk.Preprocess(text),
		FileName:   req.FileName,
		Extraction: &meta,
	}, nil
}

// SubmitClarifications records answers on the job and reruns the pipeline
// over the enriched input. If a run for this job is already in flight, the
// submission is ignored and the stored job returned unchanged.
func (m *Manager) SubmitClarifications(ctx context.Context, jobID string, answers []model.ClarificationAnswer) (*model.Job, error) {
	job, err := m.store.LoadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	// Take the run lock before touching stored state so an in-flight run is
	// never clobbered by a resubmission.
	if !m.locks.TryLock(jobID) {
		zap.L().Info("clarification submission ignored, run in flight", zap.String("job_id", jobID))
		return job, nil
	}

	job.Clarifications.Answers = append(job.Clarifications.Answers, answers...)
	job.Input.Text = appendAnswers(job.Input.Text, answers)

	// Reset derived state for the rerun; the question/answer history stays.
	job.Status = model.JobStatusQueued
	job.Progress = 0
	job.Outputs = model.Outputs{}
	job.Report = nil
	job.Error = ""
	job.UpdatedAt = time.Now().UTC()

	if err := m.store.PersistJob(ctx, job); err != nil {
		m.locks.Unlock(jobID)
		return nil, eris.Wrapf(err, "jobs: persist clarified job %s", jobID)
	}

	snapshot := *job
	m.spawn(job)
	return &snapshot, nil
}

// appendAnswers folds clarification answers into the analysis input so every
// stage sees them as part of the document.
func appendAnswers(text string, answers []model.ClarificationAnswer) string {
	var sb strings.Builder
	sb.WriteString(text)
	for _, a := range answers {
		if strings.TrimSpace(a.Answer) == "" {
			continue
		}
		fmt.Fprintf(&sb, "\nAnswer to %s: %s", a.QuestionID, a.Answer)
	}
	return sb.String()
}

// launch starts the pipeline run in the background if no run holds the job's
// lock. A refused lock is logged and dropped.
func (m *Manager) launch(job *model.Job) {
	if !m.locks.TryLock(job.ID) {
		zap.L().Warn("duplicate run suppressed", zap.String("job_id", job.ID))
		return
	}
	m.spawn(job)
}

// spawn runs the job in the background; the caller must hold the job's lock.
func (m *Manager) spawn(job *model.Job) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.locks.Unlock(job.ID)
		m.run(job)
	}()
}

// run executes the pipeline to a terminal state. Runs are not cancellable
// once started, so they use a background context.
func (m *Manager) run(job *model.Job) {
	ctx := context.Background()

	job.Status = model.JobStatusRunning
	job.UpdatedAt = time.Now().UTC()
	if err := m.store.PersistJob(ctx, job); err != nil {
		zap.L().Warn("persisting running status failed", zap.String("job_id", job.ID), zap.Error(err))
	}

	err := m.pipe.Run(ctx, job)

	if err != nil {
		job.Status = model.JobStatusFailed
		job.Error = failureMessage(err)
		zap.L().Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
	} else {
		job.Status = model.JobStatusSucceeded
		zap.L().Info("job succeeded", zap.String("job_id", job.ID))
	}
	job.Progress = 1
	job.UpdatedAt = time.Now().UTC()

	if perr := m.store.PersistJob(ctx, job); perr != nil {
		zap.L().Error("persisting terminal state failed", zap.String("job_id", job.ID), zap.Error(perr))
	}
}

// failureMessage maps classified errors to user-facing text; anything else
// stays internal.
func failureMessage(err error) string {
	if eris.Is(err, pipeline.ErrEmptyInput) ||
		extract.IsInputError(err) ||
		extract.IsIntegrityError(err) {
		return err.Error()
	}
	return genericFailure
}

// Get returns the stored job state.
func (m *Manager) Get(ctx context.Context, jobID string) (*model.Job, error) {
	return m.store.LoadJob(ctx, jobID)
}

// List returns stored jobs matching the filter.
func (m *Manager) List(ctx context.Context, filter store.JobFilter) ([]model.Job, error) {
	return m.store.ListJobs(ctx, filter)
}

// Await polls the store until the job reaches a terminal state or the
// context expires.
func (m *Manager) Await(ctx context.Context, jobID string, poll time.Duration) (*model.Job, error) {
	if poll <= 0 {
		poll = 200 * time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		job, err := m.store.LoadJob(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if job.Status.Terminal() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return job, eris.Wrapf(ctx.Err(), "jobs: awaiting %s", jobID)
		case <-ticker.C:
		}
	}
}

// Wait blocks until every background run has finished. Used on shutdown.
func (m *Manager) Wait() {
	m.wg.Wait()
}
