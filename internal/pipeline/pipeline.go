// Package pipeline runs a document through the eight-stage foresight
// derivation: chunking, classification, coverage, clarifications, evidence
// extraction, derivation engines, critic review, and scenario synthesis plus
// report composition. Every model-backed stage degrades to a deterministic
// fallback, so the pipeline as a whole fails only on unusable input.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/foresight-cli/internal/chunk"
	"github.com/sells-group/foresight-cli/internal/llm"
	"github.com/sells-group/foresight-cli/internal/model"
)

// ErrEmptyInput is returned when a job carries no usable text.
var ErrEmptyInput = eris.New("pipeline: job has no usable text")

// totalSteps is the number of progress increments; progress is capped below 1
// so only a terminal state can report completion.
const (
	totalSteps  = 8
	maxProgress = 0.98
)

// Persister receives a job snapshot after every stage. Persist failures are
// logged and swallowed: losing a snapshot must not fail the run.
type Persister interface {
	PersistJob(ctx context.Context, job *model.Job) error
}

// Pipeline orchestrates the stages over one job at a time.
type Pipeline struct {
	engine    *llm.Engine
	persister Persister
	chunkSize int
}

// Option tunes a Pipeline.
type Option func(*Pipeline)

// WithChunkSize overrides the chunk window size.
func WithChunkSize(size int) Option {
	return func(p *Pipeline) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithPersister installs the per-stage snapshot sink.
func WithPersister(s Persister) Option {
	return func(p *Pipeline) { p.persister = s }
}

// New builds a Pipeline around the given engine.
func New(engine *llm.Engine, opts ...Option) *Pipeline {
	p := &Pipeline{
		engine:    engine,
		chunkSize: chunk.DefaultSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes all stages on the job in place. On success the job holds a
// composed report and progress maxProgress; the caller owns the transition to
// a terminal status. On error the job's outputs reflect the stages that
// completed.
func (p *Pipeline) Run(ctx context.Context, job *model.Job) error {
	text := job.Input.Text
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}

	cleaned := chunk.Normalize(text)

	// Stage 0: chunking.
	chunks, err := runStage(job.ID, "chunk", func() ([]model.Chunk, error) {
		out := chunk.Split(cleaned, p.chunkSize)
		if len(out) == 0 {
			return nil, ErrEmptyInput
		}
		return out, nil
	})
	if err != nil {
		return err
	}
	job.Chunks = chunks
	p.bump(ctx, job, 1)

	// Stage 1: document classification.
	profile, _ := runStage(job.ID, "classify", func() (model.DocumentProfile, error) {
		return classifyStage(ctx, p.engine, cleaned), nil
	})
	job.Outputs.Classifier = &profile
	p.bump(ctx, job, 2)

	// Stage 2: coverage assessment.
	coverage, _ := runStage(job.ID, "coverage", func() ([]model.CoverageEntry, error) {
		return coverageStage(ctx, p.engine, cleaned), nil
	})
	job.Outputs.Coverage = coverage
	p.bump(ctx, job, 3)

	// Stage 3: clarification questions. Earlier answers stay attached to the
	// job; only the question list is refreshed.
	questions, _ := runStage(job.ID, "clarify", func() ([]model.ClarificationQuestion, error) {
		return clarifyStage(ctx, p.engine, coverage), nil
	})
	job.Outputs.Clarifications = questions
	job.Clarifications.Questions = questions
	p.bump(ctx, job, 4)

	// Stage 4: evidence extraction and sanitization.
	evidence, err := runStage(job.ID, "evidence", func() ([]model.EvidenceItem, error) {
		raw := evidenceStage(ctx, p.engine, chunks)
		res := SanitizeEvidence(raw, chunks)
		job.Outputs.EvidenceSanitizerNotes = res.Notes
		switch res.Status {
		case SanitizeFatal:
			return nil, res.Err
		case SanitizeFellBack:
			zap.L().Warn("no evidence survived sanitization, using generated evidence",
				zap.String("job_id", job.ID))
			return fallbackEvidence(chunks), nil
		default:
			return res.Items, nil
		}
	})
	if err != nil {
		return err
	}
	job.Outputs.Evidence = evidence
	p.bump(ctx, job, 5)

	// Stage 5: derivation engines, sequential so each sees a settled
	// evidence list and the run stays within one model-call budget.
	trends, _ := runStage(job.ID, "trends", func() ([]model.Trend, error) {
		return trendsStage(ctx, p.engine, evidence, coverage, profile), nil
	})
	signals, _ := runStage(job.ID, "weak_signals", func() ([]model.WeakSignal, error) {
		return weakSignalsStage(ctx, p.engine, evidence, coverage), nil
	})
	uncertainties, _ := runStage(job.ID, "uncertainties", func() ([]model.CriticalUncertainty, error) {
		return uncertaintiesStage(ctx, p.engine, evidence, coverage), nil
	})
	job.Outputs.Trends = trends
	job.Outputs.WeakSignals = signals
	job.Outputs.CriticalUncertainties = uncertainties
	p.bump(ctx, job, 6)

	// Stage 6: critic review.
	critic, _ := runStage(job.ID, "critic", func() (model.CriticOutput, error) {
		out := criticStage(ctx, p.engine, trends, signals, uncertainties)
		applyCriticLabels(out, trends, signals, uncertainties)
		return out, nil
	})
	job.Outputs.Critic = &critic
	p.bump(ctx, job, 7)

	// Stage 7: scenario synthesis. Stage 8: report composition.
	scenarios, _ := runStage(job.ID, "scenarios", func() ([]model.Scenario, error) {
		return scenariosStage(ctx, p.engine, uncertainties, profile), nil
	})
	job.Outputs.Scenarios = scenarios

	report, _ := runStage(job.ID, "compose", func() (*model.Report, error) {
		return composeReport(job), nil
	})
	job.Outputs.Report = report
	job.Report = report
	p.bump(ctx, job, 8)

	return nil
}

// bump advances progress monotonically, capped below 1, and persists a
// snapshot.
func (p *Pipeline) bump(ctx context.Context, job *model.Job, step int) {
	progress := float64(step) / totalSteps
	if progress > maxProgress {
		progress = maxProgress
	}
	if progress > job.Progress {
		job.Progress = progress
	}
	job.UpdatedAt = time.Now().UTC()

	if p.persister == nil {
		return
	}
	if err := p.persister.PersistJob(ctx, job); err != nil {
		zap.L().Warn("persisting job snapshot failed",
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
	}
}
