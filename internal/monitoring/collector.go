// Package monitoring derives operational metrics from the job store.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/foresight-cli/internal/model"
	"github.com/sells-group/foresight-cli/internal/store"
)

// MetricsSnapshot holds a point-in-time view of job health.
type MetricsSnapshot struct {
	JobsTotal     int     `json:"jobs_total"`
	JobsQueued    int     `json:"jobs_queued"`
	JobsRunning   int     `json:"jobs_running"`
	JobsSucceeded int     `json:"jobs_succeeded"`
	JobsFailed    int     `json:"jobs_failed"`
	FailRate      float64 `json:"fail_rate"`

	// OfflineRuns counts jobs analysed without a model (demo mode).
	OfflineRuns int `json:"offline_runs"`
	// LowExtractions counts jobs whose source extraction was flagged low
	// quality.
	LowExtractions int `json:"low_extractions"`

	LookbackHours int       `json:"lookback_hours"`
	CollectedAt   time.Time `json:"collected_at"`
}

// Collector gathers metrics from the store.
type Collector struct {
	store store.Store
}

// NewCollector creates a metrics collector.
func NewCollector(st store.Store) *Collector {
	return &Collector{store: st}
}

// Collect gathers a snapshot over the given lookback window. A lookback of 0
// means all jobs.
func (c *Collector) Collect(ctx context.Context, lookbackHours int) (*MetricsSnapshot, error) {
	snap := &MetricsSnapshot{
		LookbackHours: lookbackHours,
		CollectedAt:   time.Now().UTC(),
	}

	jobs, err := c.store.ListJobs(ctx, store.JobFilter{Limit: 10000})
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list jobs")
	}

	var cutoff time.Time
	if lookbackHours > 0 {
		cutoff = time.Now().UTC().Add(-time.Duration(lookbackHours) * time.Hour)
	}

	for _, job := range jobs {
		if !cutoff.IsZero() && job.CreatedAt.Before(cutoff) {
			continue
		}
		snap.JobsTotal++

		switch job.Status {
		case model.JobStatusQueued:
			snap.JobsQueued++
		case model.JobStatusRunning:
			snap.JobsRunning++
		case model.JobStatusSucceeded:
			snap.JobsSucceeded++
		case model.JobStatusFailed:
			snap.JobsFailed++
		}

		if job.DemoMode {
			snap.OfflineRuns++
		}
		if job.Report != nil && job.Report.Dashboard.ExtractionQuality.Status == "low" {
			snap.LowExtractions++
		}
	}

	finished := snap.JobsSucceeded + snap.JobsFailed
	if finished > 0 {
		snap.FailRate = float64(snap.JobsFailed) / float64(finished)
	}
	return snap, nil
}
