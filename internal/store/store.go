// Package store persists analysis jobs. Jobs are stored as a single JSON
// document per row: the pipeline mutates the job as a whole and reads it back
// as a whole, so there is nothing to gain from relational decomposition.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/foresight-cli/internal/config"
	"github.com/sells-group/foresight-cli/internal/model"
)

// ErrNotFound is returned when a job id does not exist.
var ErrNotFound = eris.New("store: job not found")

// JobFilter specifies criteria for listing jobs.
type JobFilter struct {
	Status model.JobStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for analysis jobs. PersistJob is an
// upsert; between stages it is the sole source of truth for a job's state.
type Store interface {
	PersistJob(ctx context.Context, job *model.Job) error
	LoadJob(ctx context.Context, id string) (*model.Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]model.Job, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs the store selected by configuration.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
