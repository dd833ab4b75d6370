package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/sells-group/foresight-cli/internal/model"
)

// MemoryStore is an in-process Store for tests and one-shot CLI runs. Jobs
// round-trip through JSON so it behaves like the durable backends.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string][]byte
}

// NewMemory creates an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{jobs: make(map[string][]byte)}
}

func (s *MemoryStore) Migrate(context.Context) error { return nil }
func (s *MemoryStore) Close() error                  { return nil }

func (s *MemoryStore) PersistJob(_ context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return eris.Wrapf(err, "memory: marshal job %s", job.ID)
	}
	s.mu.Lock()
	s.jobs[job.ID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LoadJob(_ context.Context, id string) (*model.Job, error) {
	s.mu.RLock()
	data, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, eris.Wrapf(err, "memory: unmarshal job %s", id)
	}
	return &job, nil
}

func (s *MemoryStore) ListJobs(_ context.Context, filter JobFilter) ([]model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var jobs []model.Job
	for _, data := range s.jobs {
		var job model.Job
		if err := json.Unmarshal(data, &job); err != nil {
			return nil, eris.Wrap(err, "memory: unmarshal job")
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		jobs = append(jobs, job)
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(jobs) {
			return nil, nil
		}
		jobs = jobs[filter.Offset:]
	}
	if filter.Limit > 0 && len(jobs) > filter.Limit {
		jobs = jobs[:filter.Limit]
	}
	return jobs, nil
}
