package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/foresight-cli/internal/model"
)

func newMockPostgres(t *testing.T) (pgxmock.PgxPoolIface, *PostgresStore) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresWithPool(mock)
}

func TestPostgres_PersistJob(t *testing.T) {
	mock, s := newMockPostgres(t)

	job := sampleJob("job-1", model.JobStatusRunning)
	mock.ExpectExec(`INSERT INTO jobs`).
		WithArgs(job.ID, string(job.Status), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.PersistJob(context.Background(), job))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_LoadJob(t *testing.T) {
	mock, s := newMockPostgres(t)

	job := sampleJob("job-1", model.JobStatusSucceeded)
	data, err := json.Marshal(job)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT data FROM jobs WHERE id`).
		WithArgs("job-1").
		WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow(data))

	got, err := s.LoadJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, job.Outputs, got.Outputs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_LoadJobMissing(t *testing.T) {
	mock, s := newMockPostgres(t)

	mock.ExpectQuery(`SELECT data FROM jobs WHERE id`).
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows([]string{"data"}))

	_, err := s.LoadJob(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgres_ListJobsFilter(t *testing.T) {
	mock, s := newMockPostgres(t)

	job := sampleJob("job-1", model.JobStatusFailed)
	data, err := json.Marshal(job)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT data FROM jobs WHERE status = \$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs(string(model.JobStatusFailed), 5).
		WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow(data))

	jobs, err := s.ListJobs(context.Background(), JobFilter{Status: model.JobStatusFailed, Limit: 5})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "job-1", jobs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
