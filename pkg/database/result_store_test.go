package database

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightengine/internal/domain"
	"freightengine/pkg/apperror"
)

func setupResultStoreMock(t *testing.T) (pgxmock.PgxPoolIface, *PostgresResultStore) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return mock, NewPostgresResultStore(&pgxMockAdapter{mock: mock})
}

func sampleOptimizationResult() domain.OptimizationResult {
	return domain.OptimizationResult{
		ID:    "res-1",
		JobID: "job-1",
		Kind:  domain.JobNetworkOptimization,
		LoadMatches: []domain.LoadMatch{
			{DriverID: "d1", LoadID: "l1", Score: 0.9},
		},
	}
}

func TestPostgresResultStore_Create(t *testing.T) {
	mock, store := setupResultStoreMock(t)
	defer mock.Close()

	r := sampleOptimizationResult()
	mock.ExpectExec(`INSERT INTO results`).
		WithArgs(r.ID, r.JobID, r.Kind, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := store.Create(context.Background(), r)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresResultStore_Create_DuplicateIsAlreadyExists(t *testing.T) {
	mock, store := setupResultStoreMock(t)
	defer mock.Close()

	r := sampleOptimizationResult()
	mock.ExpectExec(`INSERT INTO results`).
		WithArgs(r.ID, r.JobID, r.Kind, pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := store.Create(context.Background(), r)
	assert.ErrorIs(t, err, apperror.ErrResultAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresResultStore_GetByJobID_NotFound(t *testing.T) {
	mock, store := setupResultStoreMock(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT payload FROM results WHERE job_id = \$1`).
		WithArgs("missing-job").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}))

	_, err := store.GetByJobID(context.Background(), "missing-job")
	assert.ErrorIs(t, err, apperror.ErrResultNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresResultStore_Get_Found(t *testing.T) {
	mock, store := setupResultStoreMock(t)
	defer mock.Close()

	payload := []byte(`{"ID":"res-1","JobID":"job-1","Kind":"NETWORK_OPTIMIZATION"}`)
	mock.ExpectQuery(`SELECT payload FROM results WHERE id = \$1`).
		WithArgs("res-1").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(payload))

	got, err := store.Get(context.Background(), "res-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", got.JobID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
