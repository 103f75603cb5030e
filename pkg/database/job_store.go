package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"freightengine/internal/domain"
	"freightengine/pkg/apperror"
)

// PostgresJobStore is a Postgres-backed implementation of internal/job.Store,
// satisfying the interface structurally so internal/job never needs to
// import this package.
type PostgresJobStore struct {
	db DB
}

// NewPostgresJobStore constructs a job store against db.
func NewPostgresJobStore(db DB) *PostgresJobStore {
	return &PostgresJobStore{db: db}
}

func (s *PostgresJobStore) Create(ctx context.Context, j domain.OptimizationJob) error {
	params, err := json.Marshal(j.Parameters)
	if err != nil {
		return fmt.Errorf("marshal job parameters: %w", err)
	}
	var jobErr []byte
	if j.Error != nil {
		if jobErr, err = json.Marshal(j.Error); err != nil {
			return fmt.Errorf("marshal job error: %w", err)
		}
	}

	query := `
		INSERT INTO jobs (
			id, kind, status, priority, progress, region, parameters,
			result_id, error, created_by,
			created_at, started_at, completed_at, last_progress_at, processing_time_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err = s.db.Exec(ctx, query,
		j.ID, j.Kind, j.Status, j.Priority, j.Progress, j.Parameters.Region, params,
		j.ResultID, jobErr, j.CreatedBy,
		j.CreatedAt, j.StartedAt, j.CompletedAt, j.LastProgressAt, j.ProcessingTimeMs,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (s *PostgresJobStore) Get(ctx context.Context, id string) (domain.OptimizationJob, error) {
	query := `
		SELECT id, kind, status, priority, progress, parameters, result_id, error,
		       created_by, created_at, started_at, completed_at, last_progress_at, processing_time_ms
		FROM jobs WHERE id = $1`
	return s.scanJob(s.db.QueryRow(ctx, query, id))
}

// Update loads the job, applies fn, and writes the full row back. The
// teacher's pkg/database.WithTransaction wraps the read-modify-write so the
// job row is locked for the duration (SELECT ... FOR UPDATE), matching the
// MemoryStore's mutex-held Update semantics under concurrent dispatchers.
func (s *PostgresJobStore) Update(ctx context.Context, id string, fn func(*domain.OptimizationJob)) error {
	return WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			SELECT id, kind, status, priority, progress, parameters, result_id, error,
			       created_by, created_at, started_at, completed_at, last_progress_at, processing_time_ms
			FROM jobs WHERE id = $1 FOR UPDATE`, id)

		j, err := s.scanJob(row)
		if err != nil {
			return err
		}

		fn(&j)

		params, err := json.Marshal(j.Parameters)
		if err != nil {
			return fmt.Errorf("marshal job parameters: %w", err)
		}
		var jobErr []byte
		if j.Error != nil {
			if jobErr, err = json.Marshal(j.Error); err != nil {
				return fmt.Errorf("marshal job error: %w", err)
			}
		}

		_, err = tx.Exec(ctx, `
			UPDATE jobs SET status=$2, priority=$3, progress=$4, region=$5, parameters=$6,
			       result_id=$7, error=$8, started_at=$9, completed_at=$10,
			       last_progress_at=$11, processing_time_ms=$12
			WHERE id=$1`,
			j.ID, j.Status, j.Priority, j.Progress, j.Parameters.Region, params,
			j.ResultID, jobErr, j.StartedAt, j.CompletedAt, j.LastProgressAt, j.ProcessingTimeMs,
		)
		if err != nil {
			return fmt.Errorf("update job: %w", err)
		}
		return nil
	})
}

func (s *PostgresJobStore) ListPending(ctx context.Context) ([]domain.OptimizationJob, error) {
	query := `
		SELECT id, kind, status, priority, progress, parameters, result_id, error,
		       created_by, created_at, started_at, completed_at, last_progress_at, processing_time_ms
		FROM jobs WHERE status = $1 ORDER BY priority DESC, created_at ASC`
	return s.queryJobs(ctx, query, domain.JobPending)
}

func (s *PostgresJobStore) ListByRegionStatus(ctx context.Context, region string, status domain.JobStatus) ([]domain.OptimizationJob, error) {
	query := `
		SELECT id, kind, status, priority, progress, parameters, result_id, error,
		       created_by, created_at, started_at, completed_at, last_progress_at, processing_time_ms
		FROM jobs WHERE region = $1 AND status = $2`
	return s.queryJobs(ctx, query, region, status)
}

func (s *PostgresJobStore) queryJobs(ctx context.Context, query string, args ...any) ([]domain.OptimizationJob, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var out []domain.OptimizationJob
	for rows.Next() {
		j, err := s.scanJobRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresJobStore) scanJob(row pgx.Row) (domain.OptimizationJob, error) {
	j, err := s.scanJobRow(row)
	if err == pgx.ErrNoRows {
		return domain.OptimizationJob{}, apperror.ErrJobNotFound
	}
	return j, err
}

func (s *PostgresJobStore) scanJobRow(row rowScanner) (domain.OptimizationJob, error) {
	var j domain.OptimizationJob
	var params, jobErr []byte

	err := row.Scan(
		&j.ID, &j.Kind, &j.Status, &j.Priority, &j.Progress, &params, &j.ResultID, &jobErr,
		&j.CreatedBy, &j.CreatedAt, &j.StartedAt, &j.CompletedAt, &j.LastProgressAt, &j.ProcessingTimeMs,
	)
	if err != nil {
		return domain.OptimizationJob{}, err
	}

	if len(params) > 0 {
		if err := json.Unmarshal(params, &j.Parameters); err != nil {
			return domain.OptimizationJob{}, fmt.Errorf("unmarshal job parameters: %w", err)
		}
	}
	if len(jobErr) > 0 {
		j.Error = &domain.JobError{}
		if err := json.Unmarshal(jobErr, j.Error); err != nil {
			return domain.OptimizationJob{}, fmt.Errorf("unmarshal job error: %w", err)
		}
	}
	return j, nil
}
