package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"freightengine/internal/domain"
	"freightengine/pkg/apperror"
)

// PostgresResultStore is a Postgres-backed implementation of
// internal/result.Store: a write-once record of optimization results.
type PostgresResultStore struct {
	db DB
}

// NewPostgresResultStore constructs a result store against db.
func NewPostgresResultStore(db DB) *PostgresResultStore {
	return &PostgresResultStore{db: db}
}

func (s *PostgresResultStore) Create(ctx context.Context, r domain.OptimizationResult) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO results (id, job_id, kind, payload) VALUES ($1, $2, $3, $4)`,
		r.ID, r.JobID, r.Kind, payload,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ErrResultAlreadyExists
		}
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *PostgresResultStore) Get(ctx context.Context, id string) (domain.OptimizationResult, error) {
	return s.scanOne(s.db.QueryRow(ctx, `SELECT payload FROM results WHERE id = $1`, id))
}

func (s *PostgresResultStore) GetByJobID(ctx context.Context, jobID string) (domain.OptimizationResult, error) {
	return s.scanOne(s.db.QueryRow(ctx, `SELECT payload FROM results WHERE job_id = $1`, jobID))
}

func (s *PostgresResultStore) scanOne(row pgx.Row) (domain.OptimizationResult, error) {
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if err == pgx.ErrNoRows {
			return domain.OptimizationResult{}, apperror.ErrResultNotFound
		}
		return domain.OptimizationResult{}, fmt.Errorf("scan result: %w", err)
	}

	var r domain.OptimizationResult
	if err := json.Unmarshal(payload, &r); err != nil {
		return domain.OptimizationResult{}, fmt.Errorf("unmarshal result: %w", err)
	}
	return r, nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
