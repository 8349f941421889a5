package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. Declared as an
// interface so tests can substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// preparedStatements lists queries to prepare on each new connection for
// the most frequent store operations.
var preparedStatements = map[string]string{
	"insert_run":   `INSERT INTO runs (id, mode, status, input_path, started_at) VALUES ($1, $2, $3, $4, $5)`,
	"complete_run": `UPDATE runs SET status = $1, output_path = $2, counts = $3, usage = $4, failed_batches = $5, finished_at = $6 WHERE id = $7`,
	"fail_run":     `UPDATE runs SET status = $1, error = $2, finished_at = $3 WHERE id = $4`,
	"get_run":      `SELECT id, mode, status, input_path, output_path, counts, usage, failed_batches, error, started_at, finished_at FROM runs WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	mode           TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'running',
	input_path     TEXT NOT NULL,
	output_path    TEXT,
	counts         JSONB,
	usage          JSONB,
	failed_batches JSONB,
	error          TEXT,
	started_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	finished_at    TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) CreateRun(ctx context.Context, run *model.RunRecord) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.Status = model.RunStatusRunning

	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, mode, status, input_path, started_at) VALUES ($1, $2, $3, $4, $5)`,
		run.ID, string(run.Mode), string(run.Status), run.InputPath, run.StartedAt,
	)
	return eris.Wrap(err, "postgres: insert run")
}

func (s *PostgresStore) CompleteRun(ctx context.Context, run *model.RunRecord) error {
	countsJSON, usageJSON, failedJSON, err := marshalRunPayloads(run)
	if err != nil {
		return err
	}

	run.Status = model.RunStatusCompleted
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, output_path = $2, counts = $3, usage = $4, failed_batches = $5, finished_at = $6 WHERE id = $7`,
		string(run.Status), run.OutputPath, countsJSON, usageJSON, failedJSON, run.FinishedAt, run.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", run.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", run.ID)
	}
	return nil
}

func (s *PostgresStore) FailRun(ctx context.Context, runID, errMsg string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, error = $2, finished_at = $3 WHERE id = $4`,
		string(model.RunStatusFailed), errMsg, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: fail run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.RunRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, mode, status, input_path, output_path, counts, usage, failed_batches, error, started_at, finished_at
		 FROM runs WHERE id = $1`,
		runID,
	)
	r, err := scanPgRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("run not found: %s", runID)
		}
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, mode, status, input_path, output_path, counts, usage, failed_batches, error, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.RunRecord
	for rows.Next() {
		r, err := scanPgRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func scanPgRun(row pgx.Row) (*model.RunRecord, error) {
	var r model.RunRecord
	var outputPath, errMsg *string
	var counts, usage, failed []byte
	var finishedAt *time.Time

	err := row.Scan(&r.ID, &r.Mode, &r.Status, &r.InputPath, &outputPath,
		&counts, &usage, &failed, &errMsg, &r.StartedAt, &finishedAt)
	if err != nil {
		return nil, err
	}

	if outputPath != nil {
		r.OutputPath = *outputPath
	}
	if errMsg != nil {
		r.Error = *errMsg
	}
	if finishedAt != nil {
		r.FinishedAt = *finishedAt
	}
	if len(counts) > 0 {
		if err := json.Unmarshal(counts, &r.Counts); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal counts")
		}
	}
	if len(usage) > 0 {
		if err := json.Unmarshal(usage, &r.Usage); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal usage")
		}
	}
	if len(failed) > 0 && string(failed) != "null" {
		if err := json.Unmarshal(failed, &r.FailedBatches); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal failed batches")
		}
	}
	return &r, nil
}
