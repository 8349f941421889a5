package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	mode           TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'running',
	input_path     TEXT NOT NULL,
	output_path    TEXT,
	counts         TEXT,
	usage          TEXT,
	failed_batches TEXT,
	error          TEXT,
	started_at     DATETIME NOT NULL,
	finished_at    DATETIME
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, run *model.RunRecord) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.Status = model.RunStatusRunning

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, mode, status, input_path, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, string(run.Mode), string(run.Status), run.InputPath, run.StartedAt,
	)
	return eris.Wrap(err, "sqlite: insert run")
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, run *model.RunRecord) error {
	countsJSON, usageJSON, failedJSON, err := marshalRunPayloads(run)
	if err != nil {
		return err
	}

	run.Status = model.RunStatusCompleted
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, output_path = ?, counts = ?, usage = ?, failed_batches = ?, finished_at = ? WHERE id = ?`,
		string(run.Status), run.OutputPath, countsJSON, usageJSON, failedJSON, run.FinishedAt, run.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", run.ID)
	}
	return checkRowsAffected(res, "run", run.ID)
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID, errMsg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		string(model.RunStatusFailed), errMsg, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, mode, status, input_path, output_path, counts, usage, failed_batches, error, started_at, finished_at
		 FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, status, input_path, output_path, counts, usage, failed_batches, error, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

// helpers

func marshalRunPayloads(run *model.RunRecord) (counts, usage, failed string, err error) {
	countsJSON, err := json.Marshal(run.Counts)
	if err != nil {
		return "", "", "", eris.Wrap(err, "store: marshal counts")
	}
	usageJSON, err := json.Marshal(run.Usage)
	if err != nil {
		return "", "", "", eris.Wrap(err, "store: marshal usage")
	}
	failedJSON, err := json.Marshal(run.FailedBatches)
	if err != nil {
		return "", "", "", eris.Wrap(err, "store: marshal failed batches")
	}
	return string(countsJSON), string(usageJSON), string(failedJSON), nil
}

func unmarshalRunPayloads(r *model.RunRecord, counts, usage, failed sql.NullString) error {
	if counts.Valid && counts.String != "" {
		if err := json.Unmarshal([]byte(counts.String), &r.Counts); err != nil {
			return eris.Wrap(err, "store: unmarshal counts")
		}
	}
	if usage.Valid && usage.String != "" {
		if err := json.Unmarshal([]byte(usage.String), &r.Usage); err != nil {
			return eris.Wrap(err, "store: unmarshal usage")
		}
	}
	if failed.Valid && failed.String != "" && failed.String != "null" {
		if err := json.Unmarshal([]byte(failed.String), &r.FailedBatches); err != nil {
			return eris.Wrap(err, "store: unmarshal failed batches")
		}
	}
	return nil
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.RunRecord, error) {
	var r model.RunRecord
	var outputPath, errMsg sql.NullString
	var counts, usage, failed sql.NullString
	var finishedAt sql.NullTime

	err := row.Scan(&r.ID, &r.Mode, &r.Status, &r.InputPath, &outputPath,
		&counts, &usage, &failed, &errMsg, &r.StartedAt, &finishedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	r.OutputPath = outputPath.String
	r.Error = errMsg.String
	if finishedAt.Valid {
		r.FinishedAt = finishedAt.Time
	}
	if err := unmarshalRunPayloads(&r, counts, usage, failed); err != nil {
		return nil, err
	}
	return &r, nil
}
