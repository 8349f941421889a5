package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresFromPool(mock), mock
}

func TestPostgresStore_CreateRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs(pgxmock.AnyArg(), "reconcile", "running", "legs.csv", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run := &model.RunRecord{Mode: model.RunModeReconcile, InputPath: "legs.csv"}
	require.NoError(t, s.CreateRun(context.Background(), run))
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.StartedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CompleteRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET status`).
		WithArgs("completed", "out.csv", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	run := &model.RunRecord{ID: "run-1", OutputPath: "out.csv"}
	require.NoError(t, s.CompleteRun(context.Background(), run))
	assert.Equal(t, model.RunStatusCompleted, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CompleteRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET status`).
		WithArgs("completed", "", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.CompleteRun(context.Background(), &model.RunRecord{ID: "ghost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FailRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET status`).
		WithArgs("failed", "table unreadable", pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.FailRun(context.Background(), "run-1", "table unreadable"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	finished := started.Add(2 * time.Minute)
	out := "out.csv"
	counts := []byte(`{"legs_loaded":10,"gaps_found":2}`)
	usage := []byte(`{"input_tokens":500,"output_tokens":60}`)
	failed := []byte(`[{"batch":1,"document_ids":["x.eml"],"error":"overloaded","error_type":"transient","attempts":3}]`)

	rows := pgxmock.NewRows([]string{
		"id", "mode", "status", "input_path", "output_path",
		"counts", "usage", "failed_batches", "error", "started_at", "finished_at",
	}).AddRow("run-1", "reconcile", "completed", "legs.csv", &out,
		counts, usage, failed, (*string)(nil), started, &finished)

	mock.ExpectQuery(`SELECT .+ FROM runs WHERE id`).
		WithArgs("run-1").
		WillReturnRows(rows)

	got, err := s.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, model.RunModeReconcile, got.Mode)
	assert.Equal(t, model.RunStatusCompleted, got.Status)
	assert.Equal(t, "out.csv", got.OutputPath)
	assert.Equal(t, 10, got.Counts.LegsLoaded)
	assert.Equal(t, 500, got.Usage.InputTokens)
	require.Len(t, got.FailedBatches, 1)
	assert.Equal(t, "transient", got.FailedBatches[0].ErrorType)
	assert.Equal(t, finished, got.FinishedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .+ FROM runs WHERE id`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{
		"id", "mode", "status", "input_path", "output_path",
		"counts", "usage", "failed_batches", "error", "started_at", "finished_at",
	}).
		AddRow("run-2", "gaps", "completed", "legs.csv", (*string)(nil),
			[]byte(`{}`), []byte(`{}`), []byte(`null`), (*string)(nil), started.Add(time.Hour), (*time.Time)(nil)).
		AddRow("run-1", "reconcile", "failed", "legs.csv", (*string)(nil),
			[]byte(nil), []byte(nil), []byte(nil), strPtr("boom"), started, (*time.Time)(nil))

	mock.ExpectQuery(`SELECT .+ FROM runs ORDER BY started_at DESC LIMIT`).
		WithArgs(50).
		WillReturnRows(rows)

	runs, err := s.ListRuns(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Nil(t, runs[0].FailedBatches)
	assert.Equal(t, "boom", runs[1].Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func strPtr(s string) *string { return &s }
