// Package store persists run history behind the Store interface. Two
// drivers are provided: SQLite for single-user local use and Postgres for
// shared deployments.
package store

import (
	"context"

	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

// Store is the persistence interface for run history. A nil Store is legal:
// the pipeline logs the run report and moves on.
type Store interface {
	// CreateRun inserts a new run in running state, assigning its ID and
	// StartedAt if unset.
	CreateRun(ctx context.Context, run *model.RunRecord) error

	// CompleteRun marks the run completed and stores its final counts,
	// usage, failed batches and output path.
	CompleteRun(ctx context.Context, run *model.RunRecord) error

	// FailRun marks the run failed with the given error message.
	FailRun(ctx context.Context, runID, errMsg string) error

	GetRun(ctx context.Context, runID string) (*model.RunRecord, error)

	// ListRuns returns the most recent runs first, up to limit (<= 0 means
	// the default of 100).
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

const defaultListLimit = 100
