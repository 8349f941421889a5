package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/waypoint-ops/itinerary-cli/internal/pipeline"
	"github.com/waypoint-ops/itinerary-cli/internal/store"
	"github.com/waypoint-ops/itinerary-cli/pkg/anthropic"
)

// initStore opens the configured run-history backend and applies its
// migration. Returns nil for the "none" driver: persistence disabled.
func initStore(ctx context.Context) (store.Store, error) {
	var st store.Store
	switch cfg.Store.Driver {
	case "sqlite":
		s, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		st = s
	case "postgres":
		s, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st = s
	case "none":
		return nil, nil
	default:
		return nil, eris.Errorf("cmd: unknown store driver %q", cfg.Store.Driver)
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// initPipeline wires the pipeline for one command invocation. withClient
// controls whether the Anthropic client is constructed; offline modes never
// need it.
func initPipeline(ctx context.Context, mode string, withClient bool) (*pipeline.Pipeline, store.Store, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	var client anthropic.Client
	if withClient {
		client = anthropic.NewClient(cfg.Anthropic.Key)
	}

	return pipeline.New(cfg, st, client), st, nil
}

func closeStore(st store.Store) {
	if st != nil {
		_ = st.Close()
	}
}
