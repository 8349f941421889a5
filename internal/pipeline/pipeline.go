// Package pipeline orchestrates the run modes end to end: loading the
// travel table, detecting gaps, mining the mail corpus, extracting and
// merging candidates, writing the annotated output, and persisting run
// history.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/waypoint-ops/itinerary-cli/internal/config"
	"github.com/waypoint-ops/itinerary-cli/internal/cost"
	"github.com/waypoint-ops/itinerary-cli/internal/extract"
	"github.com/waypoint-ops/itinerary-cli/internal/itinerary"
	"github.com/waypoint-ops/itinerary-cli/internal/keywords"
	"github.com/waypoint-ops/itinerary-cli/internal/mailbox"
	"github.com/waypoint-ops/itinerary-cli/internal/model"
	"github.com/waypoint-ops/itinerary-cli/internal/store"
	"github.com/waypoint-ops/itinerary-cli/pkg/anthropic"
)

// Pipeline wires the run modes together. The store may be nil (persistence
// disabled) and the client may be nil for modes that never extract.
type Pipeline struct {
	cfg    *config.Config
	store  store.Store
	client anthropic.Client
	calc   *cost.Calculator
	now    func() time.Time
}

// New creates a Pipeline. Pricing falls back to the built-in table when the
// configuration carries none.
func New(cfg *config.Config, st store.Store, client anthropic.Client) *Pipeline {
	rates := cfg.Pricing
	if len(rates.Anthropic) == 0 {
		rates = cost.DefaultRates()
	}
	return &Pipeline{
		cfg:    cfg,
		store:  st,
		client: client,
		calc:   cost.NewCalculator(rates),
		now:    time.Now,
	}
}

// ReconcileOptions carries per-invocation overrides for the reconcile mode.
// Zero fields fall back to configuration.
type ReconcileOptions struct {
	LegsPath   string
	MailDir    string
	OutputPath string
	Workers    int
	Limit      int // cap on relevant documents
	DryRun     bool
}

// Reconcile runs the full pipeline: load and sort the table, detect gaps,
// scan and filter the corpus, extract candidates, merge them into the
// itinerary and write the annotated output. Per-document and per-batch
// failures degrade to "contributes nothing"; only missing inputs, a dead
// extraction setup or an unwritable output abort the run.
func (p *Pipeline) Reconcile(ctx context.Context, opts ReconcileOptions) (*Report, error) {
	report := newReport(model.RunModeReconcile, opts.LegsPath)
	run := p.beginRun(ctx, model.RunModeReconcile, opts.LegsPath)
	report.RunID = run.ID

	var legs []model.TravelLeg
	var gaps []model.Gap
	err := report.phase("load", func() error {
		var stats itinerary.LoadStats
		var err error
		legs, stats, err = itinerary.Load(opts.LegsPath)
		if err != nil {
			return err
		}
		report.Counts.LegsLoaded = stats.Legs
		report.Counts.Inversions = stats.Inversions
		gaps = itinerary.IdentifyGaps(legs)
		report.Gaps = gaps
		report.Counts.GapsFound = len(gaps)
		return nil
	})
	if err != nil {
		return report, p.fail(ctx, run, report, err)
	}

	mailDir := opts.MailDir
	if mailDir == "" {
		mailDir = p.cfg.Mail.Dir
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = p.cfg.Mail.Workers
	}

	var scan *mailbox.ScanResult
	err = report.phase("scan", func() error {
		var err error
		scan, err = mailbox.ReadDir(mailDir, workers)
		if err != nil {
			return err
		}
		report.Counts.DocsScanned = scan.Scanned
		return nil
	})
	if err != nil {
		return report, p.fail(ctx, run, report, err)
	}

	orch := extract.New(p.client, p.extractConfig(opts.Limit))

	var relevant []model.Document
	_ = report.phase("filter", func() error {
		docs := itinerary.SelectDocuments(scan.Documents, gaps)
		kws := keywords.TravelKeywords(p.cfg.Keywords.Path)
		kws = append(kws, keywords.GapLocationKeywords(gaps)...)
		relevant = orch.FilterRelevant(docs, kws)
		report.Counts.DocsRelevant = len(relevant)
		return nil
	})

	if opts.DryRun {
		report.Counts.GapsRemaining = len(gaps)
		zap.L().Info("pipeline: dry run, stopping before extraction",
			zap.Int("relevant", len(relevant)),
			zap.Int("gaps", len(gaps)))
		p.complete(ctx, run, report)
		return report, nil
	}

	var res *extract.Result
	err = report.phase("extract", func() error {
		var err error
		res, err = orch.Extract(ctx, relevant, gaps)
		if err != nil {
			return err
		}
		report.Usage = res.Usage
		report.FailedBatches = res.FailedBatches
		report.Counts.CandidatesExtracted = len(res.Candidates)
		return nil
	})
	if err != nil {
		return report, p.fail(ctx, run, report, err)
	}
	report.Usage.Cost = p.calc.RunCost(p.cfg.Anthropic.Model, p.cfg.Extract.UseBatchAPI, report.Usage)

	var merged []model.TravelLeg
	_ = report.phase("merge", func() error {
		report.GapCandidates = make(map[int]int, len(gaps))
		for _, gap := range gaps {
			report.GapCandidates[gap.Number] = len(itinerary.CandidatesForGap(res.Candidates, gap))
		}

		pool := itinerary.MatchCandidates(res.Candidates, gaps)
		merged, _ = itinerary.MergeCandidates(legs, pool)
		merged = itinerary.SortChronologically(merged)

		filled, remaining := itinerary.CountFilledGaps(merged, gaps)
		report.Counts.GapsFilled = filled
		report.Counts.GapsRemaining = remaining

		report.Events = itinerary.DetectIncongruentEvents(merged)
		report.Counts.IncongruentEvents = len(report.Events)
		return nil
	})

	outPath := opts.OutputPath
	if outPath == "" {
		outPath = filepath.Join(p.cfg.Output.Dir, itinerary.DefaultOutputName(p.now()))
	}
	err = report.phase("write", func() error {
		return itinerary.WriteTable(outPath, merged)
	})
	if err != nil {
		return report, p.fail(ctx, run, report, err)
	}
	report.OutputPath = outPath

	p.complete(ctx, run, report)
	return report, nil
}

// Gaps runs detection only: the corpus is never touched and no output is
// written.
func (p *Pipeline) Gaps(ctx context.Context, legsPath string) (*Report, error) {
	report := newReport(model.RunModeGaps, legsPath)
	run := p.beginRun(ctx, model.RunModeGaps, legsPath)
	report.RunID = run.ID

	err := report.phase("load", func() error {
		legs, stats, err := itinerary.Load(legsPath)
		if err != nil {
			return err
		}
		report.Counts.LegsLoaded = stats.Legs
		report.Counts.Inversions = stats.Inversions

		gaps := itinerary.IdentifyGaps(legs)
		report.Gaps = gaps
		report.Counts.GapsFound = len(gaps)
		report.Counts.GapsRemaining = len(gaps)

		report.Events = itinerary.DetectIncongruentEvents(legs)
		report.Counts.IncongruentEvents = len(report.Events)
		return nil
	})
	if err != nil {
		return report, p.fail(ctx, run, report, err)
	}

	p.complete(ctx, run, report)
	return report, nil
}

// Check verifies a previously merged output against the original table: it
// recomputes the original gaps and reports which of them the merged table
// bridges.
func (p *Pipeline) Check(ctx context.Context, legsPath, mergedPath string) (*Report, error) {
	report := newReport(model.RunModeCheck, legsPath)
	run := p.beginRun(ctx, model.RunModeCheck, legsPath)
	report.RunID = run.ID

	err := report.phase("check", func() error {
		legs, stats, err := itinerary.Load(legsPath)
		if err != nil {
			return err
		}
		report.Counts.LegsLoaded = stats.Legs
		report.Counts.Inversions = stats.Inversions

		gaps := itinerary.IdentifyGaps(legs)
		report.Gaps = gaps
		report.Counts.GapsFound = len(gaps)

		merged, _, err := itinerary.Load(mergedPath)
		if err != nil {
			return err
		}
		filled, remaining := itinerary.CountFilledGaps(merged, gaps)
		report.Counts.GapsFilled = filled
		report.Counts.GapsRemaining = remaining

		report.Events = itinerary.DetectIncongruentEvents(merged)
		report.Counts.IncongruentEvents = len(report.Events)
		return nil
	})
	if err != nil {
		return report, p.fail(ctx, run, report, err)
	}

	p.complete(ctx, run, report)
	return report, nil
}

// Annotate rewrites a table with the connection-analysis columns, without
// touching the corpus or the extraction service.
func (p *Pipeline) Annotate(ctx context.Context, legsPath, outputPath string) (*Report, error) {
	report := newReport(model.RunModeAnnotate, legsPath)
	run := p.beginRun(ctx, model.RunModeAnnotate, legsPath)
	report.RunID = run.ID

	outPath := outputPath
	if outPath == "" {
		outPath = filepath.Join(p.cfg.Output.Dir, itinerary.DefaultOutputName(p.now()))
	}

	err := report.phase("annotate", func() error {
		legs, stats, err := itinerary.Load(legsPath)
		if err != nil {
			return err
		}
		report.Counts.LegsLoaded = stats.Legs
		report.Counts.Inversions = stats.Inversions

		gaps := itinerary.IdentifyGaps(legs)
		report.Gaps = gaps
		report.Counts.GapsFound = len(gaps)
		report.Counts.GapsRemaining = len(gaps)

		return itinerary.WriteTable(outPath, legs)
	})
	if err != nil {
		return report, p.fail(ctx, run, report, err)
	}
	report.OutputPath = outPath

	p.complete(ctx, run, report)
	return report, nil
}

func (p *Pipeline) extractConfig(limit int) extract.Config {
	maxRelevant := p.cfg.Mail.MaxRelevant
	if limit > 0 {
		maxRelevant = limit
	}
	return extract.Config{
		Model:           p.cfg.Anthropic.Model,
		MaxTokens:       int64(p.cfg.Anthropic.MaxTokens),
		BatchSize:       p.cfg.Extract.BatchSize,
		MaxContentChars: p.cfg.Extract.MaxContentChars,
		MaxRelevant:     maxRelevant,
		InterBatchDelay: time.Duration(p.cfg.Extract.InterBatchDelayMS) * time.Millisecond,
		MaxAttempts:     p.cfg.Extract.MaxAttempts,
		UseBatchAPI:     p.cfg.Extract.UseBatchAPI,
	}
}

// beginRun persists a running RunRecord. Store trouble never blocks a run:
// the report is still produced and logged.
func (p *Pipeline) beginRun(ctx context.Context, mode model.RunMode, input string) *model.RunRecord {
	run := &model.RunRecord{Mode: mode, InputPath: input}
	if p.store == nil {
		return run
	}
	if err := p.store.CreateRun(ctx, run); err != nil {
		zap.L().Warn("pipeline: create run", zap.Error(err))
		run.ID = ""
	}
	return run
}

func (p *Pipeline) complete(ctx context.Context, run *model.RunRecord, r *Report) {
	r.finish()
	r.Log()
	if p.store == nil || run.ID == "" {
		return
	}
	run.OutputPath = r.OutputPath
	run.Counts = r.Counts
	run.Usage = r.Usage
	run.FailedBatches = r.FailedBatches
	if err := p.store.CompleteRun(ctx, run); err != nil {
		zap.L().Warn("pipeline: complete run",
			zap.String("run_id", run.ID), zap.Error(err))
	}
}

func (p *Pipeline) fail(ctx context.Context, run *model.RunRecord, r *Report, err error) error {
	r.finish()
	r.Log()
	if p.store != nil && run.ID != "" {
		if ferr := p.store.FailRun(ctx, run.ID, err.Error()); ferr != nil {
			zap.L().Warn("pipeline: fail run",
				zap.String("run_id", run.ID), zap.Error(ferr))
		}
	}
	return eris.Wrapf(err, "pipeline: %s run", run.Mode)
}
