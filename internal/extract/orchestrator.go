package extract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/waypoint-ops/itinerary-cli/internal/keywords"
	"github.com/waypoint-ops/itinerary-cli/internal/model"
	"github.com/waypoint-ops/itinerary-cli/internal/resilience"
	"github.com/waypoint-ops/itinerary-cli/pkg/anthropic"
)

// Defaults for the extraction stage.
const (
	DefaultBatchSize       = 8
	DefaultMaxContentChars = 800
	DefaultMaxRelevant     = 1000
	DefaultInterBatchDelay = time.Second
	DefaultMaxAttempts     = 3
	DefaultMaxTokens       = 4096
)

// Config controls batching, pacing and retries for extraction.
type Config struct {
	Model           string
	MaxTokens       int64
	BatchSize       int
	MaxContentChars int
	MaxRelevant     int
	InterBatchDelay time.Duration
	MaxAttempts     int
	UseBatchAPI     bool
}

func (c Config) withDefaults() Config {
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.MaxContentChars <= 0 {
		c.MaxContentChars = DefaultMaxContentChars
	}
	if c.MaxRelevant <= 0 {
		c.MaxRelevant = DefaultMaxRelevant
	}
	if c.InterBatchDelay <= 0 {
		c.InterBatchDelay = DefaultInterBatchDelay
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	return c
}

// Result is the outcome of an extraction pass. Failed batches are recorded,
// never fatal: a run with a dead extraction backend still completes with an
// empty candidate set.
type Result struct {
	Candidates    []model.CandidateLeg
	Usage         model.TokenUsage
	FailedBatches []model.FailedBatch
	Batches       int
}

// Orchestrator drives the extraction stage: filtering, batching, pacing,
// retries and the circuit breaker.
type Orchestrator struct {
	client  anthropic.Client
	cfg     Config
	breaker *resilience.CircuitBreaker
	limiter *rate.Limiter
}

// New creates an Orchestrator. Zero config fields take the package defaults.
func New(client anthropic.Client, cfg Config) *Orchestrator {
	cfg = cfg.withDefaults()
	breakerCfg := resilience.DefaultCircuitBreakerConfig()
	breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
		zap.L().Warn("extract: circuit state change",
			zap.Stringer("from", from), zap.Stringer("to", to))
	}
	return &Orchestrator{
		client:  client,
		cfg:     cfg,
		breaker: resilience.NewCircuitBreaker(breakerCfg),
		limiter: rate.NewLimiter(rate.Every(cfg.InterBatchDelay), 1),
	}
}

// FilterRelevant keeps documents matching the keyword filter, stopping at
// the relevance cap to bound downstream cost. Scan order decides which
// documents make the cut.
func (o *Orchestrator) FilterRelevant(docs []model.Document, kws []string) []model.Document {
	var relevant []model.Document
	for _, d := range docs {
		if !keywords.Matches(d, kws) {
			continue
		}
		relevant = append(relevant, d)
		if len(relevant) >= o.cfg.MaxRelevant {
			zap.L().Info("extract: relevance cap reached",
				zap.Int("cap", o.cfg.MaxRelevant))
			break
		}
	}
	zap.L().Info("extract: filtered corpus",
		zap.Int("scanned", len(docs)), zap.Int("relevant", len(relevant)))
	return relevant
}

// Extract runs the extraction stage over the filtered documents. Direct mode
// paces sequential Messages calls with the inter-batch limiter; batch mode
// submits one Message Batch and polls it.
func (o *Orchestrator) Extract(ctx context.Context, docs []model.Document, gaps []model.Gap) (*Result, error) {
	res := &Result{}
	if len(docs) == 0 {
		return res, nil
	}

	// The gap block is identical for every batch, so it rides the prompt
	// cache after the first request.
	system := anthropic.BuildCachedSystemBlocks(extractionSystemText + "\n\n" + GapContext(gaps))
	batches := partition(docs, o.cfg.BatchSize)
	res.Batches = len(batches)

	if o.cfg.UseBatchAPI {
		return res, o.extractViaBatchAPI(ctx, batches, system, res)
	}
	return res, o.extractDirect(ctx, batches, system, res)
}

func (o *Orchestrator) extractDirect(ctx context.Context, batches [][]model.Document, system []anthropic.SystemBlock, res *Result) error {
	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.MaxAttempts = o.cfg.MaxAttempts
	retryCfg.ShouldRetry = resilience.IsRetryableExtraction
	retryCfg.OnRetry = resilience.RetryLogger("anthropic", "extract_batch")

	for i, batch := range batches {
		if err := o.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "extract: pacing wait")
		}

		req := o.buildRequest(batch, system)
		resp, err := resilience.ExecuteVal(ctx, o.breaker, func(ctx context.Context) (*anthropic.MessageResponse, error) {
			return resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
				return o.client.CreateMessage(ctx, req)
			})
		})
		if err != nil {
			if ctx.Err() != nil {
				return eris.Wrap(ctx.Err(), "extract: cancelled")
			}
			attempts := o.cfg.MaxAttempts
			if errors.Is(err, resilience.ErrCircuitOpen) {
				attempts = 0
			}
			res.FailedBatches = append(res.FailedBatches,
				resilience.NewFailedBatch(i+1, documentIDs(batch), attempts, err))
			zap.L().Warn("extract: batch failed",
				zap.Int("batch", i+1), zap.Int("documents", len(batch)), zap.Error(err))
			continue
		}

		o.accumulate(res, i+1, batch, resp)
	}

	zap.L().Info("extract: direct extraction complete",
		zap.Int("batches", len(batches)),
		zap.Int("failed_batches", len(res.FailedBatches)),
		zap.Int("candidates", len(res.Candidates)))
	return nil
}

func (o *Orchestrator) extractViaBatchAPI(ctx context.Context, batches [][]model.Document, system []anthropic.SystemBlock, res *Result) error {
	// One sequential request warms the shared system prefix so the batch
	// entries read from the cache instead of each writing it.
	primer, err := anthropic.PrimerRequest(ctx, o.client, anthropic.MessageRequest{
		Model:     o.cfg.Model,
		MaxTokens: 16,
		System:    system,
		Messages:  []anthropic.Message{{Role: "user", Content: "Reply with OK."}},
	})
	if err != nil {
		zap.L().Warn("extract: cache primer failed", zap.Error(err))
	} else {
		res.Usage.Add(model.TokenUsage{
			InputTokens:         int(primer.Usage.InputTokens),
			OutputTokens:        int(primer.Usage.OutputTokens),
			CacheCreationTokens: int(primer.Usage.CacheCreationInputTokens),
			CacheReadTokens:     int(primer.Usage.CacheReadInputTokens),
		})
	}

	items := make([]anthropic.BatchRequestItem, len(batches))
	for i, batch := range batches {
		items[i] = anthropic.BatchRequestItem{
			CustomID: batchCustomID(i),
			Params:   o.buildRequest(batch, system),
		}
	}

	created, err := o.client.CreateBatch(ctx, anthropic.BatchRequest{Requests: items})
	if err != nil {
		return eris.Wrap(err, "extract: create batch")
	}

	ended, err := anthropic.PollBatch(ctx, o.client, created.ID)
	if err != nil {
		return eris.Wrap(err, "extract: poll batch")
	}

	iter, err := o.client.GetBatchResults(ctx, ended.ID)
	if err != nil {
		return eris.Wrap(err, "extract: get batch results")
	}
	collected, err := anthropic.CollectBatchResults(iter)
	if err != nil {
		return eris.Wrap(err, "extract: collect batch results")
	}

	failureTypes := make(map[string]string, len(collected.Failures))
	for _, f := range collected.Failures {
		failureTypes[f.CustomID] = f.Type
	}

	for i, batch := range batches {
		id := batchCustomID(i)
		if resp, ok := collected.Succeeded[id]; ok {
			o.accumulate(res, i+1, batch, resp)
			continue
		}
		kind := failureTypes[id]
		if kind == "" {
			kind = "missing"
		}
		res.FailedBatches = append(res.FailedBatches,
			resilience.NewFailedBatch(i+1, documentIDs(batch), 1,
				eris.Errorf("batch entry %s: %s", id, kind)))
	}

	zap.L().Info("extract: batch API extraction complete",
		zap.String("batch_id", ended.ID),
		zap.Int("batches", len(batches)),
		zap.Int("failed_batches", len(res.FailedBatches)),
		zap.Int("candidates", len(res.Candidates)))
	return nil
}

func (o *Orchestrator) buildRequest(batch []model.Document, system []anthropic.SystemBlock) anthropic.MessageRequest {
	return anthropic.MessageRequest{
		Model:     o.cfg.Model,
		MaxTokens: o.cfg.MaxTokens,
		System:    system,
		Messages: []anthropic.Message{
			{Role: "user", Content: BatchPrompt(batch, o.cfg.MaxContentChars)},
		},
	}
}

// accumulate parses one batch response and folds its candidates and token
// usage into the result. A candidate the model returned without a source_file
// is tagged with the batch's first document id so provenance survives into
// the merged table.
func (o *Orchestrator) accumulate(res *Result, batchNum int, batch []model.Document, resp *anthropic.MessageResponse) {
	candidates := ParseCandidates(extractText(resp))
	for j := range candidates {
		if candidates[j].SourceDocument == "" && len(batch) > 0 {
			candidates[j].SourceDocument = batch[0].ID
			candidates[j].SourceFile = batch[0].ID
		}
	}
	res.Candidates = append(res.Candidates, candidates...)
	res.Usage.Add(model.TokenUsage{
		InputTokens:         int(resp.Usage.InputTokens),
		OutputTokens:        int(resp.Usage.OutputTokens),
		CacheCreationTokens: int(resp.Usage.CacheCreationInputTokens),
		CacheReadTokens:     int(resp.Usage.CacheReadInputTokens),
	})
	zap.L().Debug("extract: batch parsed",
		zap.Int("batch", batchNum),
		zap.Int("documents", len(batch)),
		zap.Int("candidates", len(candidates)))
}

func partition(docs []model.Document, size int) [][]model.Document {
	var batches [][]model.Document
	for start := 0; start < len(docs); start += size {
		end := start + size
		if end > len(docs) {
			end = len(docs)
		}
		batches = append(batches, docs[start:end])
	}
	return batches
}

func documentIDs(docs []model.Document) []string {
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids
}

func batchCustomID(i int) string {
	return fmt.Sprintf("extract-%d", i)
}
