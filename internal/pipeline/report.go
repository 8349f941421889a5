package pipeline

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/waypoint-ops/itinerary-cli/internal/model"
)

// Phase is one timed stage of a run.
type Phase struct {
	Name     string
	Duration time.Duration
	Error    string
}

// Report is the in-memory outcome of one run: every count the final log
// line states, the gaps and events found, token usage and cost, failed
// batches, and per-phase timings.
type Report struct {
	Mode          model.RunMode
	RunID         string
	InputPath     string
	OutputPath    string
	Counts        model.RunCounts
	Usage         model.TokenUsage
	FailedBatches []model.FailedBatch
	Gaps          []model.Gap
	GapCandidates map[int]int // gap number -> candidates matched for it
	Events        []model.IncongruentEvent
	Phases        []Phase
	Duration      time.Duration

	start time.Time
}

func newReport(mode model.RunMode, input string) *Report {
	return &Report{Mode: mode, InputPath: input, start: time.Now()}
}

// phase runs one stage, records its timing, and logs the outcome. The
// stage's error is recorded and returned unchanged.
func (r *Report) phase(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	p := Phase{Name: name, Duration: time.Since(start)}
	if err != nil {
		p.Error = err.Error()
		zap.L().Error("pipeline: phase failed",
			zap.String("phase", name),
			zap.Duration("duration", p.Duration),
			zap.Error(err))
	} else {
		zap.L().Info("pipeline: phase complete",
			zap.String("phase", name),
			zap.Duration("duration", p.Duration))
	}
	r.Phases = append(r.Phases, p)
	return err
}

func (r *Report) finish() {
	r.Duration = time.Since(r.start)
}

// Log writes the final run report. Every count is stated, even when zero.
func (r *Report) Log() {
	zap.L().Info("pipeline: run report",
		zap.String("mode", string(r.Mode)),
		zap.String("run_id", r.RunID),
		zap.String("input", r.InputPath),
		zap.String("output", r.OutputPath),
		zap.Int("legs_loaded", r.Counts.LegsLoaded),
		zap.Int("inversions", r.Counts.Inversions),
		zap.Int("gaps_found", r.Counts.GapsFound),
		zap.Int("docs_scanned", r.Counts.DocsScanned),
		zap.Int("docs_relevant", r.Counts.DocsRelevant),
		zap.Int("candidates_extracted", r.Counts.CandidatesExtracted),
		zap.Int("gaps_filled", r.Counts.GapsFilled),
		zap.Int("gaps_remaining", r.Counts.GapsRemaining),
		zap.Int("incongruent_events", r.Counts.IncongruentEvents),
		zap.Int("failed_batches", len(r.FailedBatches)),
		zap.Int("input_tokens", r.Usage.InputTokens),
		zap.Int("output_tokens", r.Usage.OutputTokens),
		zap.Float64("estimated_cost_usd", r.Usage.Cost),
		zap.Duration("duration", r.Duration))
}

// Format renders a human-readable report for the terminal.
func (r *Report) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s report: %s\n\n", titleCase(string(r.Mode)), r.InputPath)

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Legs loaded: %d\n", r.Counts.LegsLoaded)
	fmt.Fprintf(&b, "- Chronological inversions: %d\n", r.Counts.Inversions)
	fmt.Fprintf(&b, "- Gaps found: %d\n", r.Counts.GapsFound)
	fmt.Fprintf(&b, "- Documents scanned: %d\n", r.Counts.DocsScanned)
	fmt.Fprintf(&b, "- Documents relevant: %d\n", r.Counts.DocsRelevant)
	fmt.Fprintf(&b, "- Candidates extracted: %d\n", r.Counts.CandidatesExtracted)
	fmt.Fprintf(&b, "- Gaps filled: %d\n", r.Counts.GapsFilled)
	fmt.Fprintf(&b, "- Gaps remaining: %d\n", r.Counts.GapsRemaining)
	fmt.Fprintf(&b, "- Incongruent events: %d\n", r.Counts.IncongruentEvents)
	if r.Usage.InputTokens > 0 || r.Usage.OutputTokens > 0 {
		fmt.Fprintf(&b, "- Token usage: %d input, %d output\n",
			r.Usage.InputTokens, r.Usage.OutputTokens)
		fmt.Fprintf(&b, "- Estimated cost: $%.4f\n", r.Usage.Cost)
	}
	if r.OutputPath != "" {
		fmt.Fprintf(&b, "- Output: %s\n", r.OutputPath)
	}
	b.WriteString("\n")

	if len(r.Gaps) > 0 {
		b.WriteString("## Gaps\n")
		for _, g := range r.Gaps {
			fmt.Fprintf(&b, "- %d. %s [%s]", g.Number, g.Describe(), g.Severity)
			if n, ok := r.GapCandidates[g.Number]; ok {
				fmt.Fprintf(&b, " (%d candidates)", n)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(r.Events) > 0 {
		b.WriteString("## Incongruent events\n")
		for _, e := range r.Events {
			fmt.Fprintf(&b, "- %s: %s (%d legs)\n", e.Kind, e.Description, len(e.Legs))
		}
		b.WriteString("\n")
	}

	if len(r.FailedBatches) > 0 {
		b.WriteString("## Failed batches\n")
		for _, fb := range r.FailedBatches {
			fmt.Fprintf(&b, "- batch %d (%s, %d attempts): %s [%d documents]\n",
				fb.Batch, fb.ErrorType, fb.Attempts, fb.Error, len(fb.DocumentIDs))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Phases\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "- %s: %dms", p.Name, p.Duration.Milliseconds())
		if p.Error != "" {
			fmt.Fprintf(&b, " (failed: %s)", p.Error)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
