package model

import "time"

// RunMode identifies which command surface produced a run.
type RunMode string

const (
	RunModeReconcile RunMode = "reconcile"
	RunModeGaps      RunMode = "gaps"
	RunModeCheck     RunMode = "check"
	RunModeAnnotate  RunMode = "annotate"
)

// RunStatus represents the current state of a reconciliation run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunCounts holds the headline numbers of a run. The final report states
// every count even when zero.
type RunCounts struct {
	LegsLoaded          int `json:"legs_loaded"`
	Inversions          int `json:"inversions"`
	GapsFound           int `json:"gaps_found"`
	DocsScanned         int `json:"docs_scanned"`
	DocsRelevant        int `json:"docs_relevant"`
	CandidatesExtracted int `json:"candidates_extracted"`
	GapsFilled          int `json:"gaps_filled"`
	GapsRemaining       int `json:"gaps_remaining"`
	IncongruentEvents   int `json:"incongruent_events"`
}

// FailedBatch records an extraction batch that exhausted its retries or hit
// a non-retryable error. Kept on the run record so a later invocation can
// target just the missed documents.
type FailedBatch struct {
	Batch       int       `json:"batch"`
	DocumentIDs []string  `json:"document_ids"`
	Error       string    `json:"error"`
	ErrorType   string    `json:"error_type"` // "transient" or "permanent"
	Attempts    int       `json:"attempts"`
	FailedAt    time.Time `json:"failed_at"`
}

// TokenUsage tracks token consumption across extraction calls.
type TokenUsage struct {
	InputTokens         int     `json:"input_tokens"`
	OutputTokens        int     `json:"output_tokens"`
	CacheCreationTokens int     `json:"cache_creation_tokens"`
	CacheReadTokens     int     `json:"cache_read_tokens"`
	Cost                float64 `json:"cost"`
}

// Add merges token usage from another instance.
func (t *TokenUsage) Add(other TokenUsage) {
	t.InputTokens += other.InputTokens
	t.OutputTokens += other.OutputTokens
	t.CacheCreationTokens += other.CacheCreationTokens
	t.CacheReadTokens += other.CacheReadTokens
	t.Cost += other.Cost
}

// RunRecord is the persisted history entry for one pipeline invocation.
type RunRecord struct {
	ID            string        `json:"id"`
	Mode          RunMode       `json:"mode"`
	Status        RunStatus     `json:"status"`
	InputPath     string        `json:"input_path"`
	OutputPath    string        `json:"output_path,omitempty"`
	Counts        RunCounts     `json:"counts"`
	Usage         TokenUsage    `json:"usage"`
	FailedBatches []FailedBatch `json:"failed_batches,omitempty"`
	Error         string        `json:"error,omitempty"`
	StartedAt     time.Time     `json:"started_at"`
	FinishedAt    time.Time     `json:"finished_at,omitempty"`
}
