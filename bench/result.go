// Package bench executes corpus access workloads and times them.
package bench

import "time"

// Result holds the structured output of one runner invocation.
type Result struct {
	RunID     string           `json:"run_id"`
	Corpus    string           `json:"corpus"`
	Attribute string           `json:"attribute"`
	Positions int              `json:"positions"`
	StartedAt time.Time        `json:"started_at"`
	Workloads []WorkloadResult `json:"workloads"`
}

// WorkloadResult holds the measurements for one workload. An
// iteration is one complete pass over the workload's position stream;
// an operation is one engine call within a pass.
type WorkloadResult struct {
	Workload   string  `json:"workload"`
	Runs       int     `json:"runs"`
	Operations int     `json:"operations"`
	TotalChars int     `json:"total_chars"`
	Matches    int     `json:"matches"`
	ElapsedNs  int64   `json:"elapsed_ns"`
	NsPerIter  int64   `json:"ns_per_iter"`
	OpsPerSec  float64 `json:"ops_per_sec"`
	MinRunNs   int64   `json:"min_run_ns"`
	AvgRunNs   int64   `json:"avg_run_ns"`
	MaxRunNs   int64   `json:"max_run_ns"`
}
