package model

import "time"

// RunStatus represents the current state of an extraction run.
type RunStatus string

const (
	RunStatusQueued      RunStatus = "queued"
	RunStatusScraping    RunStatus = "scraping"
	RunStatusPlaces      RunStatus = "places"
	RunStatusDiscovering RunStatus = "discovering"
	RunStatusEnriching   RunStatus = "enriching"
	RunStatusAnalyzing   RunStatus = "analyzing"
	RunStatusComplete    RunStatus = "complete"
	RunStatusFailed      RunStatus = "failed"
)

// ExtractRequest is the input to a single extraction run. URL is required;
// name and address improve the places lookup when present.
type ExtractRequest struct {
	URL     string `json:"url"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// Run represents a single extraction run.
type Run struct {
	ID        string           `json:"id"`
	Request   ExtractRequest   `json:"request"`
	Status    RunStatus        `json:"status"`
	Profile   *BusinessProfile `json:"profile,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// PhaseStatus is the terminal state of a tracked phase.
type PhaseStatus string

const (
	PhaseStatusRunning  PhaseStatus = "running"
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusFailed   PhaseStatus = "failed"
	PhaseStatusSkipped  PhaseStatus = "skipped"
)

// PhaseResult holds the outcome of a single phase within a run.
type PhaseResult struct {
	Name     string         `json:"name"`
	Status   PhaseStatus    `json:"status"`
	Duration int64          `json:"duration_ms"`
	CostUSD  float64        `json:"cost_usd,omitempty"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// RunPhase is a persisted phase record.
type RunPhase struct {
	ID        string       `json:"id"`
	RunID     string       `json:"run_id"`
	Name      string       `json:"name"`
	Status    PhaseStatus  `json:"status"`
	Result    *PhaseResult `json:"result,omitempty"`
	StartedAt time.Time    `json:"started_at"`
}
