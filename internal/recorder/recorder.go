package recorder

import (
	"time"

	"github.com/breakoutsentinel/sentinel/internal/model"
)

// RunRecord summarizes one orchestrator pass.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Trigger    string // "cli", "schedule", "api", "telegram", "sample"
	Tickers    int
	Skipped    int
	Signals    int
	Err        string
}

// Recorder mirrors runs and emitted signals into a queryable store.
type Recorder interface {
	RecordRun(run *RunRecord) error
	RecordSignals(runID string, signals []model.Signal) error
	Close() error
}
