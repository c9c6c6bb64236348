package pipeline

import (
	"fmt"
	"time"

	"regsync/internal/registry"
)

// Report is the outcome of one sync cycle.
//
// Run never lets a failure escape as a panic or returned error; every
// outcome, success or failure, lands in a Report so the trigger layer can
// decide how to render it.
type Report struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Processed int
	Skipped   int
	Err       error
}

// Succeeded reports whether the cycle completed without a failure.
func (r Report) Succeeded() bool {
	return r.Err == nil
}

// Status maps the outcome onto the run-history status values.
func (r Report) Status() registry.RunStatus {
	if r.Succeeded() {
		return registry.RunSucceeded
	}
	return registry.RunFailed
}

// Summary returns the human-readable outcome line shown in the UI.
func (r Report) Summary() string {
	if r.Err != nil {
		return fmt.Sprintf("sync failed: %v", r.Err)
	}
	return fmt.Sprintf("sync complete: %d records processed", r.Processed)
}
