// Package registry provides the persistent store for business registry
// records. The store is a single SQLite table keyed by the unified business
// number; writes are full-record upserts with last-write-wins semantics.
package registry

// Sentinel is the placeholder stored for any field whose source column is
// absent or whose cell value is empty. Downstream consumers can rely on
// every field being a non-empty string.
const Sentinel = "N/A"

// Record is one row of the business registry.
type Record struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Email       string `json:"email"`
	LastUpdated string `json:"lastUpdated"`
}

// RunStatus classifies the outcome of a sync run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Run is one entry of the sync-run history.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  string    `json:"startedAt"`
	DurationMS int64     `json:"durationMs"`
	Processed  int       `json:"processed"`
	Skipped    int       `json:"skipped"`
	Status     RunStatus `json:"status"`
	Detail     string    `json:"detail"`
}
