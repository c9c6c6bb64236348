// Package pipeline implements the sync cycle that pulls the municipal
// business-registry CSV, reconciles its columns and upserts the rows into
// the local registry store.
package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"regsync/internal/logging"
	"regsync/internal/metrics"
	"regsync/internal/registry"
)

// DefaultTimeout bounds the dataset fetch when no client is supplied.
const DefaultTimeout = 30 * time.Second

// timestampLayout is the wall-clock format written to last_updated.
// One value is computed per cycle and shared by every row it writes.
const timestampLayout = "2006-01-02 15:04:05"

// Pipeline runs sync cycles against a fixed source URL.
type Pipeline struct {
	URL    string
	Store  *registry.Store
	Fields FieldMap

	// Client is the HTTP client used for the fetch. When nil, a client
	// with DefaultTimeout is used.
	Client *http.Client

	// now is swappable for tests.
	now func() time.Time
}

// New creates a Pipeline for the given source URL and store, using the
// default field map and fetch timeout.
func New(url string, store *registry.Store) *Pipeline {
	return &Pipeline{
		URL:    url,
		Store:  store,
		Fields: DefaultFieldMap(),
	}
}

// Run executes one complete sync cycle: fetch, decode, parse, reconcile,
// filter, persist. It always returns a Report; failures are carried in
// Report.Err, never raised past this boundary.
//
// A fetch, decode or parse failure aborts the cycle before anything is
// written. A storage failure aborts mid-cycle; rows already upserted keep
// their new values, consistent with last-write-wins per key.
func (p *Pipeline) Run(ctx context.Context) Report {
	report := Report{
		RunID:     uuid.NewString(),
		StartedAt: p.clock()(),
	}
	logger := logging.FromContext(ctx).With("run_id", report.RunID)
	logger.Info("sync started", "url", p.URL)

	report.Processed, report.Skipped, report.Err = p.run(ctx, report.StartedAt)
	report.Duration = p.clock()().Sub(report.StartedAt)

	p.observe(report)
	p.recordHistory(ctx, logger, report)

	if report.Err != nil {
		logger.Error("sync failed", "error", report.Err, "duration_ms", report.Duration.Milliseconds())
	} else {
		logger.Info("sync complete",
			"processed", report.Processed,
			"skipped", report.Skipped,
			"duration_ms", report.Duration.Milliseconds(),
		)
	}
	return report
}

// run performs the fallible part of the cycle and returns counts plus the
// first failure encountered.
func (p *Pipeline) run(ctx context.Context, startedAt time.Time) (processed, skipped int, err error) {
	raw, err := p.fetch(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch: %w", err)
	}

	text, err := decodePayload(raw)
	if err != nil {
		return 0, 0, fmt.Errorf("decode: %w", err)
	}

	header, rows, err := parseTable(text)
	if err != nil {
		return 0, 0, fmt.Errorf("parse: %w", err)
	}
	if header == nil {
		// Empty payload: nothing to reconcile, nothing to write.
		return 0, 0, nil
	}

	cols := p.Fields.resolve(header)
	stamp := startedAt.Format(timestampLayout)

	for _, row := range rows {
		id := cell(row, cols.id)
		if id == "" {
			skipped++
			continue
		}
		rec := registry.Record{
			ID:          id,
			Name:        orSentinel(cell(row, cols.name), registry.Sentinel),
			Owner:       orSentinel(cell(row, cols.owner), registry.Sentinel),
			Phone:       orSentinel(cell(row, cols.phone), registry.Sentinel),
			Address:     orSentinel(cell(row, cols.address), registry.Sentinel),
			Email:       orSentinel(cell(row, cols.email), registry.Sentinel),
			LastUpdated: stamp,
		}
		if err := p.Store.Upsert(ctx, rec); err != nil {
			return processed, skipped, fmt.Errorf("storage: %w", err)
		}
		processed++
	}
	return processed, skipped, nil
}

// fetch issues the single GET against the source URL and returns the body.
func (p *Pipeline) fetch(ctx context.Context) ([]byte, error) {
	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// parseTable splits the decoded payload into a trimmed header row and data
// rows. A header-only or empty payload is not an error.
func parseTable(text string) (header []string, rows [][]string, err error) {
	reader := csv.NewReader(strings.NewReader(text))
	// The portal occasionally emits ragged rows; short rows read as
	// missing cells rather than failing the cycle.
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, nil
	}

	header = all[0]
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}
	return header, all[1:], nil
}

// observe exports cycle counters. Skips and upserts are only counted for
// cycles that got far enough to process rows.
func (p *Pipeline) observe(r Report) {
	metrics.SyncRuns.WithLabelValues(string(r.Status())).Inc()
	metrics.SyncDuration.Observe(r.Duration.Seconds())
	metrics.RowsUpserted.Add(float64(r.Processed))
	metrics.RowsSkipped.Add(float64(r.Skipped))
}

// recordHistory appends the run to the sync_runs table. History is
// best-effort; a write failure is logged and does not change the outcome.
func (p *Pipeline) recordHistory(ctx context.Context, logger *slog.Logger, r Report) {
	detail := r.Summary()
	run := registry.Run{
		ID:         r.RunID,
		StartedAt:  r.StartedAt.Format(timestampLayout),
		DurationMS: r.Duration.Milliseconds(),
		Processed:  r.Processed,
		Skipped:    r.Skipped,
		Status:     r.Status(),
		Detail:     detail,
	}
	if err := p.Store.RecordRun(ctx, run); err != nil {
		logger.Warn("failed to record sync run", "error", err)
	}
}

func (p *Pipeline) clock() func() time.Time {
	if p.now != nil {
		return p.now
	}
	return time.Now
}
