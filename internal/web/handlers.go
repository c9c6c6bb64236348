package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"regsync/internal/logging"
	"regsync/internal/registry"
)

// syncResponse is the JSON body returned by the sync endpoint.
type syncResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	RunID     string `json:"runId,omitempty"`
}

// previewResponse is the JSON body returned by the preview endpoint.
type previewResponse struct {
	Records []registry.Record `json:"records"`
	Message string            `json:"message,omitempty"`
}

// handleIndex renders the single-page UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data := indexData{PreviewLimit: s.cfg.Preview.Limit}

	// Status line is best effort; the page still renders without it.
	if count, err := s.store.Count(ctx); err == nil {
		data.RecordCount = count
	}
	if runs, err := s.store.RecentRuns(ctx, 5); err == nil {
		data.Runs = runs
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		logging.FromContext(ctx).Error("render index", "error", err)
	}
}

// handleSync runs one sync cycle and reports its outcome.
//
// The pipeline's contract is an outcome value rather than an error, so the
// endpoint answers 200 for both successful and failed cycles; the body
// carries the distinction.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if !s.syncMu.TryLock() {
		writeJSON(w, http.StatusConflict, syncResponse{
			Status:  "busy",
			Message: "a sync is already running",
		})
		return
	}
	defer s.syncMu.Unlock()

	report := s.pipe.Run(r.Context())

	resp := syncResponse{
		Status:    string(report.Status()),
		Message:   report.Summary(),
		Processed: report.Processed,
		Skipped:   report.Skipped,
		RunID:     report.RunID,
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePreview returns the most recently updated records.
// A store read failure renders as "no data yet" rather than an error page.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListAll(r.Context(), s.cfg.Preview.Limit)
	if err != nil {
		logging.FromContext(r.Context()).Error("preview read failed", "error", err)
		writeJSON(w, http.StatusOK, previewResponse{Records: []registry.Record{}, Message: "no data yet"})
		return
	}
	if records == nil {
		records = []registry.Record{}
	}
	writeJSON(w, http.StatusOK, previewResponse{Records: records})
}

// handleExport streams the full table as a CSV download. The filename
// embeds the current date. A read failure degrades to a header-only file.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListAll(r.Context(), 0)
	if err != nil {
		logging.FromContext(r.Context()).Error("export read failed", "error", err)
		records = nil
	}

	filename := fmt.Sprintf("businesses_%s.csv", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := registry.WriteCSV(w, records); err != nil {
		logging.FromContext(r.Context()).Error("export write failed", "error", err)
	}
}

// handleRuns returns recent sync-run history.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.RecentRuns(r.Context(), 10)
	if err != nil {
		logging.FromContext(r.Context()).Error("runs read failed", "error", err)
		runs = nil
	}
	if runs == nil {
		runs = []registry.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// handleHealthz reports liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// writeJSON encodes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, message)
}
