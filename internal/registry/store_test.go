package registry

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	return store
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	store := newTestStore(t)

	// Second and third calls must be no-ops, not errors.
	for i := 0; i < 2; i++ {
		if err := store.EnsureSchema(context.Background()); err != nil {
			t.Fatalf("EnsureSchema() call %d error = %v", i+2, err)
		}
	}
}

func TestUpsert_InsertThenReplace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := Record{
		ID: "999", Name: "老字號禮儀社", Owner: "王小明",
		Phone: "04-1234567", Address: "台中市", Email: Sentinel,
		LastUpdated: "2026-08-01 10:00:00",
	}
	if err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	second := first
	second.Phone = "04-7654321"
	second.LastUpdated = "2026-08-02 10:00:00"
	if err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("Upsert() replace error = %v", err)
	}

	records, err := store.ListAll(ctx, 0)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("ListAll() returned %d records, want 1", len(records))
	}
	got := records[0]
	if got.Phone != "04-7654321" {
		t.Errorf("Phone = %q, want replaced value %q", got.Phone, "04-7654321")
	}
	if got.LastUpdated != "2026-08-02 10:00:00" {
		t.Errorf("LastUpdated = %q, want %q", got.LastUpdated, "2026-08-02 10:00:00")
	}
}

func TestUpsert_RepeatedSameID_NoDuplicates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := Record{ID: "12345678", Name: "甲商行", Owner: Sentinel, Phone: Sentinel, Address: Sentinel, Email: Sentinel, LastUpdated: "2026-08-01 10:00:00"}
	for i := 0; i < 5; i++ {
		if err := store.Upsert(ctx, rec); err != nil {
			t.Fatalf("Upsert() #%d error = %v", i, err)
		}
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestListAll_OrderAndLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := []Record{
		{ID: "1", Name: "a", Owner: "o", Phone: "p", Address: "a", Email: "e", LastUpdated: "2026-08-01 10:00:00"},
		{ID: "2", Name: "b", Owner: "o", Phone: "p", Address: "a", Email: "e", LastUpdated: "2026-08-03 10:00:00"},
		{ID: "3", Name: "c", Owner: "o", Phone: "p", Address: "a", Email: "e", LastUpdated: "2026-08-02 10:00:00"},
	}
	for _, r := range seed {
		if err := store.Upsert(ctx, r); err != nil {
			t.Fatalf("Upsert(%s) error = %v", r.ID, err)
		}
	}

	records, err := store.ListAll(ctx, 0)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	wantOrder := []string{"2", "3", "1"}
	if len(records) != len(wantOrder) {
		t.Fatalf("ListAll() returned %d records, want %d", len(records), len(wantOrder))
	}
	for i, want := range wantOrder {
		if records[i].ID != want {
			t.Errorf("records[%d].ID = %q, want %q", i, records[i].ID, want)
		}
	}

	limited, err := store.ListAll(ctx, 2)
	if err != nil {
		t.Fatalf("ListAll(limit=2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("ListAll(limit=2) returned %d records, want 2", len(limited))
	}
}

func TestRunHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	runs := []Run{
		{ID: "run-1", StartedAt: "2026-08-01 10:00:00", DurationMS: 120, Processed: 10, Skipped: 1, Status: RunSucceeded, Detail: "sync complete: 10 records processed"},
		{ID: "run-2", StartedAt: "2026-08-02 10:00:00", DurationMS: 80, Processed: 0, Skipped: 0, Status: RunFailed, Detail: "sync failed: fetch: unexpected status 503 Service Unavailable"},
	}
	for _, r := range runs {
		if err := store.RecordRun(ctx, r); err != nil {
			t.Fatalf("RecordRun(%s) error = %v", r.ID, err)
		}
	}

	got, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("RecentRuns() returned %d runs, want 2", len(got))
	}
	if got[0].ID != "run-2" {
		t.Errorf("most recent run = %q, want run-2", got[0].ID)
	}
	if got[0].Status != RunFailed {
		t.Errorf("run-2 status = %q, want %q", got[0].Status, RunFailed)
	}
}

func TestExportCSV_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := []Record{
		{ID: "12345678", Name: "老字號禮儀社", Owner: "王小明", Phone: "04-1234567", Address: "台中市西區", Email: Sentinel, LastUpdated: "2026-08-01 10:00:00"},
		{ID: "87654321", Name: "新開商行", Owner: "李小華", Phone: Sentinel, Address: "台中市北區", Email: "shop@example.com", LastUpdated: "2026-08-01 10:00:00"},
	}
	for _, r := range seed {
		if err := store.Upsert(ctx, r); err != nil {
			t.Fatalf("Upsert(%s) error = %v", r.ID, err)
		}
	}

	var buf bytes.Buffer
	if err := store.ExportCSV(ctx, &buf); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("export is missing the UTF-8 BOM prefix")
	}

	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(out, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	if err != nil {
		t.Fatalf("re-parsing export: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("export has %d rows, want header + 2", len(rows))
	}

	// Timestamps excluded: compare the identifying tuples only.
	got := make(map[string][]string, len(rows)-1)
	for _, row := range rows[1:] {
		got[row[0]] = row[1:6]
	}
	for _, want := range seed {
		tuple, ok := got[want.ID]
		if !ok {
			t.Errorf("export missing record %s", want.ID)
			continue
		}
		fields := []string{want.Name, want.Owner, want.Phone, want.Address, want.Email}
		for i, f := range fields {
			if tuple[i] != f {
				t.Errorf("record %s field %d = %q, want %q", want.ID, i, tuple[i], f)
			}
		}
	}
}
