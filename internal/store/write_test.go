package store

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriteRun_RoundTrip(t *testing.T) {
	s := createTestStore(t, "run-1")
	ctx := context.Background()
	rep := createTestReport()

	id, err := s.WriteRun(ctx, rep)
	if err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	if id != "run-1" {
		t.Errorf("id = %q, want run-1", id)
	}

	run, err := s.ReadRun(ctx, id)
	if err != nil {
		t.Fatalf("ReadRun() failed: %v", err)
	}
	if !run.CreatedAt.Equal(testNow) {
		t.Errorf("CreatedAt = %v, want %v", run.CreatedAt, testNow)
	}
	if diff := cmp.Diff(rep, run.Report); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteRun_EmptyReport(t *testing.T) {
	s := createTestStore(t, "run-1")
	ctx := context.Background()
	rep := createEmptyReport()

	id, err := s.WriteRun(ctx, rep)
	if err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	run, err := s.ReadRun(ctx, id)
	if err != nil {
		t.Fatalf("ReadRun() failed: %v", err)
	}
	if run.Report.Top != nil {
		t.Errorf("Top = %+v, want nil", run.Report.Top)
	}
	if run.Report.Pairs == nil || run.Report.Diagnostics == nil || run.Report.ParseErrors == nil {
		t.Error("empty collections must be non-nil")
	}
	if diff := cmp.Diff(rep, run.Report); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteRun_DuplicateIDRollsBack(t *testing.T) {
	s := createTestStore(t, "run-1", "run-1")
	ctx := context.Background()

	if _, err := s.WriteRun(ctx, createTestReport()); err != nil {
		t.Fatalf("first WriteRun() failed: %v", err)
	}
	if _, err := s.WriteRun(ctx, createEmptyReport()); err == nil {
		t.Fatal("expected primary key violation on duplicate id")
	}

	var pairs int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM pair_records").Scan(&pairs); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if pairs != 2 {
		t.Errorf("pair_records = %d, want 2 (failed write must not leave rows)", pairs)
	}
}

func TestWriteRun_UUIDv7IDs(t *testing.T) {
	s := createTestStore(t)
	s.ids = UUIDv7Generator{}

	id, err := s.WriteRun(context.Background(), createEmptyReport())
	if err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	if len(id) != 36 {
		t.Errorf("id = %q, want 36-char UUID", id)
	}
}
