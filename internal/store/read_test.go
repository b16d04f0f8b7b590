package store

import (
	"context"
	"testing"
	"time"

	"github.com/roach88/copair/internal/testutil"
)

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected error for unknown run")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false", err)
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := createTestStore(t, "run-a", "run-b", "run-c")
	s.clock = testutil.NewSteppingClock(testNow, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.WriteRun(ctx, createTestReport()); err != nil {
			t.Fatalf("WriteRun() %d failed: %v", i, err)
		}
	}

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	want := []string{"run-c", "run-b", "run-a"}
	if len(runs) != len(want) {
		t.Fatalf("got %d runs, want %d", len(runs), len(want))
	}
	for i, id := range want {
		if runs[i].ID != id {
			t.Errorf("runs[%d].ID = %q, want %q", i, runs[i].ID, id)
		}
	}

	first := runs[0]
	if first.PairCount != 2 || first.RowsUsed != 4 || first.RowsSkipped != 1 {
		t.Errorf("summary counts = %+v", first)
	}
	if first.Top == nil || first.Top.TotalDays != 6 {
		t.Errorf("summary top = %+v", first.Top)
	}

	limited, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns(2) failed: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "run-c" {
		t.Errorf("limited = %+v", limited)
	}
}

func TestListRuns_SameInstantOrdersByID(t *testing.T) {
	s := createTestStore(t, "run-a", "run-b")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := s.WriteRun(ctx, createEmptyReport()); err != nil {
			t.Fatalf("WriteRun() failed: %v", err)
		}
	}

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-b" || runs[1].ID != "run-a" {
		t.Errorf("runs = %+v", runs)
	}
	if runs[0].Top != nil {
		t.Errorf("empty run has top %+v", runs[0].Top)
	}
}

func TestListRuns_Empty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if runs == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(runs) != 0 {
		t.Errorf("got %d runs", len(runs))
	}
}

func TestFindByDigest(t *testing.T) {
	s := createTestStore(t, "run-1", "run-2", "run-3")
	ctx := context.Background()

	if _, err := s.WriteRun(ctx, createTestReport()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.WriteRun(ctx, createEmptyReport()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.WriteRun(ctx, createTestReport()); err != nil {
		t.Fatal(err)
	}

	runs, err := s.FindByDigest(ctx, "aaaa")
	if err != nil {
		t.Fatalf("FindByDigest() failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-3" || runs[1].ID != "run-1" {
		t.Errorf("runs = %+v", runs)
	}

	none, err := s.FindByDigest(ctx, "zzzz")
	if err != nil {
		t.Fatalf("FindByDigest() failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %+v", none)
	}
}

func TestFixedGenerator_Exhausted(t *testing.T) {
	g := NewFixedGenerator("only")
	if got := g.Generate(); got != "only" {
		t.Fatalf("Generate() = %q", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic when ids are exhausted")
		}
	}()
	g.Generate()
}
