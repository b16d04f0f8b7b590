package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/copair/internal/ingest"
	"github.com/roach88/copair/internal/ir"
	"github.com/roach88/copair/internal/overlap"
	"github.com/roach88/copair/internal/report"
)

var testNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// createTestStore creates a new store in a temp dir with fixed ids and clock.
func createTestStore(t *testing.T, ids ...string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path,
		WithIDGenerator(NewFixedGenerator(ids...)),
		WithClock(overlap.NewFixedClock(testNow)),
	)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestReport creates a report with two pairs, one diagnostic and one parse error.
func createTestReport() *report.Report {
	top := ir.PairRecord{EmployeeLow: 1, EmployeeHigh: 2, ProjectID: 100, TotalDays: 6}
	return &report.Report{
		Source:        "assignments.csv",
		Format:        ingest.FormatCSV,
		InputDigest:   "aaaa",
		ResultDigest:  "bbbb",
		RowsRead:      5,
		RowsUsed:      4,
		RowsSkipped:   1,
		HeaderSkipped: true,
		Pairs: []ir.PairRecord{
			top,
			{EmployeeLow: 3, EmployeeHigh: 4, ProjectID: 200, TotalDays: 3},
		},
		Top: &top,
		Diagnostics: []ir.Diagnostic{{
			Code:    ir.DiagUnparseableDate,
			Row:     5,
			Field:   ir.FieldDateFrom,
			Value:   "someday",
			Message: `UNPARSEABLE_DATE: cannot parse "someday" as a date`,
		}},
		ParseErrors: []ingest.ParseError{{
			Code:    ingest.ErrCodeFieldCount,
			Line:    7,
			Row:     6,
			Message: "wrong number of fields",
		}},
		Reference: time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC),
	}
}

// createEmptyReport creates a report with no pairs and no issues.
func createEmptyReport() *report.Report {
	return &report.Report{
		Source:      "empty.csv",
		Format:      ingest.FormatCSV,
		InputDigest: "cccc",
		Pairs:       []ir.PairRecord{},
		Diagnostics: []ir.Diagnostic{},
		ParseErrors: []ingest.ParseError{},
		Reference:   time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC),
	}
}
