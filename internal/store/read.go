package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/copair/internal/ir"
	"github.com/roach88/copair/internal/report"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// IsNotFound reports whether err means a missing run.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}

const summaryColumns = `id, created_at, source, input_digest, rows_used, rows_skipped, pair_count,
	top_low, top_high, top_project, top_days`

// ReadRun loads a run with its pair records and diagnostics.
// Returns an error matching ErrRunNotFound if the id is unknown.
func (s *Store) ReadRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, source, format, input_digest, result_digest, reference,
		       rows_read, rows_used, rows_skipped, header_skipped,
		       top_low, top_high, top_project, top_days, parse_errors
		FROM runs
		WHERE id = ?
	`, id)

	var (
		run                               Run
		rep                               report.Report
		createdAt, reference, parseErrors string
		topLow, topHigh, topProject, days sql64
	)
	err := row.Scan(
		&run.ID, &createdAt, &rep.Source, &rep.Format, &rep.InputDigest, &rep.ResultDigest, &reference,
		&rep.RowsRead, &rep.RowsUsed, &rep.RowsSkipped, &rep.HeaderSkipped,
		&topLow, &topHigh, &topProject, &days, &parseErrors,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}

	if run.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}
	if rep.Reference, err = parseTime(reference); err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}
	if rep.ParseErrors, err = unmarshalParseErrors(parseErrors); err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}
	rep.Top = topFromColumns(topLow, topHigh, topProject, days)

	if rep.Pairs, err = s.readPairs(ctx, id); err != nil {
		return nil, err
	}
	if rep.Diagnostics, err = s.readDiagnostics(ctx, id); err != nil {
		return nil, err
	}

	run.Report = &rep
	return &run, nil
}

// readPairs returns a run's pair records in their saved order.
func (s *Store) readPairs(ctx context.Context, runID string) ([]ir.PairRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_low, employee_high, project_id, total_days
		FROM pair_records
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query pair records: %w", err)
	}
	defer rows.Close()

	pairs := []ir.PairRecord{}
	for rows.Next() {
		var p ir.PairRecord
		if err := rows.Scan(&p.EmployeeLow, &p.EmployeeHigh, &p.ProjectID, &p.TotalDays); err != nil {
			return nil, fmt.Errorf("scan pair record: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pair records: %w", err)
	}
	return pairs, nil
}

// readDiagnostics returns a run's diagnostics in their saved order.
func (s *Store) readDiagnostics(ctx context.Context, runID string) ([]ir.Diagnostic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, row_index, field, value, message
		FROM diagnostics
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query diagnostics: %w", err)
	}
	defer rows.Close()

	diags := []ir.Diagnostic{}
	for rows.Next() {
		var d ir.Diagnostic
		var code string
		if err := rows.Scan(&code, &d.Row, &d.Field, &d.Value, &d.Message); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		d.Code = ir.DiagnosticCode(code)
		diags = append(diags, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diagnostics: %w", err)
	}
	return diags, nil
}

// ListRuns returns run summaries, newest first. A limit of 0 or less lists all runs.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+summaryColumns+`
		FROM runs
		ORDER BY created_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	return scanSummaries(rows)
}

// FindByDigest returns the runs whose input digest matches, newest first.
// Identical uploads share a digest regardless of file name or header row.
func (s *Store) FindByDigest(ctx context.Context, digest string) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+summaryColumns+`
		FROM runs
		WHERE input_digest = ?
		ORDER BY created_at DESC, id COLLATE BINARY DESC
	`, digest)
	if err != nil {
		return nil, fmt.Errorf("query runs by digest: %w", err)
	}
	return scanSummaries(rows)
}

func scanSummaries(rows *sql.Rows) ([]RunSummary, error) {
	defer rows.Close()

	summaries := []RunSummary{}
	for rows.Next() {
		var (
			sum                               RunSummary
			createdAt                         string
			topLow, topHigh, topProject, days sql64
		)
		if err := rows.Scan(
			&sum.ID, &createdAt, &sum.Source, &sum.InputDigest, &sum.RowsUsed, &sum.RowsSkipped, &sum.PairCount,
			&topLow, &topHigh, &topProject, &days,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		t, err := parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		sum.CreatedAt = t
		sum.Top = topFromColumns(topLow, topHigh, topProject, days)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return summaries, nil
}
