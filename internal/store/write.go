package store

import (
	"context"
	"fmt"

	"github.com/roach88/copair/internal/report"
)

// WriteRun saves a report as a new run and returns its id.
//
// The run row, its pair records and its diagnostics are inserted in one
// transaction; on any failure nothing is written. Pair records keep the
// report's order through their seq column.
func (s *Store) WriteRun(ctx context.Context, rep *report.Report) (string, error) {
	parseErrors, err := marshalParseErrors(rep.ParseErrors)
	if err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}

	id := s.ids.Generate()
	createdAt := formatTime(s.clock.Now())
	topLow, topHigh, topProject, topDays := nullableTop(rep.Top)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, created_at, source, format, input_digest, result_digest, reference,
		 rows_read, rows_used, rows_skipped, header_skipped, pair_count,
		 top_low, top_high, top_project, top_days, parse_errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		createdAt,
		rep.Source,
		rep.Format,
		rep.InputDigest,
		rep.ResultDigest,
		formatTime(rep.Reference),
		rep.RowsRead,
		rep.RowsUsed,
		rep.RowsSkipped,
		rep.HeaderSkipped,
		len(rep.Pairs),
		topLow, topHigh, topProject, topDays,
		parseErrors,
	)
	if err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}

	if len(rep.Pairs) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO pair_records
			(run_id, seq, employee_low, employee_high, project_id, total_days)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return "", fmt.Errorf("write run: prepare pairs: %w", err)
		}
		defer stmt.Close()

		for i, p := range rep.Pairs {
			if _, err := stmt.ExecContext(ctx, id, i, p.EmployeeLow, p.EmployeeHigh, p.ProjectID, p.TotalDays); err != nil {
				return "", fmt.Errorf("write run: pair %s: %w", p.Key(), err)
			}
		}
	}

	for i, d := range rep.Diagnostics {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO diagnostics
			(run_id, seq, code, row_index, field, value, message)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, i, string(d.Code), d.Row, d.Field, d.Value, d.Message)
		if err != nil {
			return "", fmt.Errorf("write run: diagnostic %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("write run: commit: %w", err)
	}
	return id, nil
}
