package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/copair/internal/ingest"
	"github.com/roach88/copair/internal/ir"
)

// timeLayout stores instants as sortable UTC text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t.UTC(), nil
}

// marshalParseErrors converts parse errors to canonical JSON TEXT for storage.
// Uses RFC 8785 canonical JSON so equal inputs store equal text.
func marshalParseErrors(errs []ingest.ParseError) (string, error) {
	list := make([]any, len(errs))
	for i, pe := range errs {
		list[i] = map[string]any{
			"code":    string(pe.Code),
			"line":    pe.Line,
			"row":     pe.Row,
			"message": pe.Message,
		}
	}
	data, err := ir.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal parse errors: %w", err)
	}
	return string(data), nil
}

// unmarshalParseErrors parses stored JSON TEXT back to parse errors.
// Returns an empty slice (not nil) for an empty list.
func unmarshalParseErrors(data string) ([]ingest.ParseError, error) {
	errs := []ingest.ParseError{}
	if data == "" {
		return errs, nil
	}
	if err := json.Unmarshal([]byte(data), &errs); err != nil {
		return nil, fmt.Errorf("unmarshal parse errors: %w", err)
	}
	return errs, nil
}

// nullableTop splits an optional top pair into nullable columns.
func nullableTop(top *ir.PairRecord) (low, high, project, days sql64) {
	if top == nil {
		return sql64{}, sql64{}, sql64{}, sql64{}
	}
	return some(top.EmployeeLow), some(top.EmployeeHigh), some(top.ProjectID), some(top.TotalDays)
}

// topFromColumns rebuilds the top pair; all four columns are null together.
func topFromColumns(low, high, project, days sql64) *ir.PairRecord {
	if !low.Valid {
		return nil
	}
	return &ir.PairRecord{
		EmployeeLow:  low.Int64,
		EmployeeHigh: high.Int64,
		ProjectID:    project.Int64,
		TotalDays:    days.Int64,
	}
}
