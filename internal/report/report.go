package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/roach88/copair/internal/ingest"
	"github.com/roach88/copair/internal/ir"
	"github.com/roach88/copair/internal/overlap"
)

// ErrTooManyRows is returned by Build when the input exceeds Options.MaxRows.
var ErrTooManyRows = errors.New("too many rows")

// TooManyRowsError carries the limit that was exceeded.
type TooManyRowsError struct {
	Rows  int
	Limit int
}

func (e *TooManyRowsError) Error() string {
	return fmt.Sprintf("%s: input has %d rows, limit is %d", ErrTooManyRows, e.Rows, e.Limit)
}

// Is matches ErrTooManyRows.
func (e *TooManyRowsError) Is(target error) bool {
	return target == ErrTooManyRows
}

// Options controls Build.
type Options struct {
	Coerce ingest.CoerceOptions

	// MaxRows rejects tables with more data rows. 0 disables the guard.
	MaxRows int

	// Aggregator computes the result. Nil uses overlap.New().
	Aggregator *overlap.Aggregator

	// Reference, when non-zero, replaces the aggregator's clock for open bounds.
	Reference time.Time
}

// Report is the full outcome of one upload.
type Report struct {
	Source string `json:"source"`
	Format string `json:"format"`

	// InputDigest identifies the coerced row set; equal uploads share it.
	InputDigest  string `json:"input_digest"`
	ResultDigest string `json:"result_digest"`

	// RowsRead counts data rows, excluding a skipped header.
	RowsRead      int  `json:"rows_read"`
	RowsUsed      int  `json:"rows_used"`
	RowsSkipped   int  `json:"rows_skipped"`
	HeaderSkipped bool `json:"header_skipped"`

	// Pairs are ordered by total days descending.
	Pairs []ir.PairRecord `json:"pairs"`
	Top   *ir.PairRecord  `json:"top,omitempty"`

	Diagnostics []ir.Diagnostic     `json:"diagnostics"`
	ParseErrors []ingest.ParseError `json:"parse_errors"`

	Reference time.Time `json:"reference"`
}

// Build coerces table rows and aggregates them.
//
// Diagnostics and parse errors never fail the build; only the row guard and
// digest failures return errors.
func Build(table *ingest.Table, opts Options) (*Report, error) {
	coerced := ingest.Coerce(table, opts.Coerce)

	read := len(table.Rows)
	if coerced.HeaderSkipped {
		read--
	}
	if opts.MaxRows > 0 && read > opts.MaxRows {
		return nil, &TooManyRowsError{Rows: read, Limit: opts.MaxRows}
	}

	agg := opts.Aggregator
	if agg == nil {
		agg = overlap.New()
	}
	var res *ir.Result
	if opts.Reference.IsZero() {
		res = agg.Compute(coerced.Rows)
	} else {
		res = agg.ComputeAt(coerced.Rows, opts.Reference.UTC())
	}

	inputDigest, err := ir.InputDigest(coerced.Rows)
	if err != nil {
		return nil, fmt.Errorf("failed to digest input: %w", err)
	}
	resultDigest, err := ir.ResultDigest(res)
	if err != nil {
		return nil, fmt.Errorf("failed to digest result: %w", err)
	}

	parseErrors := table.Errors
	if parseErrors == nil {
		parseErrors = []ingest.ParseError{}
	}

	return &Report{
		Source:        table.Source,
		Format:        table.Format,
		InputDigest:   inputDigest,
		ResultDigest:  resultDigest,
		RowsRead:      read,
		RowsUsed:      len(coerced.Rows),
		RowsSkipped:   read - len(coerced.Rows),
		HeaderSkipped: coerced.HeaderSkipped,
		Pairs:         res.Pairs.Records(),
		Top:           res.Top,
		Diagnostics:   coerced.Diagnostics,
		ParseErrors:   parseErrors,
		Reference:     res.Reference,
	}, nil
}

// Clean reports whether the input produced no diagnostics and no parse errors.
func (r *Report) Clean() bool {
	return len(r.Diagnostics) == 0 && len(r.ParseErrors) == 0
}

// Issues is the number of diagnostics plus parse errors.
func (r *Report) Issues() int {
	return len(r.Diagnostics) + len(r.ParseErrors)
}

// Summary is the one-line answer: the top pair, or a no-result message.
func (r *Report) Summary() string {
	if r.Top == nil {
		return "no qualifying pair found"
	}
	return fmt.Sprintf("employees %d and %d worked together on project %d for %d days",
		r.Top.EmployeeLow, r.Top.EmployeeHigh, r.Top.ProjectID, r.Top.TotalDays)
}
