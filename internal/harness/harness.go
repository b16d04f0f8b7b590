package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/copair/internal/ingest"
	"github.com/roach88/copair/internal/overlap"
	"github.com/roach88/copair/internal/report"
)

// Run executes a scenario and evaluates its assertions.
//
// The rows go through the same coercion and aggregation as an uploaded
// file. An error is returned only when the scenario cannot be executed;
// assertion failures are recorded in the Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with aggregator debug logs sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	ref, err := scenario.Reference()
	if err != nil {
		return nil, fmt.Errorf("invalid reference instant: %w", err)
	}

	opts := []overlap.Option{overlap.WithLogger(logger)}
	if scenario.Workers > 1 {
		opts = append(opts, overlap.WithWorkers(scenario.Workers), overlap.WithParallelThreshold(0))
	}

	rep, err := report.Build(scenarioTable(scenario), report.Options{
		Coerce: ingest.CoerceOptions{
			Header: scenario.Header,
			Parser: overlap.NewDateParser(scenario.Layouts...),
		},
		Aggregator: overlap.New(opts...),
		Reference:  ref,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}

	result := NewResult(rep)
	for _, errMsg := range EvaluateAssertions(rep, scenario.Assertions) {
		result.AddError(errMsg)
	}
	return result, nil
}

func scenarioTable(s *Scenario) *ingest.Table {
	rows := make([][]string, len(s.Rows))
	for i, r := range s.Rows {
		rows[i] = []string(r)
	}
	return &ingest.Table{
		Source: s.Name,
		Format: ingest.FormatCSV,
		Rows:   rows,
		Errors: []ingest.ParseError{},
	}
}
