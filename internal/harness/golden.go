package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/copair/internal/ir"
)

// Snapshot returns the canonical JSON of a scenario result for golden comparison.
// Digests are left out so snapshots stay readable; the reference instant is kept.
func Snapshot(scenario *Scenario, result *Result) ([]byte, error) {
	rep := result.Report

	pairs := make([]any, len(rep.Pairs))
	for i, p := range rep.Pairs {
		pairs[i] = ir.PairCanonical(p)
	}

	var top any = false
	if rep.Top != nil {
		top = ir.PairCanonical(*rep.Top)
	}

	diags := make([]any, len(rep.Diagnostics))
	for i, d := range rep.Diagnostics {
		m := map[string]any{
			"code":    string(d.Code),
			"row":     d.Row,
			"message": d.Message,
		}
		if d.Field != "" {
			m["field"] = d.Field
			m["value"] = d.Value
		}
		diags[i] = m
	}

	snapshot := map[string]any{
		"scenario_name": scenario.Name,
		"reference":     rep.Reference.UTC().Format(time.RFC3339),
		"rows_used":     rep.RowsUsed,
		"rows_skipped":  rep.RowsSkipped,
		"pairs":         pairs,
		"top":           top,
		"diagnostics":   diags,
	}

	data, err := ir.MarshalCanonical(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// GoldenPath returns the golden file of a scenario file: golden/<name>.golden
// next to the scenario.
func GoldenPath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// UpdateGolden writes the snapshot as the scenario's golden file.
func UpdateGolden(scenarioFile string, snapshot []byte) error {
	path := GoldenPath(scenarioFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, snapshot, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether the snapshot matches the scenario's golden
// file. ok is false with a nil error when the golden file does not exist;
// exists tells the two apart.
func CompareGolden(scenarioFile string, snapshot []byte) (ok, exists bool, err error) {
	data, err := os.ReadFile(GoldenPath(scenarioFile))
	if os.IsNotExist(err) {
		return false, false, nil
	}
	if err != nil {
		return false, true, fmt.Errorf("failed to read golden file: %w", err)
	}
	return bytes.Equal(data, snapshot), true, nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/scenarios/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	snapshot, err := Snapshot(scenario, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/scenarios/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snapshot)

	return result, nil
}
