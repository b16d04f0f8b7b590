package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/copair/internal/ir"
)

type computeEnvelope struct {
	Status string        `json:"status"`
	Data   ComputeOutput `json:"data"`
	Error  *CLIError     `json:"error"`
}

func TestComputeText(t *testing.T) {
	path := writeFile(t, "assignments.csv", assignmentsCSV)

	out, _, err := execute(t, "compute", path, "--now", "2024-01-01")
	require.NoError(t, err)

	assert.Contains(t, out, "Source: assignments.csv (csv)")
	assert.Contains(t, out, "Rows: 3 read, 3 used, 0 skipped")
	assert.Contains(t, out, "Reference: 2024-01-01T00:00:00Z")
	assert.Contains(t, out, "Top pair: employees 1 and 2 worked together on project 100 for 6 days")
	assert.NotContains(t, out, "Saved run")
}

func TestComputeJSON(t *testing.T) {
	path := writeFile(t, "assignments.csv", assignmentsCSV)

	out, _, err := execute(t, "compute", path, "--now", "2024-01-01", "--format", "json")
	require.NoError(t, err)

	var resp computeEnvelope
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.Data.RunID)

	rep := resp.Data.Report
	require.NotNil(t, rep)
	assert.Equal(t, []ir.PairRecord{
		{EmployeeLow: 1, EmployeeHigh: 2, ProjectID: 100, TotalDays: 6},
	}, rep.Pairs)
	require.NotNil(t, rep.Top)
	assert.Equal(t, int64(6), rep.Top.TotalDays)
	assert.True(t, rep.Reference.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.NotEmpty(t, rep.InputDigest)
}

func TestComputeOpenBoundUsesNow(t *testing.T) {
	path := writeFile(t, "open.csv", "1,100,2024-01-01,NULL\n2,100,2024-01-05, null \n")

	out, _, err := execute(t, "compute", path, "--now", "2024-01-10", "--format", "json")
	require.NoError(t, err)

	var resp computeEnvelope
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Data.Report.Top)
	// Jan 5 through Jan 10 inclusive
	assert.Equal(t, int64(6), resp.Data.Report.Top.TotalDays)
}

func TestComputeSkippedRowsAreReported(t *testing.T) {
	path := writeFile(t, "bad.csv", assignmentsCSV+"4,300,not-a-date,2023-01-10\n")

	out, _, err := execute(t, "compute", path, "--now", "2024-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Rows: 4 read, 3 used, 1 skipped")
	assert.Contains(t, out, "Skipped rows (1):")
}

func TestComputeStrict(t *testing.T) {
	path := writeFile(t, "bad.csv", assignmentsCSV+"4,300,not-a-date,2023-01-10\n")

	t.Run("text", func(t *testing.T) {
		out, _, err := execute(t, "compute", path, "--strict")
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, err.Error(), "1 skipped row(s)")
		// report is still printed
		assert.Contains(t, out, "Top pair:")
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := execute(t, "compute", path, "--strict", "--format", "json")
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))

		var resp computeEnvelope
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "error", resp.Status)
		require.NotNil(t, resp.Error)
		assert.Equal(t, CodeInputIssues, resp.Error.Code)
		require.NotNil(t, resp.Data.Report)
		assert.Len(t, resp.Data.Report.Diagnostics, 1)
	})

	t.Run("clean input passes", func(t *testing.T) {
		clean := writeFile(t, "clean.csv", assignmentsCSV)
		_, _, err := execute(t, "compute", clean, "--strict")
		require.NoError(t, err)
	})
}

func TestComputeLimit(t *testing.T) {
	path := writeFile(t, "many.csv", `1,100,2023-01-01,2023-01-10
2,100,2023-01-01,2023-01-10
3,100,2023-01-01,2023-01-10
`)

	out, _, err := execute(t, "compute", path, "--limit", "1", "--now", "2024-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "... 2 more")
}

func TestComputeTooManyRows(t *testing.T) {
	path := writeFile(t, "assignments.csv", assignmentsCSV)
	cfgPath := writeFile(t, "copair.yaml", "input:\n  max_rows: 2\n")

	_, _, err := execute(t, "compute", path, "--config", cfgPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "too many rows")
}

func TestComputeCommandErrors(t *testing.T) {
	path := writeFile(t, "assignments.csv", assignmentsCSV)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"compute", filepath.Join(t.TempDir(), "nope.csv")}, "failed to read input"},
		{"bad now", []string{"compute", path, "--now", "yesterday"}, "invalid --now"},
		{"negative limit", []string{"compute", path, "--limit", "-1"}, "--limit must be non-negative"},
		{"missing config", []string{"compute", path, "--config", filepath.Join(t.TempDir(), "c.yaml")}, "failed to load config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestComputeConfigTOML(t *testing.T) {
	path := writeFile(t, "slashes.csv", "1,100,01/02/2023,01/10/2023\n2,100,01/05/2023,01/15/2023\n")
	cfgPath := writeFile(t, "copair.toml", "[dates]\nlayouts = [\"01/02/2006\"]\n")

	out, _, err := execute(t, "compute", path, "--config", cfgPath, "--format", "json")
	require.NoError(t, err)

	var resp computeEnvelope
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Data.Report.Top)
	assert.Equal(t, int64(6), resp.Data.Report.Top.TotalDays)
}

func TestComputeLegacyXLS(t *testing.T) {
	path := writeFile(t, "old.xls", "not a workbook")

	out, _, err := execute(t, "compute", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Source: old.xls (xls)")
	assert.Contains(t, out, "No qualifying pair found")
	assert.Contains(t, out, "Parse errors (1):")
	assert.Contains(t, out, "UNSUPPORTED_FORMAT")
}

func TestComputeStrictCountsRowsNotDiagnostics(t *testing.T) {
	// Both ids are bad, so the row yields two diagnostics.
	path := writeFile(t, "bad.csv", assignmentsCSV+"x,y,2023-01-01,2023-01-10\n")

	_, _, err := execute(t, "compute", path, "--strict")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "strict mode: 1 skipped row(s)", err.Error())
}

func TestComputeEmptyDateIsNotOpen(t *testing.T) {
	path := writeFile(t, "empty.csv", "1,100,2024-01-01,NULL\n2,100,2024-01-05,\n")

	out, _, err := execute(t, "compute", path, "--now", "2024-01-10")
	require.NoError(t, err)
	assert.Contains(t, out, "Rows: 2 read, 1 used, 1 skipped")
	assert.Contains(t, out, "No qualifying pair found")
}
