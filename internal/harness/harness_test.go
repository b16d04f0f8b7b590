package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenariosGolden(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)

	for _, f := range files {
		scenario, err := LoadScenario(f)
		require.NoError(t, err, f)

		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, strings.Join(result.Errors, "\n"))
		})
	}
}

func TestRunReportsAssertionFailures(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: wrong
description: "every assertion is wrong"
rows:
  - [1, 100, 2023-01-01, 2023-01-10]
  - [2, 100, 2023-01-05, 2023-01-15]
assertions:
  - type: pair_days
    low: 1
    high: 2
    project: 100
    days: 5
  - type: pair_count
    count: 2
  - type: top_pair
    low: 1
    high: 3
    project: 100
  - type: no_top
  - type: diagnostic_count
    code: MALFORMED_ROW
    count: 1
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 5)
	assert.Contains(t, result.Errors[0], "Expected: 1|2|100 = 5 days")
	assert.Contains(t, result.Errors[0], "Actual: 1|2|100 = 6 days")
	assert.Contains(t, result.Errors[0], "[1] 1|2|100 = 6 days")
	assert.Contains(t, result.Errors[1], "Expected: 2 pairs")
	assert.Contains(t, result.Errors[2], "Expected: 1|3|100")
	assert.Contains(t, result.Errors[2], "Actual: 1|2|100 with 6 days")
	assert.Contains(t, result.Errors[3], "Assertion failed: no_top")
	assert.Contains(t, result.Errors[4], "Expected: 1 MALFORMED_ROW diagnostics")
}

func TestRunTopPairWithoutTop(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: lonely
description: "one row, no pairs"
rows:
  - [1, 100, 2023-01-01, 2023-01-10]
assertions:
  - type: top_pair
    low: 1
    high: 2
    project: 100
    days: 3
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Expected: 1|2|100 with 3 days")
	assert.Contains(t, result.Errors[0], "Actual: no top pair")
}

func TestRunParallelMatchesSequential(t *testing.T) {
	base, err := LoadScenario("testdata/scenarios/tie_first_seen.yaml")
	require.NoError(t, err)

	sequential, err := Run(base)
	require.NoError(t, err)

	parallel := *base
	parallel.Workers = 3
	got, err := Run(&parallel)
	require.NoError(t, err)

	assert.Equal(t, sequential.Report.Pairs, got.Report.Pairs)
	assert.Equal(t, sequential.Report.Top, got.Report.Top)
	assert.Equal(t, sequential.Report.ResultDigest, got.Report.ResultDigest)
}

func TestRunCustomLayouts(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: european
description: "day-first dates via custom layouts"
layouts: ["02.01.2006"]
rows:
  - [1, 9, 01.03.2023, 10.03.2023]
  - [2, 9, 05.03.2023, 20.03.2023]
assertions:
  - type: pair_days
    low: 1
    high: 2
    project: 9
    days: 6
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, strings.Join(result.Errors, "\n"))
}

func TestRunHeaderAlways(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: forced_header
description: "header always drops the first row even when numeric"
header: always
rows:
  - [1, 9, 2023-03-01, 2023-03-10]
  - [2, 9, 2023-03-05, 2023-03-20]
assertions:
  - type: pair_count
    count: 0
  - type: diagnostic_count
    count: 0
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, strings.Join(result.Errors, "\n"))
	assert.True(t, result.Report.HeaderSkipped)
}
