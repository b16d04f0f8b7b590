package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/roach88/copair/internal/testutil"
)

func init() {
	color.NoColor = true
}

var assignmentsCSV = testutil.CSV(
	testutil.AssignmentHeader,
	testutil.Assignment("1", "100", "2023-01-01", "2023-01-10"),
	testutil.Assignment("2", "100", "2023-01-05", "2023-01-15"),
	testutil.Assignment("3", "200", "2023-01-01", "2023-01-10"),
)

// writeFile writes content under a fresh temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command with args and returns stdout, stderr and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
