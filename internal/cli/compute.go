package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/copair/internal/ingest"
	"github.com/roach88/copair/internal/overlap"
	"github.com/roach88/copair/internal/report"
)

// ComputeOptions holds flags for the compute command.
type ComputeOptions struct {
	*RootOptions
	Config   string // YAML or TOML config file
	Database string // run-history database; empty uses store.path
	Now      string // reference instant for open bounds
	Sheet    string // xlsx worksheet
	Strict   bool   // fail when any row was skipped
	Limit    int    // pair rows shown in text output
}

// ComputeOutput is the JSON payload of the compute command.
type ComputeOutput struct {
	RunID  string         `json:"run_id,omitempty"`
	Report *report.Report `json:"report"`
}

// NewComputeCommand creates the compute command.
func NewComputeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ComputeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compute <file>",
		Short: "Compute pair overlaps for an assignment table",
		Long: `Reads a CSV or XLSX table of EmpID, ProjectID, DateFrom, DateTo rows
and reports every employee pair that overlapped on a shared project.

Rows that cannot be used are skipped and listed; they never stop the run
unless --strict is set. A DateFrom or DateTo of "null" (any case) is open
and resolves to --now (default: the current time). An empty date is not
open; its row is skipped like any other unparseable date.

Exit codes:
  0 - Report computed
  1 - Input rejected (too many rows) or issues found with --strict
  2 - Command error (missing file, bad config, bad flags)

Examples:
  copair compute assignments.csv
  copair compute staff.xlsx --sheet Q3 --limit 10
  copair compute assignments.csv --now 2024-01-01 --format json
  copair compute assignments.csv --db history.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "config file (.yaml, .yml or .toml)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "save the run to this SQLite database")
	cmd.Flags().StringVar(&opts.Now, "now", "", "reference instant for open DateTo (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "xlsx worksheet (default: first sheet)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit 1 if any row was skipped or unreadable")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show at most this many pairs (0 = all)")

	return cmd
}

func runCompute(opts *ComputeOptions, path string, cmd *cobra.Command) error {
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, "--limit must be non-negative")
	}
	var ref time.Time
	if opts.Now != "" {
		t, err := overlap.ParseReference(opts.Now)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --now", err)
		}
		ref = t
	}

	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return err
	}
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	formatter := newFormatter(opts.RootOptions, cmd)

	readOpts := cfg.ReadOptions()
	if opts.Sheet != "" {
		readOpts.Sheet = opts.Sheet
	}

	logger.Debug("reading input", "path", path, "format", ingest.DetectFormat(path))
	table, err := ingest.ReadFile(path, readOpts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}

	agg := overlap.New(append(cfg.AggregatorOptions(), overlap.WithLogger(logger))...)
	rep, err := report.Build(table, report.Options{
		Coerce:     cfg.CoerceOptions(),
		MaxRows:    cfg.Input.MaxRows,
		Aggregator: agg,
		Reference:  ref,
	})
	if err != nil {
		if errors.Is(err, report.ErrTooManyRows) {
			return WrapExitError(ExitFailure, "input rejected", err)
		}
		return WrapExitError(ExitCommandError, "failed to build report", err)
	}
	logger.Debug("report built",
		"rows_used", rep.RowsUsed,
		"rows_skipped", rep.RowsSkipped,
		"pairs", len(rep.Pairs),
		"input_digest", rep.InputDigest)

	out := ComputeOutput{Report: rep}
	if dbPath := resolveDatabase(opts.Database, cfg); dbPath != "" {
		id, err := saveRun(cmd, dbPath, rep)
		if err != nil {
			return err
		}
		out.RunID = id
		logger.Debug("run saved", "db", dbPath, "run_id", id)
	}

	strictFail := opts.Strict && !rep.Clean()
	if opts.Format == "json" {
		if strictFail {
			if err := formatter.Failure(out, CodeInputIssues, issuesMessage(rep)); err != nil {
				return err
			}
			return NewExitError(ExitFailure, issuesMessage(rep))
		}
		return formatter.Success(out)
	}

	w := cmd.OutOrStdout()
	if err := report.WriteText(w, rep, report.TextOptions{Limit: opts.Limit}); err != nil {
		return err
	}
	if out.RunID != "" {
		fmt.Fprintf(w, "\nSaved run %s\n", out.RunID)
	}
	if strictFail {
		return NewExitError(ExitFailure, issuesMessage(rep))
	}
	return nil
}

func saveRun(cmd *cobra.Command, dbPath string, rep *report.Report) (string, error) {
	st, err := openStore(dbPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	id, err := st.WriteRun(commandContext(cmd), rep)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to save run", err)
	}
	return id, nil
}

func issuesMessage(rep *report.Report) string {
	var parts []string
	if n := len(rep.ParseErrors); n > 0 {
		parts = append(parts, fmt.Sprintf("%d parse error(s)", n))
	}
	if n := rep.RowsSkipped; n > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped row(s)", n))
	}
	return "strict mode: " + strings.Join(parts, ", ")
}
