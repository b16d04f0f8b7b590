package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/copair/internal/report"
	"github.com/roach88/copair/internal/store"
)

// HistoryOptions holds flags for the history and show commands.
type HistoryOptions struct {
	*RootOptions
	Config   string
	Database string
	Limit    int
	Digest   string // history only: filter by input digest
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved runs",
		Long: `Lists runs saved by "compute --db", newest first.

Examples:
  copair history --db history.db
  copair history --db history.db --limit 5
  copair history --db history.db --digest 3f1c...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "config file (.yaml, .yml or .toml)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "run-history database (default: store.path)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 = all)")
	cmd.Flags().StringVar(&opts.Digest, "digest", "", "only runs with this input digest")

	return cmd
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a saved run",
		Long: `Prints a saved run in the same layout as "compute".

Examples:
  copair show 01890a5d-ac96-774b-bcce-b302099a8057 --db history.db
  copair show 01890a5d-ac96-774b-bcce-b302099a8057 --db history.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "config file (.yaml, .yml or .toml)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "run-history database (default: store.path)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show at most this many pairs (0 = all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, "--limit must be non-negative")
	}
	st, err := requireStore(opts.Database, opts.Config)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := commandContext(cmd)
	var runs []store.RunSummary
	if opts.Digest != "" {
		runs, err = st.FindByDigest(ctx, opts.Digest)
		if err == nil && opts.Limit > 0 && len(runs) > opts.Limit {
			runs = runs[:opts.Limit]
		}
	} else {
		runs, err = st.ListRuns(ctx, opts.Limit)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Format == "json" {
		return newFormatter(opts.RootOptions, cmd).Success(map[string]any{"runs": runs})
	}
	writeHistory(cmd.OutOrStdout(), runs)
	return nil
}

func writeHistory(w io.Writer, runs []store.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return
	}
	for _, r := range runs {
		top := "no pair"
		if r.Top != nil {
			top = fmt.Sprintf("%d & %d on %d: %d days",
				r.Top.EmployeeLow, r.Top.EmployeeHigh, r.Top.ProjectID, r.Top.TotalDays)
		}
		fmt.Fprintf(w, "%s  %s  %s  %d rows, %d pairs  %s\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.Source, r.RowsUsed, r.PairCount, top)
	}
}

func runShow(opts *HistoryOptions, id string, cmd *cobra.Command) error {
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, "--limit must be non-negative")
	}
	id = strings.TrimSpace(id)
	st, err := requireStore(opts.Database, opts.Config)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.ReadRun(commandContext(cmd), id)
	if err != nil {
		if store.IsNotFound(err) {
			return WrapExitError(ExitFailure, "run not found", err)
		}
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	if opts.Format == "json" {
		return newFormatter(opts.RootOptions, cmd).Success(ComputeOutput{RunID: run.ID, Report: run.Report})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Run %s (%s)\n", run.ID, run.CreatedAt.Format(time.RFC3339))
	return report.WriteText(w, run.Report, report.TextOptions{Limit: opts.Limit})
}
