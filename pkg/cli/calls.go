package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/joeydtaylor/steeze-fn/pkg/journal"
)

type CallsOptions struct {
	*RootOptions
	Database string
	Limit    int
}

func NewCallsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CallsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "calls",
		Short: "Print recent calls from the journal",
		Long: `Print the most recent calls recorded in the SQLite call journal,
newest first.

Examples:
  steeze-fn calls
  steeze-fn calls --db ./steeze-journal.db --limit 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalls(opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.Database, "db", "", "journal path (overrides the manifest)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "number of calls to print")
	return cmd
}

func runCalls(opts *CallsOptions, out io.Writer) error {
	path := opts.Database
	if path == "" {
		cfg, err := opts.loadManifest()
		if err != nil {
			return err
		}
		path = cfg.Journal.Path
	}

	st, err := journal.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer st.Close()

	entries, err := st.Recent(context.Background(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No calls recorded")
		return nil
	}

	fmt.Fprintf(out, "%-20s  %-36s  %-7s  %-24s  %-11s  %6s  %s\n",
		"AT", "CALL ID", "METHOD", "PATH", "OUTCOME", "STATUS", "DURATION")
	for _, e := range entries {
		fmt.Fprintf(out, "%-20s  %-36s  %-7s  %-24s  %-11s  %6d  %s\n",
			e.At.UTC().Format(time.DateTime), e.ID, e.Method, e.Path, e.Outcome, e.Status, e.Duration)
	}
	return nil
}
