package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-fn/pkg/routes"
	"github.com/joeydtaylor/steeze-fn/pkg/script/v8rt"
)

type RoutesOptions struct {
	*RootOptions
	Dir string
}

func NewRoutesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RoutesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Load the routes directory and print the route table",
		Long: `Compile every route file exactly as the server would and print the
resulting table. Exits non-zero on any load error, so it doubles as a
pre-deploy check.

Examples:
  steeze-fn routes
  steeze-fn routes --dir ./routes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes(opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "routes directory (overrides the manifest)")
	return cmd
}

func runRoutes(opts *RoutesOptions, out io.Writer) error {
	cfg, err := opts.loadManifest()
	if err != nil {
		return err
	}
	if opts.Dir != "" {
		cfg.Routes.Dir = opts.Dir
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	factory := opts.runtime
	if factory == nil {
		factory = v8rt.Factory()
	}
	rt, err := factory()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to create runtime", err)
	}
	defer rt.Close()

	tbl, err := routes.NewLoader(cfg.Routes, zap.NewNop()).Load(rt)
	if err != nil {
		return WrapExitError(ExitFailure, "route load failed", err)
	}
	return printRoutes(out, tbl)
}

func printRoutes(out io.Writer, tbl *routes.Table) error {
	if _, err := fmt.Fprintf(out, "%-7s %-20s %s\n", "METHOD", "PATH", "FILE"); err != nil {
		return err
	}
	for _, r := range tbl.Routes() {
		if _, err := fmt.Fprintf(out, "%-7s %-20s %s\n", r.Key.Method, r.Key.Path, r.File); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "%d routes\n", tbl.Len())
	return err
}
