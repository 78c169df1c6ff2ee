package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/joeydtaylor/steeze-fn/pkg/serverfx"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load routes and serve HTTP",
		Long: `Load every route file, then serve HTTP until interrupted.

Any route load error (unreadable file, compile error, duplicate route) aborts
startup with a non-zero exit. Send SIGHUP to reload routes in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []serverfx.Option{serverfx.WithManifestPath(rootOpts.Manifest)}
			if rootOpts.runtime != nil {
				opts = append(opts, serverfx.WithRuntime(rootOpts.runtime))
			}
			// Run blocks until SIGINT/SIGTERM and exits non-zero if start fails.
			fx.New(serverfx.Module(opts...)).Run()
			return nil
		},
	}
}
