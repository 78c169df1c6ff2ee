// Package cli implements the steeze-fn command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/joeydtaylor/steeze-fn/pkg/manifest"
	"github.com/joeydtaylor/steeze-fn/pkg/script"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Manifest string

	// runtime overrides the V8 factory; tests only.
	runtime script.Factory
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "steeze-fn",
		Short: "Convention-routed JavaScript function host",
		Long: `steeze-fn serves HTTP requests with JavaScript handlers discovered from a
routes directory. A file routes/hello/get.js answers GET /hello.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.Manifest, "config", "c", "", "manifest path (default $STEEZE_MANIFEST or steeze.toml)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewRoutesCommand(opts))
	cmd.AddCommand(NewCallsCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}

// loadManifest resolves the manifest the same way the server does.
func (o *RootOptions) loadManifest() (manifest.Config, error) {
	path := o.Manifest
	if path == "" {
		path = envOr("STEEZE_MANIFEST", "steeze.toml")
	}
	cfg, err := manifest.LoadOrDefault(path)
	if err != nil {
		return manifest.Config{}, WrapExitError(ExitCommandError, "failed to load manifest", err)
	}
	return cfg, nil
}
