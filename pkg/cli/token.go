package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joeydtaylor/steeze-fn/pkg/middleware/auth"
)

type TokenOptions struct {
	*RootOptions
	Subject string
	Role    string
	TTL     time.Duration
}

func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the admin endpoints",
		Long: `Sign an HS256 token with the secret named by [admin] secret_env.

Examples:
  STEEZE_ADMIN_SECRET=... steeze-fn token --sub deploy-bot
  curl -X POST -H "Authorization: Bearer $(steeze-fn token)" localhost:4000/_admin/reload`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadManifest()
			if err != nil {
				return err
			}
			secret := strings.TrimSpace(os.Getenv(cfg.Admin.SecretEnv))
			if secret == "" {
				return WrapExitError(ExitCommandError, "no signing secret",
					errors.New("$"+cfg.Admin.SecretEnv+" is empty"))
			}
			role := opts.Role
			if role == "" {
				role = cfg.Admin.Role
			}
			tok, err := auth.Sign([]byte(secret), cfg.Admin.Issuer, opts.Subject, role, opts.TTL)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to sign token", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Subject, "sub", "admin", "token subject")
	cmd.Flags().StringVar(&opts.Role, "role", "", "role claim (default [admin] role)")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", time.Hour, "token lifetime")
	return cmd
}
