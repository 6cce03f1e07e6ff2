package cli

import (
	"fmt"
	"time"

	"github.com/rogerio-castellano/shelf-locator/internal/auth"
	"github.com/spf13/cobra"
)

func newTokenCommand(a *app) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a Bearer token signed with auth.jwt_secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Auth.JWTSecret == "" {
				return fmt.Errorf("auth.jwt_secret is not set")
			}
			token, err := auth.NewAuthenticator(a.cfg.Auth.JWTSecret).GenerateToken(subject, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "storefront", "token subject")
	cmd.Flags().StringVar(&role, "role", "viewer", "token role")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
