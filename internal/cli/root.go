// Package cli implements the shelfctl command line.
package cli

import (
	"io"

	"github.com/rogerio-castellano/shelf-locator/internal/client"
	"github.com/rogerio-castellano/shelf-locator/internal/config"
	"github.com/rogerio-castellano/shelf-locator/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	baseURL    string
	token      string

	cfg *config.Config
	log *logrus.Logger
}

// NewRootCommand wires the shelfctl command tree. Output goes to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "shelfctl",
		Short: "Manage and query the storefront shelf catalog",
		Long: `shelfctl imports product records into the catalog store, looks
products up through the API and draws the shelf map in the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logging.NewWithOutput(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			if a.baseURL == "" {
				a.baseURL = cfg.Client.BaseURL
			}
			return nil
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&a.baseURL, "api", "", "API base URL (defaults to client.base_url)")
	root.PersistentFlags().StringVar(&a.token, "token", "", "Bearer token for the API")

	root.AddCommand(
		newImportCommand(a),
		newLookupCommand(a),
		newMapCommand(a),
		newTokenCommand(a),
	)
	return root
}

func (a *app) client() *client.Client {
	return client.New(a.baseURL, a.cfg.Client.Timeout, client.WithToken(a.token))
}
