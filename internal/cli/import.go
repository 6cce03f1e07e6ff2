package cli

import (
	"fmt"

	"github.com/rogerio-castellano/shelf-locator/internal/db"
	"github.com/rogerio-castellano/shelf-locator/internal/importer"
	"github.com/spf13/cobra"
)

func newImportCommand(a *app) *cobra.Command {
	var csvFile string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import product records from CSV into the store",
		Long: `Import upserts every CSV row keyed by its pos column. Expected headers
(case-insensitive): pos, code, product_list, quantity, position.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, closeStore, err := db.OpenProductStore(ctx, a.cfg.Store, a.log)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer closeStore()

			res, err := importer.New(store, a.log).ImportFile(ctx, csvFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "inserted: %d, updated: %d, failed: %d\n", res.Inserted, res.Updated, res.Failed())
			for _, e := range res.Errors {
				fmt.Fprintf(out, "  row %d: %s\n", e.Row, e.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&csvFile, "csv", "c", "", "CSV file to import (required)")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}
