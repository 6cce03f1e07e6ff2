package cli

import (
	"fmt"
	"io"

	"github.com/rogerio-castellano/shelf-locator/internal/resolver"
	"github.com/spf13/cobra"
)

func newLookupCommand(a *app) *cobra.Command {
	var code, pos string

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Look a product up by code or position",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := lookup(cmd, a, code, pos)
			if err != nil {
				return err
			}
			printDetail(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "product code")
	cmd.Flags().StringVar(&pos, "pos", "", "storage position, e.g. A02-D01")
	cmd.MarkFlagsMutuallyExclusive("code", "pos")
	cmd.MarkFlagsOneRequired("code", "pos")
	return cmd
}

func lookup(cmd *cobra.Command, a *app, code, pos string) (resolver.Result, error) {
	c := a.client()
	if code != "" {
		return c.ByCode(cmd.Context(), code)
	}
	return c.ByPos(cmd.Context(), pos)
}

func printDetail(w io.Writer, r resolver.Result) {
	fmt.Fprintf(w, "pos:          %s\n", r.Pos)
	fmt.Fprintf(w, "code:         %s\n", r.Code)
	fmt.Fprintf(w, "product_list: %s\n", r.ProductList)
	fmt.Fprintf(w, "quantity:     %s\n", r.Quantity)
	fmt.Fprintf(w, "position:     %s\n", r.Position)
}
