package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rogerio-castellano/shelf-locator/internal/client"
	"github.com/rogerio-castellano/shelf-locator/internal/layout"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#dddddd"}).
		Bold(true).
		Margin(0, 0, 1, 0)

	shelfStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "#005577", Dark: "#00aadd"}).
		Padding(0, 1)

	shelfTitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#859900", Dark: "#50fa7b"}).
		Bold(true)

	cellStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(lipgloss.AdaptiveColor{Light: "#262626", Dark: "#d9d9d9"})

	highlightStyle = cellStyle.
		Foreground(lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#000000"}).
		Background(lipgloss.AdaptiveColor{Light: "#b58900", Dark: "#f1fa8c"}).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#dc322f", Dark: "#ff5555"}).
		Bold(true)
)

// highlightMarker keeps the selection visible when colors are stripped.
const highlightMarker = ">"

// RenderMap draws every shelf of l, marking the cell whose code equals
// highlight. An empty highlight marks nothing.
func RenderMap(l *layout.Layout, highlight string) string {
	shelves := make([]string, 0, len(l.Shelves))
	for _, s := range l.Shelves {
		lines := []string{shelfTitleStyle.Render(strings.TrimSpace(s.ID + " " + s.Title))}
		for _, row := range s.Rows {
			codes := row.Codes(s.ID)
			cells := make([]string, 0, len(codes))
			for _, code := range codes {
				if code == highlight {
					cells = append(cells, highlightStyle.Render(highlightMarker+code))
					continue
				}
				cells = append(cells, cellStyle.Render(" "+code))
			}
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		}
		shelves = append(shelves, shelfStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	}
	return titleStyle.Render(l.Title) + "\n" + lipgloss.JoinVertical(lipgloss.Left, shelves...)
}

// errorMessage prefers the API's own message over transport detail.
func errorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "lookup service unavailable: " + err.Error()
}

func newMapCommand(a *app) *cobra.Command {
	var code, pos string

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Draw the shelf map, optionally highlighting a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := layout.Load(a.cfg.Layout.Path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if code == "" && pos == "" {
				fmt.Fprintln(out, RenderMap(l, ""))
				return nil
			}

			res, err := lookup(cmd, a, code, pos)
			if err != nil {
				fmt.Fprintln(out, RenderMap(l, ""))
				fmt.Fprintln(out, errorStyle.Render(errorMessage(err)))
				return nil
			}
			if !l.Contains(res.Pos) {
				a.log.WithField("pos", res.Pos).Warn("resolved position is not on the map")
			}
			fmt.Fprintln(out, RenderMap(l, res.Pos))
			printDetail(out, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "highlight the position holding this product code")
	cmd.Flags().StringVar(&pos, "pos", "", "show the detail for this position")
	cmd.MarkFlagsMutuallyExclusive("code", "pos")
	return cmd
}
