package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"trends-explorer/pkg/render"
	"trends-explorer/pkg/trend"
)

func newBandsCommand() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "bands",
		Short: "Print the classification table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(trend.Bands())
			}
			return render.BandsTable(cmd.OutOrStdout(), trend.Bands())
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}
