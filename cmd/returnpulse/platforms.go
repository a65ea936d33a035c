package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	handlers "returnpulse/internal/transport/http"
)

func newPlatformsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "platforms",
		Short: "List the supported platforms and their column mappings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listing := handlers.PlatformListing()
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(listing)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSKU COLUMN\tREASON COLUMN\tQUANTITY COLUMN\tKEYWORDS")
			for _, p := range listing.Platforms {
				quantity := p.QuantityColumn
				if quantity == "" {
					quantity = "(1 per row)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					p.ID, p.DisplayName, p.SKUColumn, p.ReasonColumn, quantity, strings.Join(p.Keywords, ", "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
