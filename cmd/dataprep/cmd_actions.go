package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kbukum/dataprep/action/builtin"
)

func newActionsCmd(_ *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List the available actions and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			descriptors := builtin.NewRegistry().Describe()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(descriptors)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCATEGORY\tPARAMETERS")
			for _, d := range descriptors {
				var params []string
				for _, p := range d.Parameters {
					if !p.Implicit {
						params = append(params, fmt.Sprintf("%s:%s", p.Name, p.Type))
					}
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Name, d.Category, strings.Join(params, " "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print descriptors as JSON")
	return cmd
}
