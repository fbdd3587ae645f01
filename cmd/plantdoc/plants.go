package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var plantsCmd = &cobra.Command{
	Use:   "plants",
	Short: "List the plants the engine knows about",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tALIASES\tCAUSES")
		for _, p := range eng.Plants() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
				p.ID, p.Name, strings.Join(p.Aliases, ", "), len(p.Causes))
		}
		return w.Flush()
	},
}
