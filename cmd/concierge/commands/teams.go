package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTeamsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "List specialist teams and their consultants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			teams := newService(opts).Teams()

			out := cmd.OutOrStdout()
			if opts.format == "json" {
				return writeJSON(out, teams)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "TEAM\tCONSULTANT\tTITLE\n")
			fmt.Fprintf(w, "----\t----------\t-----\n")
			for _, c := range teams {
				fmt.Fprintf(w, "%s\t%s %s\t%s\n", c.Team, c.Name, c.Emoji, c.Title)
			}
			return w.Flush()
		},
	}
}
