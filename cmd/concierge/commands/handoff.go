package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/capitalize-ai/travel-concierge/internal/model"
)

func newHandoffCmd(opts *options) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "handoff [trigger message]",
		Short: "Render the transfer message between two teams",
		Long: `Render the announcement, introduction and trip summary shown when a
conversation moves from one consultant to another. Trip details are read
from the trigger message.

Examples:
  concierge handoff --from customer-service --to flight-operations "Flights from NYC to Paris on 2026-06-01"
  concierge handoff --to hotel-accommodations`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			for _, t := range []string{from, to} {
				if !model.TeamType(t).Valid() {
					return fmt.Errorf("unknown team %q (see 'concierge teams')", t)
				}
			}

			m := newService(opts).Handoff(model.TeamType(from), model.TeamType(to), strings.Join(args, " "))

			out := cmd.OutOrStdout()
			if opts.format == "json" {
				return writeJSON(out, m)
			}
			fmt.Fprintf(out, "%s → %s\n\n", m.FromConsultant.Name, m.ToConsultant.Name)
			fmt.Fprintln(out, m.TransferAnnouncement)
			fmt.Fprintln(out)
			fmt.Fprintln(out, m.Introduction)
			if m.Context != "" {
				fmt.Fprintln(out)
				fmt.Fprintln(out, m.Context)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", string(model.TeamCustomerService), "Team handing over")
	cmd.Flags().StringVar(&to, "to", "", "Team taking over")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
