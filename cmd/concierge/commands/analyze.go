package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <message>",
		Short: "Show intent, emotion, trip details and routing for a message",
		Long: `Analyze one message without any conversation history.

Examples:
  concierge analyze "Hello!"
  concierge analyze --format json "My flight was cancelled and I'm stranded"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			a := newService(opts).Analyze(strings.Join(args, " "), nil)

			out := cmd.OutOrStdout()
			if opts.format == "json" {
				return writeJSON(out, a)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Intent\t%s (%.2f)\n", a.Intent.Intent, a.Intent.Confidence)
			fmt.Fprintf(w, "Topics\t%s\n", orNone(strings.Join(a.Intent.TopicStrings(), ", ")))
			fmt.Fprintf(w, "Sentiment\t%s\n", a.Intent.Sentiment)
			fmt.Fprintf(w, "Emotion\t%s (%s urgency)\n", a.Emotion.Emotion, a.Emotion.Urgency)
			fmt.Fprintf(w, "Team\t%s\n", a.Team)
			fmt.Fprintf(w, "Consultant\t%s %s\n", a.Consultant.Name, a.Consultant.Emoji)
			fmt.Fprintf(w, "Typing delay\t%dms\n", a.TypingDelayMs)
			if a.Trip != nil {
				fmt.Fprintf(w, "Trip\t%s\n", tripLine(a.Trip.Origin, a.Trip.Destination, a.Trip.City, a.Trip.DepartureDate))
			}
			return w.Flush()
		},
	}
}

func tripLine(origin, destination, city, date string) string {
	var parts []string
	if origin != "" || destination != "" {
		parts = append(parts, fmt.Sprintf("%s → %s", orNone(origin), orNone(destination)))
	}
	if city != "" {
		parts = append(parts, "stay in "+city)
	}
	if date != "" {
		parts = append(parts, "on "+date)
	}
	return orNone(strings.Join(parts, ", "))
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
