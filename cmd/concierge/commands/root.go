// Package commands implements the concierge CLI.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/capitalize-ai/travel-concierge/internal/service"
	"github.com/capitalize-ai/travel-concierge/internal/session"
	"github.com/capitalize-ai/travel-concierge/internal/store"
	"github.com/capitalize-ai/travel-concierge/pkg/logger"
)

type options struct {
	format  string
	verbose bool
}

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "concierge",
		Short: "Inspect how the travel concierge reads and routes messages",
		Long: `concierge runs the intent, emotion and handoff engine locally.

Nothing is persisted and no network calls are made; replies come from the
built-in templates.

Examples:
  concierge analyze "I need a flight to Tokyo next Friday"
  concierge handoff --from customer-service --to hotel-accommodations "hotel in Rome"
  concierge teams
  concierge chat`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log engine decisions to stderr")

	cmd.AddCommand(
		newAnalyzeCmd(opts),
		newHandoffCmd(opts),
		newTeamsCmd(opts),
		newChatCmd(opts),
	)
	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// newService builds an in-memory concierge.
func newService(opts *options) *service.ConciergeService {
	log := logger.Nop()
	if opts.verbose {
		if l, err := logger.NewDevelopment(); err == nil {
			log = l
		}
	}
	return service.NewConciergeService(store.NewMemoryStore(), session.NewRegistry(time.Hour), nil, nil, log)
}

func (o *options) validate() error {
	if o.format != "text" && o.format != "json" {
		return fmt.Errorf("unknown format %q: want text or json", o.format)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
