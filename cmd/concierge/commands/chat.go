package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/capitalize-ai/travel-concierge/internal/service"
)

func newChatCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Hold a conversation with the concierge on stdin",
		Long: `Read one message per line from stdin and print each consultant reply.
The conversation lives in memory for the duration of the command.
An empty line or EOF ends the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			svc := newService(opts)
			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())

			var sessionID string
			for {
				if opts.format == "text" {
					fmt.Fprint(out, "> ")
				}
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					break
				}

				res, err := svc.ProcessTurn(cmd.Context(), service.TurnRequest{
					SessionID: sessionID,
					Message:   line,
					Platform:  "cli",
				})
				if err != nil {
					return err
				}
				sessionID = res.SessionID

				if opts.format == "json" {
					if err := writeJSON(out, res); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintf(out, "\n%s %s [%s, %s]\n%s\n\n", res.Consultant.Emoji, res.Consultant.Name,
					res.Intent.Intent, res.Emotion.Emotion, res.Reply)
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			return nil
		},
	}
}
