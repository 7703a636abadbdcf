package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func TestSMSCmd(app *AppContext) *cobra.Command {
	var (
		to      string
		message string
	)

	cmd := &cobra.Command{
		Use:   "test-sms",
		Short: "Send a single test SMS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := app.Client.SendTestSMS(app.Ctx, to, message)
			if err != nil {
				return fmt.Errorf("failed to send test SMS: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent, sid %s\n", sid)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Destination phone number")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message body")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("message")
	return cmd
}
