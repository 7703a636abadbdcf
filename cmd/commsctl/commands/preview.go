package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unclebandit/fellowship-comms/internal/model"
)

func PreviewCmd(app *AppContext) *cobra.Command {
	var (
		message  string
		memberID string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a message template",
		Long:  "Render a message template for one member, or with sample values when --member is omitted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := app.Campaigns.Preview(app.Ctx, message, model.ID(memberID))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), body)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Message template")
	cmd.Flags().StringVar(&memberID, "member", "", "Member ID to render for")
	cmd.MarkFlagRequired("message")
	return cmd
}
