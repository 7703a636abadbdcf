package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unclebandit/fellowship-comms/internal/model"
	"github.com/unclebandit/fellowship-comms/internal/service"
)

// SubmitCmd creates a communication, or updates one when --id is given.
func SubmitCmd(app *AppContext) *cobra.Command {
	var (
		id          string
		name        string
		audience    string
		ids         []string
		message     string
		scheduledAt string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Create or update a communication",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			selector, custom, err := parseAudience(audience, ids)
			if err != nil {
				return err
			}

			draft := service.CampaignDraft{
				ID:             model.ID(id),
				Name:           name,
				Audience:       selector,
				CustomAudience: custom,
				Message:        message,
			}
			if scheduledAt != "" {
				at, err := time.Parse(time.RFC3339, scheduledAt)
				if err != nil {
					return fmt.Errorf("--scheduled-at must be RFC3339: %w", err)
				}
				draft.ScheduledAt = &at
			}

			comm, err := app.Campaigns.Submit(app.Ctx, draft)
			if err != nil {
				return err
			}
			app.Logger.Info("communication submitted", zap.String("id", string(comm.ID)), zap.String("status", string(comm.Status)))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:      %s\n", comm.ID)
			fmt.Fprintf(out, "Status:  %s\n", comm.Status)
			if comm.ScheduledAt != nil {
				fmt.Fprintf(out, "Sends:   %s\n", comm.ScheduledAt.Format(time.RFC1123))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Existing communication to update")
	cmd.Flags().StringVar(&name, "name", "", "Communication name")
	cmd.Flags().StringVar(&audience, "audience", "ALL", "Audience selector")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Member IDs for a CUSTOM audience")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message template")
	cmd.Flags().StringVar(&scheduledAt, "scheduled-at", "", "Send time (RFC3339)")
	return cmd
}
