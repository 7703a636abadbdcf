package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// EstimateCmd prices a message for an audience without submitting anything.
func EstimateCmd(app *AppContext) *cobra.Command {
	var (
		audience string
		ids      []string
		message  string
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate SMS segments and cost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			selector, custom, err := parseAudience(audience, ids)
			if err != nil {
				return err
			}

			est, err := app.Campaigns.Estimate(app.Ctx, selector, custom, message)
			if err != nil {
				return err
			}
			app.Logger.Debug("estimate", zap.Int("segments", est.Segments), zap.Int("recipients", est.Recipients))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Characters:  %d\n", est.Characters)
			fmt.Fprintf(out, "Segments:    %d\n", est.Segments)
			fmt.Fprintf(out, "Recipients:  %s\n", humanize.Comma(int64(est.Recipients)))
			fmt.Fprintf(out, "Cost:        %s\n", est.Display())
			return nil
		},
	}

	cmd.Flags().StringVar(&audience, "audience", "ALL", "ALL, ELIGIBLE, DELINQUENT_30, DELINQUENT_60, DELINQUENT_90 or CUSTOM")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Member IDs for a CUSTOM audience")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message template")
	cmd.MarkFlagRequired("message")
	return cmd
}
