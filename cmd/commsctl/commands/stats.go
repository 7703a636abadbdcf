package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func StatsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show communication counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := app.Client.Stats(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to load stats: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total:      %s\n", humanize.Comma(int64(stats.Total)))
			fmt.Fprintf(out, "Draft:      %s\n", humanize.Comma(int64(stats.Draft)))
			fmt.Fprintf(out, "Scheduled:  %s\n", humanize.Comma(int64(stats.Scheduled)))
			fmt.Fprintf(out, "Sent:       %s\n", humanize.Comma(int64(stats.Sent)))
			fmt.Fprintf(out, "Failed:     %s\n", humanize.Comma(int64(stats.Failed)))
			if stats.TotalSMSSent != nil {
				fmt.Fprintf(out, "SMS sent:   %s\n", humanize.Comma(int64(*stats.TotalSMSSent)))
			}
			if stats.TotalSMSDelivered != nil {
				fmt.Fprintf(out, "Delivered:  %s\n", humanize.Comma(int64(*stats.TotalSMSDelivered)))
			}
			return nil
		},
	}
}
