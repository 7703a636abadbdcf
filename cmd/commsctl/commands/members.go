package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unclebandit/fellowship-comms/internal/model"
)

// MembersCmd lists the member directory.
func MembersCmd(app *AppContext) *cobra.Command {
	var (
		search      string
		status      string
		consentOnly bool
	)

	cmd := &cobra.Command{
		Use:   "members",
		Short: "List members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := model.MemberFilter{
				Search:        search,
				PaymentStatus: model.PaymentStatus(status),
				ConsentOnly:   consentOnly,
			}
			app.Logger.Debug("members command", zap.String("search", search), zap.String("status", status))

			members, err := app.Client.ListMembers(app.Ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list members: %w", err)
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPHONE\tDAYS\tELIGIBILITY\tCONSENT")
			for _, m := range members {
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%d\t%s\t%t\n",
					m.ID, m.FirstName, m.LastName, m.Phone, m.DelinquencyDays, m.Eligibility.Label(), m.Consent)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s members\n", humanize.Comma(int64(len(members))))
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Free-text filter")
	cmd.Flags().StringVar(&status, "status", "", "Payment status (PAID or DELINQUENT)")
	cmd.Flags().BoolVar(&consentOnly, "consent", false, "Only members who consented to SMS")
	return cmd
}
