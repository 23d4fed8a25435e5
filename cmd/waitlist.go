package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"flagdeck/internal/input"
	"flagdeck/internal/listview"
	"flagdeck/internal/models"
	"flagdeck/internal/output"
)

var waitlistCmd = &cobra.Command{
	Use:     "waitlist",
	Aliases: []string{"wl"},
	Short:   "Review beta waitlist signups",
	GroupID: "account",
}

var waitlistListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List signups",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient()
		if err != nil {
			return fail(cmd, err)
		}

		signups, err := c.ListWaitList(context.Background())
		if err != nil {
			return fail(cmd, fmt.Errorf("list waitlist: %w", err))
		}

		status, _ := cmd.Flags().GetString("status")
		search, _ := cmd.Flags().GetString("search")

		params := listview.DefaultWaitListParams(0)
		params.Query = search
		params.Filters[listview.WaitFilterStatus] = status
		derived := listview.ApplyWaitList(signups, params)

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(derived.Items)
		}

		for _, s := range derived.Items {
			fmt.Printf("%s  %s  %-28s  %s\n",
				s.ID,
				output.FormatWaitListStatus(s.Status),
				s.Email,
				s.Name)
		}
		return nil
	},
}

var waitlistApproveCmd = &cobra.Command{
	Use:   "approve <id>...",
	Short: "Approve signups (accepts - for stdin, @file for a list)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  setWaitListStatus(models.WaitListApproved),
}

var waitlistRevokeCmd = &cobra.Command{
	Use:   "revoke <id>...",
	Short: "Revoke signups (accepts - for stdin, @file for a list)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  setWaitListStatus(models.WaitListRevoked),
}

func setWaitListStatus(status models.WaitListStatus) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := requireClient()
		if err != nil {
			output.Error("%v", err)
			return err
		}

		ids, _ := input.ExpandArgs(args, false)
		if len(ids) == 0 {
			err := fmt.Errorf("no signup ids given")
			output.Error("%v", err)
			return err
		}

		for _, id := range ids {
			if err := c.UpdateWaitListStatus(context.Background(), id, status); err != nil {
				output.Error("update signup %s: %v", id, err)
				return err
			}
			output.Success("Signup %s is now %s", id, status)
		}
		return nil
	}
}

func init() {
	waitlistListCmd.Flags().String("status", listview.FilterAll, "Status filter (PENDING/APPROVED/REVOKED/all)")
	waitlistListCmd.Flags().String("search", "", "Free-text search over name, email, company")
	waitlistListCmd.Flags().Bool("json", false, "Output JSON")

	waitlistCmd.AddCommand(waitlistListCmd, waitlistApproveCmd, waitlistRevokeCmd)
	rootCmd.AddCommand(waitlistCmd)
}
