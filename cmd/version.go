package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"flagdeck/internal/output"
	update "flagdeck/internal/version"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Print the flagdeck version",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("flagdeck " + version)

		if check, _ := cmd.Flags().GetBool("check"); !check {
			return nil
		}

		res := update.CachedCheck(version)
		if res.Error != nil {
			output.Error("update check: %v", res.Error)
			return res.Error
		}
		switch {
		case update.IsDevelopmentVersion(version):
			output.Info("Update checks are skipped for development builds.")
		case res.HasUpdate:
			output.Info("Update available: %s", res.LatestVersion)
			if c := update.UpdateCommand(res.LatestVersion); c != "" {
				fmt.Println("  " + c)
			}
		default:
			output.Info("Up to date.")
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("check", false, "Check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}
