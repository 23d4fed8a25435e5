package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"flagdeck/internal/output"
	"flagdeck/internal/tour"
)

var tourCmd = &cobra.Command{
	Use:     "tour",
	Short:   "Inspect or reset the onboarding tour",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := tour.New(stateFile())
		if m.Complete() {
			output.Info("Tour completed.")
			return nil
		}
		fmt.Printf("Tour at step %d/4: %s\n", int(m.Step())+1, m.Step())
		return nil
	},
}

var tourResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restart the tour from the welcome step",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := tour.New(stateFile())
		if err := m.Reset(); err != nil {
			output.Error("reset tour: %v", err)
			return err
		}
		output.Success("Tour reset - it will show next time the console opens")
		return nil
	},
}

var tourSkipCmd = &cobra.Command{
	Use:   "skip",
	Short: "Mark the tour as completed",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := tour.New(stateFile())
		if err := m.Skip(); err != nil {
			output.Error("skip tour: %v", err)
			return err
		}
		output.Success("Tour skipped")
		return nil
	},
}

func init() {
	tourCmd.AddCommand(tourResetCmd, tourSkipCmd)
	rootCmd.AddCommand(tourCmd)
}
