package cmd

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"flagdeck/internal/output"
	"flagdeck/pkg/console"
)

var consoleCmd = &cobra.Command{
	Use:     "console",
	Aliases: []string{"ui"},
	Short:   "Open the interactive console",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient()
		if err != nil {
			output.Error("%v", err)
			return err
		}

		m := console.NewModel(c, stateFile(), version)
		if dir, _ := cmd.Flags().GetString("export-dir"); dir != "" {
			m.ExportDir = dir
		} else {
			m.ExportDir, _ = os.Getwd()
		}

		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			output.Error("console: %v", err)
			return err
		}
		return nil
	},
}

func init() {
	consoleCmd.Flags().String("export-dir", "", "Directory CSV exports are written to (default: working directory)")
	rootCmd.AddCommand(consoleCmd)
}
