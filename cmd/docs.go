package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"flagdeck/internal/output"
	"flagdeck/pkg/console"
)

var docsCmd = &cobra.Command{
	Use:     "docs",
	Short:   "Show the SDK integration quick start",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		width := 100
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < width {
			width = w
		}

		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			output.Error("render docs: %v", err)
			return err
		}
		out, err := r.Render(console.IntegrationDocs)
		if err != nil {
			output.Error("render docs: %v", err)
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
