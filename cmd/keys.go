package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"flagdeck/internal/output"
)

var keysCmd = &cobra.Command{
	Use:     "keys",
	Aliases: []string{"key"},
	Short:   "Manage account API keys",
	GroupID: "account",
}

var keysShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list", "ls"},
	Short:   "Show the current key and revoked history",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient()
		if err != nil {
			return fail(cmd, err)
		}

		keys, err := c.GetAPIKeys(context.Background())
		if err != nil {
			return fail(cmd, fmt.Errorf("get keys: %w", err))
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(keys)
		}

		if keys.Current == nil {
			output.Info("No active API key. Generate one with 'flagdeck keys generate'.")
		} else {
			fmt.Printf("%s  %s  created %s\n",
				keys.Current.PartialKey,
				output.FormatKeyStatus(keys.Current.Status),
				keys.Current.CreatedAt.Format("2006-01-02"))
			if seen, err := stateFile().KeySeen(keys.Current.ID); err == nil && !seen {
				output.Warning("The full key was revealed elsewhere; generate a new one if you need it here.")
			}
		}

		if len(keys.History) > 0 {
			fmt.Print(output.SectionHeader("revoked keys"))
			var lines []string
			for _, k := range keys.History {
				revoked := ""
				if k.RevokedAt != nil {
					revoked = "revoked " + k.RevokedAt.Format("2006-01-02")
				}
				lines = append(lines, fmt.Sprintf("%s  %s  %s", k.PartialKey, output.FormatKeyStatus(k.Status), revoked))
			}
			fmt.Println(strings.Join(output.IndentLines(lines, 2), "\n"))
		}
		return nil
	},
}

var keysGenerateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate a new API key (revokes the current one)",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient()
		if err != nil {
			output.Error("%v", err)
			return err
		}

		key, err := c.GenerateAPIKey(context.Background())
		if err != nil {
			output.Error("generate key: %v", err)
			return err
		}

		// The full key exists only in this response. Record the reveal so
		// the console never pretends it can show it again.
		if err := stateFile().MarkKeySeen(key.ID); err != nil {
			output.Warning("could not record key reveal: %v", err)
		}

		output.Success("Generated new API key")
		output.Warning("This is the only time the full key is shown:")
		fmt.Println()
		fmt.Println("  " + key.FullKey)
		fmt.Println()

		if copyFlag, _ := cmd.Flags().GetBool("copy"); copyFlag {
			if err := clipboard.WriteAll(key.FullKey); err != nil {
				output.Warning("copy to clipboard failed: %v", err)
			} else {
				output.Info("Copied to clipboard.")
			}
		}
		return nil
	},
}

var keysRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke the current API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if err := c.RevokeAPIKey(context.Background()); err != nil {
			output.Error("revoke key: %v", err)
			return err
		}
		output.Success("API key revoked")
		return nil
	},
}

var keysDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a revoked key from history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if err := c.DeleteAPIKey(context.Background(), args[0]); err != nil {
			output.Error("delete key: %v", err)
			return err
		}
		output.Success("Deleted key %s", args[0])
		return nil
	},
}

func init() {
	keysShowCmd.Flags().Bool("json", false, "Output JSON")
	keysGenerateCmd.Flags().Bool("copy", false, "Copy the full key to the clipboard")

	keysCmd.AddCommand(keysShowCmd, keysGenerateCmd, keysRevokeCmd, keysDeleteCmd)
	rootCmd.AddCommand(keysCmd)
}
