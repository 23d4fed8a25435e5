package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"flagdeck/internal/apiclient"
	"flagdeck/internal/export"
	"flagdeck/internal/listview"
	"flagdeck/internal/models"
	"flagdeck/internal/output"
)

var flagsCmd = &cobra.Command{
	Use:     "flags",
	Aliases: []string{"flag"},
	Short:   "Manage feature flags",
	GroupID: "flags",
}

var flagsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List flags with filtering, sorting and paging",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient()
		if err != nil {
			return fail(cmd, err)
		}

		flags, err := c.ListFlags(context.Background())
		if err != nil {
			return fail(cmd, fmt.Errorf("list flags: %w", err))
		}

		params, err := flagListParams(cmd)
		if err != nil {
			return fail(cmd, err)
		}
		derived := listview.ApplyFlags(flags, params)

		if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
			return writeFlagCSV(exportPath, derived.Items)
		}

		switch listMode(cmd) {
		case output.ModeJSON:
			return output.JSON(derived.Items)
		case output.ModeLong:
			for i := range derived.Items {
				fmt.Println(output.FormatFlagLong(&derived.Items[i]))
			}
		default:
			for i := range derived.Items {
				fmt.Println(output.FormatFlagShort(&derived.Items[i]))
			}
		}
		if derived.TotalPages > 1 {
			output.Info("page %d/%d (%d matching)", derived.Page, derived.TotalPages, derived.FilteredCount)
		}
		return nil
	},
}

// listMode resolves the output mode for flags list. --json wins over --long.
func listMode(cmd *cobra.Command) output.OutputMode {
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return output.ModeJSON
	}
	if long, _ := cmd.Flags().GetBool("long"); long {
		return output.ModeLong
	}
	return output.ModeShort
}

// flagListParams assembles derivation params from the list flags.
func flagListParams(cmd *cobra.Command) (listview.Params, error) {
	search, _ := cmd.Flags().GetString("search")
	env, _ := cmd.Flags().GetString("env")
	sortField, _ := cmd.Flags().GetString("sort")
	desc, _ := cmd.Flags().GetBool("desc")
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")

	if env != listview.FilterAll {
		normalized := models.NormalizeEnvironment(env)
		if !models.IsValidEnvironment(normalized) {
			return listview.Params{}, fmt.Errorf("%w: environment %q (production/staging/development/all)", errInvalidInput, env)
		}
		env = string(normalized)
	}

	params := listview.DefaultFlagParams(limit)
	params.Query = search
	params.Filters[listview.FlagFilterEnvironment] = env
	params.SortField = sortField
	params.SortAsc = !desc
	params.Page = page
	return params, nil
}

func writeFlagCSV(path string, flags []models.FeatureFlag) error {
	if path == "-" {
		return export.WriteFlags(os.Stdout, flags)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WriteFlags(f, flags); err != nil {
		return err
	}
	output.Success("Exported %d flags to %s", len(flags), path)
	return nil
}

var flagsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient()
		if err != nil {
			output.Error("%v", err)
			return err
		}

		envStr, _ := cmd.Flags().GetString("env")
		env := models.NormalizeEnvironment(envStr)
		if !models.IsValidEnvironment(env) {
			err := fmt.Errorf("invalid environment %q", envStr)
			output.Error("%v", err)
			return err
		}
		desc, _ := cmd.Flags().GetString("description")
		enabled, _ := cmd.Flags().GetBool("enabled")
		rollout, _ := cmd.Flags().GetInt("rollout")

		flag, err := c.CreateFlag(context.Background(), apiclient.CreateFlagRequest{
			Name:              args[0],
			Description:       desc,
			Environment:       env,
			Enabled:           enabled,
			RolloutPercentage: rollout,
		})
		if err != nil {
			output.Error("create flag: %v", err)
			return err
		}

		output.Success("Created %s", flag.Name)
		fmt.Println(output.FormatFlagLong(flag))
		return nil
	},
}

var flagsToggleCmd = &cobra.Command{
	Use:   "toggle <id> <on|off>",
	Short: "Enable or disable a flag",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient()
		if err != nil {
			output.Error("%v", err)
			return err
		}

		var enabled bool
		switch args[1] {
		case "on", "true":
			enabled = true
		case "off", "false":
			enabled = false
		default:
			err := fmt.Errorf("expected on or off, got %q", args[1])
			output.Error("%v", err)
			return err
		}

		flag, err := c.ToggleFlag(context.Background(), args[0], enabled)
		if err != nil {
			output.Error("toggle flag: %v", err)
			return err
		}
		output.Success("%s is now %s", flag.Name, args[1])
		return nil
	},
}

var flagsRolloutCmd = &cobra.Command{
	Use:   "rollout <id> <percent>",
	Short: "Set a flag's rollout percentage",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient()
		if err != nil {
			output.Error("%v", err)
			return err
		}

		percent, err := strconv.Atoi(args[1])
		if err != nil {
			output.Error("invalid percentage %q", args[1])
			return err
		}

		flag, err := c.SetRollout(context.Background(), args[0], percent)
		if err != nil {
			output.Error("set rollout: %v", err)
			return err
		}
		output.Success("%s rollout set to %d%%", flag.Name, flag.RolloutPercentage)
		return nil
	},
}

var flagsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a flag",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireClient()
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			err := fmt.Errorf("refusing to delete without --yes")
			output.Error("%v", err)
			return err
		}

		if err := c.DeleteFlag(context.Background(), args[0]); err != nil {
			output.Error("delete flag: %v", err)
			return err
		}
		output.Success("Deleted flag %s", args[0])
		return nil
	},
}

func init() {
	flagsListCmd.Flags().String("search", "", "Free-text search over name and description")
	flagsListCmd.Flags().String("env", listview.FilterAll, "Environment filter (production/staging/development/all)")
	flagsListCmd.Flags().String("sort", listview.FlagSortName, "Sort field (name/environment/enabled/rollout/created/updated)")
	flagsListCmd.Flags().Bool("desc", false, "Sort descending")
	flagsListCmd.Flags().Int("page", 1, "Page number")
	flagsListCmd.Flags().Int("limit", 0, "Page size (0 = all)")
	flagsListCmd.Flags().Bool("json", false, "Output JSON")
	flagsListCmd.Flags().Bool("long", false, "Multi-line output with descriptions and timestamps")
	flagsListCmd.Flags().String("export", "", "Write CSV to the given path (- for stdout)")

	flagsCreateCmd.Flags().String("env", "development", "Environment")
	flagsCreateCmd.Flags().String("description", "", "Description")
	flagsCreateCmd.Flags().Bool("enabled", false, "Start enabled")
	flagsCreateCmd.Flags().Int("rollout", 100, "Rollout percentage (0-100)")

	flagsDeleteCmd.Flags().Bool("yes", false, "Skip confirmation")

	flagsCmd.AddCommand(flagsListCmd, flagsCreateCmd, flagsToggleCmd, flagsRolloutCmd, flagsDeleteCmd)
	rootCmd.AddCommand(flagsCmd)
}
