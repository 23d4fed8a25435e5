package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"flagdeck/internal/models"
	"flagdeck/internal/output"
)

var loginCmd = &cobra.Command{
	Use:     "login <token>",
	Short:   "Store an access token for subsequent commands",
	GroupID: "account",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")

		session := models.Session{Token: args[0], Email: email}
		if err := stateFile().SetSession(session); err != nil {
			output.Error("save session: %v", err)
			return err
		}

		// Best effort: tell the backend about the sign-in so the account
		// record exists before the first flag call.
		if email != "" {
			c, err := client()
			if err == nil {
				if err := c.UpsertUser(context.Background(), email); err != nil {
					output.Warning("could not register sign-in: %v", err)
				}
			}
		}

		output.Success("Logged in")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Forget the stored access token",
	GroupID: "account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := stateFile().ClearSession(); err != nil {
			output.Error("clear session: %v", err)
			return err
		}
		output.Success("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the stored session",
	GroupID: "account",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := stateFile().GetSession()
		if err != nil {
			output.Error("read session: %v", err)
			return err
		}
		if s.Token == "" {
			output.Info("Not logged in.")
			return nil
		}
		if s.Email != "" {
			fmt.Println(s.Email)
		} else {
			fmt.Println("logged in (no email on record)")
		}
		fmt.Println("token: " + output.MaskKey(s.Token))
		if beta, err := stateFile().BetaApproved(); err == nil && beta {
			output.Info("Beta access: unlocked")
		}
		return nil
	},
}

var inviteCmd = &cobra.Command{
	Use:     "invite <token>",
	Short:   "Verify a beta invite token",
	GroupID: "account",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client()
		if err != nil {
			output.Error("%v", err)
			return err
		}

		v, err := c.VerifyInvite(context.Background(), args[0])
		if err != nil {
			output.Error("verify invite: %v", err)
			return err
		}

		if !v.Valid {
			// Invalid tokens are never persisted; retrying with a good one
			// must start clean.
			err := fmt.Errorf("invite token is not valid")
			output.Error("%v", err)
			return err
		}

		if err := stateFile().SetInvite(args[0]); err != nil {
			output.Error("save invite: %v", err)
			return err
		}
		if v.Email != "" {
			output.Success("Invite verified for %s - beta access unlocked", v.Email)
		} else {
			output.Success("Invite verified - beta access unlocked")
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "Email to associate with the session")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, inviteCmd)
}
