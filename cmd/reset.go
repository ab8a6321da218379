package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"codemate/internal/bus"
	"codemate/internal/storage"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase the current user's progress, badges, and practice record",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("this erases all learning data for the current user; re-run with --yes to confirm")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		session, err := a.Auth.RequireUser()
		if err != nil {
			return err
		}
		user := session.Email

		keys := []string{
			storage.ProgressKey(user),
			storage.AchievementsKey(user),
			storage.PracticeKey(user),
			storage.MetaKey(user),
		}
		for _, key := range keys {
			if err := a.Codec.Delete(key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}

		a.Bus.Publish(bus.EventProgressUpdated, bus.ProgressPayload{User: user})
		a.Bus.Publish(bus.EventAchievementsUpdated, bus.AchievementsPayload{User: user})

		fmt.Printf("Erased learning data for %s.\n", user)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
