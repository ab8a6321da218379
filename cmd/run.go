package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"codemate/internal/app"
)

// runDashboard opens the store, requires a session, and launches the TUI.
func runDashboard(cmd *cobra.Command) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := a.Auth.RequireUser()
	if err != nil {
		return fmt.Errorf("not logged in; run `codemate signup` or `codemate login` first")
	}

	a.Meta.TouchStreak(session.Email)
	a.Achievements.EnsureAndNotify(session.Email)

	return app.Run(a, session)
}
