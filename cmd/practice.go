package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var practiceCmd = &cobra.Command{
	Use:   "practice <language>",
	Short: "Browse and solve practice exercises",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		difficulty, _ := cmd.Flags().GetString("difficulty")
		show, _ := cmd.Flags().GetString("show")
		solve, _ := cmd.Flags().GetString("solve")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		langID := args[0]
		if _, ok := a.Catalog.Language(langID); !ok {
			return fmt.Errorf("unknown language %q (see `codemate courses`)", langID)
		}
		items := a.Catalog.Practice(langID, difficulty)

		if solve != "" {
			session, err := a.Auth.RequireUser()
			if err != nil {
				return err
			}
			found := false
			for _, item := range a.Catalog.Practice(langID, "") {
				if item.ID == solve {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("no exercise %q in %q", solve, langID)
			}
			a.Practice.MarkSolved(session.Email, langID, solve)
			a.Meta.TouchStreak(session.Email)
			fmt.Printf("Marked %s solved. %d/%d done in %s.\n",
				solve, a.Practice.SolvedCount(session.Email, langID), len(a.Catalog.Practice(langID, "")), langID)
			return nil
		}

		if show != "" {
			for _, item := range items {
				if item.ID != show {
					continue
				}
				fmt.Printf("%s (%s)\n\n%s\n\nReference answer:\n%s\n", item.Title, item.Difficulty, item.Prompt, item.Answer)
				return nil
			}
			return fmt.Errorf("no exercise %q in %q", show, langID)
		}

		session, loggedIn := a.Auth.CurrentUser()
		for _, item := range items {
			mark := " "
			if loggedIn && a.Practice.IsSolved(session.Email, langID, item.ID) {
				mark = "✓"
			}
			fmt.Printf("  [%s] %-8s %-32s %s\n", mark, item.ID, item.Title, item.Difficulty)
		}
		return nil
	},
}

func init() {
	practiceCmd.Flags().String("difficulty", "", "Filter by difficulty: easy, medium, or hard")
	practiceCmd.Flags().String("show", "", "Print one exercise's prompt and reference answer")
	practiceCmd.Flags().String("solve", "", "Mark an exercise as solved")
}
