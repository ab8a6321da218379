package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		fmt.Printf("%s — streak %d day(s)\n\n", session.Name, a.Meta.Streak(user))

		for _, langID := range a.Catalog.TrackedLanguages() {
			lang, _ := a.Catalog.Language(langID)
			total := len(lang.Lessons)
			done := a.Progress.CompletedLessonCount(user, langID)
			pct := a.Progress.CompletionPercent(user, langID, total)
			solved := a.Practice.SolvedCount(user, langID)

			fmt.Printf("%-10s %d/%d lessons (%d%%), %d exercises solved\n", lang.Title, done, total, pct, solved)

			if attempt, ok := a.Meta.LastQuiz(user, langID); ok {
				ts := time.UnixMilli(attempt.TS).Local().Format("2006-01-02 15:04")
				fmt.Printf("           last quiz %d/%d on %s\n", attempt.Score, attempt.Total, ts)
			}
		}

		earned := a.Achievements.ListEarned(user)
		fmt.Printf("\nBadges: %d/%d (`codemate badges`)\n", len(earned), len(a.Achievements.Rules()))
		return nil
	},
}

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "Show earned achievements",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		session, err := a.Auth.RequireUser()
		if err != nil {
			return err
		}

		a.Achievements.EnsureAndNotify(session.Email)

		earned := make(map[string]bool)
		for _, r := range a.Achievements.ListEarned(session.Email) {
			earned[r.ID] = true
		}

		for _, r := range a.Achievements.Rules() {
			mark := " "
			if earned[r.ID] {
				mark = "★"
			}
			fmt.Printf("  [%s] %-14s %s\n", mark, r.Name, r.Description)
		}
		return nil
	},
}
