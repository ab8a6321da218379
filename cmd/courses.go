package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the available languages",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		session, loggedIn := a.Auth.CurrentUser()

		for _, id := range a.Catalog.LanguageIDs() {
			lang, _ := a.Catalog.Language(id)
			line := fmt.Sprintf("%-12s %-34s %d lessons", id, lang.Title+" — "+lang.Subtitle, len(lang.Lessons))
			if loggedIn && lang.Tracked {
				pct := a.Progress.CompletionPercent(session.Email, id, len(lang.Lessons))
				line += fmt.Sprintf("   %3d%%", pct)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var lessonsCmd = &cobra.Command{
	Use:   "lessons <language>",
	Short: "List a language's lessons",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		lang, ok := a.Catalog.Language(args[0])
		if !ok {
			return fmt.Errorf("unknown language %q (see `codemate courses`)", args[0])
		}

		session, loggedIn := a.Auth.CurrentUser()

		fmt.Printf("%s — %s\n\n", lang.Title, lang.Subtitle)
		for _, lesson := range lang.Lessons {
			mark := " "
			if loggedIn && a.Progress.HasCompletedLesson(session.Email, lang.ID, lesson.ID) {
				mark = "✓"
			}
			fmt.Printf("  [%s] %-6s %s\n", mark, lesson.ID, lesson.Title)
		}
		if len(lang.Quiz) > 0 {
			fmt.Printf("\nQuiz: %d questions (`codemate quiz %s`)\n", len(lang.Quiz), lang.ID)
		}
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <language> <lesson-id>",
	Short: "Mark a lesson complete",
	Args:  cobra.ExactArgs(2),
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

		langID, lessonID := args[0], args[1]
		lesson, ok := a.Catalog.Lesson(langID, lessonID)
		if !ok {
			return fmt.Errorf("no lesson %q in %q", lessonID, langID)
		}

		a.Progress.MarkLessonComplete(session.Email, langID, lessonID)
		a.Meta.TouchStreak(session.Email)
		a.Achievements.EnsureAndNotify(session.Email)

		pct := a.Progress.CompletionPercent(session.Email, langID, a.Catalog.LessonCount(langID))
		fmt.Printf("Completed %q. %s is now %d%% done.\n", lesson.Title, langID, pct)
		return nil
	},
}
