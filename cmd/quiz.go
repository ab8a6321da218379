package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <language>",
	Short: "Take a language's quiz in the terminal",
	Args:  cobra.ExactArgs(1),
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

		lang, ok := a.Catalog.Language(args[0])
		if !ok {
			return fmt.Errorf("unknown language %q (see `codemate courses`)", args[0])
		}
		if len(lang.Quiz) == 0 {
			fmt.Printf("No quiz for %s yet.\n", lang.Title)
			return nil
		}

		reader := bufio.NewScanner(os.Stdin)
		score := 0

		for i, q := range lang.Quiz {
			fmt.Printf("\nQ%d/%d  %s\n", i+1, len(lang.Quiz), q.Question)
			for j, opt := range q.Options {
				fmt.Printf("  %c) %s\n", 'A'+j, opt)
			}

			choice := readChoice(reader, len(q.Options))
			if choice < 0 {
				fmt.Println("\nQuiz aborted; nothing recorded.")
				return nil
			}
			if choice == q.Answer {
				fmt.Println("Correct!")
				score++
			} else {
				fmt.Printf("Not quite. The answer was %c) %s\n", 'A'+q.Answer, q.Options[q.Answer])
			}
		}

		a.Progress.RecordQuizAttempt(session.Email, lang.ID, score, len(lang.Quiz))
		a.Meta.TouchStreak(session.Email)
		a.Achievements.EnsureAndNotify(session.Email)

		fmt.Printf("\nScore: %d/%d\n", score, len(lang.Quiz))
		return nil
	},
}

// readChoice reads a letter answer, retrying on junk. Returns -1 on EOF.
func readChoice(reader *bufio.Scanner, options int) int {
	for {
		fmt.Print("> ")
		if !reader.Scan() {
			return -1
		}
		in := strings.ToUpper(strings.TrimSpace(reader.Text()))
		if len(in) == 1 && in[0] >= 'A' && int(in[0]-'A') < options {
			return int(in[0] - 'A')
		}
		fmt.Printf("Please answer A-%c.\n", 'A'+options-1)
	}
}
