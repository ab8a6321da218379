package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"codemate/internal/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Ask the tutor a question, or start a conversation",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()

		if len(args) > 0 {
			reply, err := a.Chat.Reply(ctx, nil, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("tutor unavailable: %w", err)
			}
			printReply(reply)
			return nil
		}

		fmt.Println(chat.Greeting)
		fmt.Println(`Type "exit" to leave.`)

		history := []chat.Turn{{Role: "assistant", Text: chat.Greeting}}
		reader := bufio.NewScanner(os.Stdin)

		for {
			fmt.Print("\nyou> ")
			if !reader.Scan() {
				return nil
			}
			question := strings.TrimSpace(reader.Text())
			if question == "" {
				continue
			}
			if question == "exit" || question == "quit" {
				return nil
			}

			reply, err := a.Chat.Reply(ctx, history, question)
			if err != nil {
				fmt.Println("The tutor is unavailable right now.")
				continue
			}

			fmt.Println()
			printReply(reply)

			history = append(history,
				chat.Turn{Role: "user", Text: question},
				chat.Turn{Role: "assistant", Text: reply.Text})
		}
	},
}

func printReply(r chat.Reply) {
	fmt.Println(r.Text)
	if r.Code != "" {
		fmt.Println()
		fmt.Println(r.Code)
	}
}
