package tui

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"codemate/internal/chat"
	"codemate/internal/screen"
	"codemate/internal/ui/components"
	"codemate/internal/ui/layout"
	"codemate/internal/ui/theme"
)

// replyMsg carries the tutor's answer back into the update loop.
type replyMsg struct {
	reply chat.Reply
	err   error
}

// ChatScreen is the tutor conversation: a transcript and an input line.
type ChatScreen struct {
	deps    Deps
	input   components.TextInput
	history []chat.Turn
	waiting bool
	errText string
}

var _ screen.Screen = (*ChatScreen)(nil)

// NewChat opens a fresh conversation.
func NewChat(deps Deps) *ChatScreen {
	return &ChatScreen{
		deps:    deps,
		input:   components.NewTextInput("Ask about Java, C, Python...", 200),
		history: []chat.Turn{{Role: "assistant", Text: chat.Greeting}},
	}
}

func (c *ChatScreen) Init() tea.Cmd {
	return c.input.Init()
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		c.waiting = false
		if msg.err != nil {
			c.errText = "The tutor is unavailable right now."
			return c, nil
		}
		c.errText = ""
		c.history = append(c.history, chat.Turn{Role: "assistant", Text: renderReply(msg.reply)})
		return c, nil

	case tea.KeyMsg:
		if msg.String() == "enter" && !c.waiting {
			question := strings.TrimSpace(c.input.Value())
			if question == "" {
				return c, nil
			}
			c.input.Reset()
			c.errText = ""
			c.waiting = true
			history := append([]chat.Turn(nil), c.history...)
			c.history = append(c.history, chat.Turn{Role: "user", Text: question})
			return c, c.ask(history, question)
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *ChatScreen) ask(history []chat.Turn, question string) tea.Cmd {
	responder := c.deps.Chat
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()
		reply, err := responder.Reply(ctx, history, question)
		return replyMsg{reply: reply, err: err}
	}
}

func (c *ChatScreen) View(width, height int) string {
	wrapWidth := min(width-8, 76)

	var b strings.Builder
	// Show the most recent turns that fit above the input line.
	budget := height - 5
	lines := transcriptLines(c.history, wrapWidth)
	if len(lines) > budget && budget > 0 {
		lines = lines[len(lines)-budget:]
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")

	if c.waiting {
		b.WriteString(theme.Hint.Render("thinking...") + "\n")
	} else if c.errText != "" {
		b.WriteString(theme.Incorrect.Render(c.errText) + "\n")
	}
	b.WriteString(c.input.View())

	return "  " + strings.ReplaceAll(b.String(), "\n", "\n  ")
}

func (c *ChatScreen) Title() string { return "Chat Tutor" }

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Esc", Description: "Back"},
	}
}

func transcriptLines(history []chat.Turn, wrapWidth int) []string {
	var lines []string
	for _, turn := range history {
		speaker := theme.Selected.Render("CodeMate")
		if turn.Role == "user" {
			speaker = theme.Body.Bold(true).Render("You")
		}
		lines = append(lines, speaker)
		for _, l := range strings.Split(wrap(turn.Text, wrapWidth), "\n") {
			lines = append(lines, theme.Body.Render(l))
		}
		lines = append(lines, "")
	}
	return lines
}

// renderReply flattens a structured reply into transcript text.
func renderReply(r chat.Reply) string {
	if r.Code == "" {
		return r.Text
	}
	return r.Text + "\n\n" + r.Code
}
