// Package screen defines the contract every CodeMate screen satisfies.
// The dashboard, course list, lesson reader, quiz, practice browser, and
// chat tutor all implement Screen and are stacked by the router.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"codemate/internal/ui/layout"
)

// Screen is one full-window view inside the dashboard session.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen plus a
	// command. Screens return router navigation messages as commands to
	// move around, e.g. pushing the quiz from a lesson.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen body. The frame adds the CodeMate header
	// (brand, screen title, streak) and the key-hint footer around it.
	View(width, height int) string

	// Title returns the screen name shown in the header, e.g. "Java" or
	// "Chat Tutor".
	Title() string
}

// KeyHintProvider lets a screen override the default esc/quit footer
// hints, e.g. the quiz showing "A-D answer".
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
