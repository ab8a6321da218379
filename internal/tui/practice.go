package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"codemate/internal/content"
	"codemate/internal/router"
	"codemate/internal/screen"
	"codemate/internal/ui/components"
	"codemate/internal/ui/layout"
	"codemate/internal/ui/theme"
)

// PracticeScreen picks a language, then browses its exercises.
type PracticeScreen struct {
	deps Deps
	menu components.Menu
}

var _ screen.Screen = (*PracticeScreen)(nil)

// NewPractice creates the practice language picker.
func NewPractice(deps Deps) *PracticeScreen {
	var items []components.MenuItem
	for _, id := range deps.Catalog.LanguageIDs() {
		exercises := deps.Catalog.Practice(id, "")
		if len(exercises) == 0 {
			continue
		}
		id := id
		solved := deps.Practice.SolvedCount(deps.User.Email, id)
		items = append(items, components.MenuItem{
			Label: langTitle(deps, id),
			Hint:  fmt.Sprintf("%d/%d solved", solved, len(exercises)),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: NewExercises(deps, id)}
				}
			},
		})
	}
	return &PracticeScreen{deps: deps, menu: components.NewMenu(items)}
}

func (p *PracticeScreen) Init() tea.Cmd { return nil }

func (p *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	p.menu, cmd = p.menu.Update(msg)
	return p, cmd
}

func (p *PracticeScreen) View(width, height int) string {
	header := theme.Title.Render("Practice") + "\n\n"
	return centerBlock(header+p.menu.View(), width, height)
}

func (p *PracticeScreen) Title() string { return "Practice" }

// ExercisesScreen lists one language's practice items; enter opens the
// prompt, a reveals the reference answer, m marks the item solved.
type ExercisesScreen struct {
	deps     Deps
	lang     string
	items    []content.PracticeItem
	cursor   int
	open     bool
	revealed bool
}

var _ screen.Screen = (*ExercisesScreen)(nil)

// NewExercises creates the exercise browser for a language.
func NewExercises(deps Deps, lang string) *ExercisesScreen {
	return &ExercisesScreen{
		deps:  deps,
		lang:  lang,
		items: deps.Catalog.Practice(lang, ""),
	}
}

func (e *ExercisesScreen) Init() tea.Cmd { return nil }

func (e *ExercisesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(e.items) == 0 {
		return e, nil
	}

	if e.open {
		switch kmsg.String() {
		case "a":
			e.revealed = true
		case "m":
			item := e.items[e.cursor]
			e.deps.Practice.MarkSolved(e.deps.User.Email, e.lang, item.ID)
			e.deps.Meta.TouchStreak(e.deps.User.Email)
		case "enter", "backspace":
			e.open = false
			e.revealed = false
		}
		return e, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if e.cursor > 0 {
			e.cursor--
		}
	case "down", "j":
		if e.cursor < len(e.items)-1 {
			e.cursor++
		}
	case "enter":
		e.open = true
		e.revealed = false
	}

	return e, nil
}

func (e *ExercisesScreen) View(width, height int) string {
	if len(e.items) == 0 {
		return centerBlock(theme.Hint.Render("No exercises for this language yet."), width, height)
	}
	e.cursor = clampCursor(e.cursor, len(e.items))
	user := e.deps.User.Email

	if e.open {
		item := e.items[e.cursor]
		var b strings.Builder
		b.WriteString(theme.Title.Render(item.Title) + "\n")
		b.WriteString(theme.Subtitle.Render(item.Difficulty) + "\n\n")
		b.WriteString(theme.Body.Render(wrap(item.Prompt, min(width-8, 76))) + "\n\n")
		if e.revealed {
			b.WriteString(theme.Code.Render(item.Answer) + "\n\n")
		} else {
			b.WriteString(theme.Hint.Render("press a to reveal a reference answer") + "\n\n")
		}
		if e.deps.Practice.IsSolved(user, e.lang, item.ID) {
			b.WriteString(theme.Done.Render("✓ Solved"))
		} else {
			b.WriteString(theme.Hint.Render("press m when you have solved it"))
		}
		return centerBlock(b.String(), width, height)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(langTitle(e.deps, e.lang)+" exercises") + "\n\n")
	for i, item := range e.items {
		mark := "[ ]"
		style := theme.Unselected
		if e.deps.Practice.IsSolved(user, e.lang, item.ID) {
			mark = "[✓]"
			style = theme.Done
		}
		prefix := "   "
		if i == e.cursor {
			prefix = " ▸ "
			style = theme.Selected
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%s %-30s %s", prefix, mark, item.Title, item.Difficulty)) + "\n")
	}
	return centerBlock(b.String(), width, height)
}

func (e *ExercisesScreen) Title() string { return "Practice" }

func (e *ExercisesScreen) KeyHints() []layout.KeyHint {
	if e.open {
		return []layout.KeyHint{
			{Key: "A", Description: "Answer"},
			{Key: "M", Description: "Mark solved"},
			{Key: "Enter", Description: "List"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}
