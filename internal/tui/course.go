package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"codemate/internal/router"
	"codemate/internal/screen"
	"codemate/internal/ui/components"
	"codemate/internal/ui/layout"
	"codemate/internal/ui/theme"
)

// CoursesScreen lists the available languages.
type CoursesScreen struct {
	deps Deps
	menu components.Menu
}

var _ screen.Screen = (*CoursesScreen)(nil)

// NewCourses creates the language picker.
func NewCourses(deps Deps) *CoursesScreen {
	var items []components.MenuItem
	for _, id := range deps.Catalog.LanguageIDs() {
		lang, _ := deps.Catalog.Language(id)
		id := id
		hint := lang.Subtitle
		if lang.Tracked {
			pct := deps.Progress.CompletionPercent(deps.User.Email, id, len(lang.Lessons))
			hint = fmt.Sprintf("%s · %d%%", lang.Subtitle, pct)
		}
		items = append(items, components.MenuItem{
			Label: lang.Title,
			Hint:  hint,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: NewLessons(deps, id)}
				}
			},
		})
	}

	return &CoursesScreen{deps: deps, menu: components.NewMenu(items)}
}

func (c *CoursesScreen) Init() tea.Cmd { return nil }

func (c *CoursesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	c.menu, cmd = c.menu.Update(msg)
	return c, cmd
}

func (c *CoursesScreen) View(width, height int) string {
	header := theme.Title.Render("Pick a language") + "\n\n"
	return centerBlock(header+c.menu.View(), width, height)
}

func (c *CoursesScreen) Title() string { return "Courses" }

// LessonsScreen lists one language's lessons with completion marks.
type LessonsScreen struct {
	deps   Deps
	lang   string
	cursor int
}

var _ screen.Screen = (*LessonsScreen)(nil)

// NewLessons creates the lesson list for a language.
func NewLessons(deps Deps, lang string) *LessonsScreen {
	return &LessonsScreen{deps: deps, lang: lang}
}

func (l *LessonsScreen) Init() tea.Cmd { return nil }

func (l *LessonsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	lang, ok := l.deps.Catalog.Language(l.lang)
	if !ok {
		return l, nil
	}

	kmsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return l, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < len(lang.Lessons)-1 {
			l.cursor++
		}
	case "enter":
		if l.cursor < len(lang.Lessons) {
			lesson := lang.Lessons[l.cursor]
			return l, func() tea.Msg {
				return router.PushScreenMsg{Screen: NewLesson(l.deps, l.lang, lesson.ID)}
			}
		}
	case "q":
		if len(lang.Quiz) > 0 {
			return l, func() tea.Msg {
				return router.PushScreenMsg{Screen: NewQuiz(l.deps, l.lang)}
			}
		}
	}

	return l, nil
}

func (l *LessonsScreen) View(width, height int) string {
	lang, ok := l.deps.Catalog.Language(l.lang)
	if !ok {
		return theme.Hint.Render("Unknown language.")
	}
	l.cursor = clampCursor(l.cursor, len(lang.Lessons))

	user := l.deps.User.Email
	var b strings.Builder
	b.WriteString(theme.Title.Render(lang.Title) + "\n")
	b.WriteString(theme.Subtitle.Render(lang.Subtitle) + "\n\n")

	for i, lesson := range lang.Lessons {
		mark := "[ ]"
		style := theme.Unselected
		if l.deps.Progress.HasCompletedLesson(user, l.lang, lesson.ID) {
			mark = "[✓]"
			style = theme.Done
		}
		prefix := "   "
		if i == l.cursor {
			prefix = " ▸ "
			style = theme.Selected
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%s %s", prefix, mark, lesson.Title)) + "\n")
	}

	if len(lang.Quiz) > 0 {
		b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("press q for the %d-question quiz", len(lang.Quiz))))
	}

	return centerBlock(b.String(), width, height)
}

func (l *LessonsScreen) Title() string { return "Lessons" }

func (l *LessonsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Q", Description: "Quiz"},
		{Key: "Esc", Description: "Back"},
	}
}

// LessonScreen shows one lesson's body and lets the learner mark it done.
type LessonScreen struct {
	deps     Deps
	lang     string
	lessonID string
	justDone bool
}

var _ screen.Screen = (*LessonScreen)(nil)

// NewLesson opens a single lesson.
func NewLesson(deps Deps, lang, lessonID string) *LessonScreen {
	return &LessonScreen{deps: deps, lang: lang, lessonID: lessonID}
}

func (l *LessonScreen) Init() tea.Cmd { return nil }

func (l *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	switch kmsg.String() {
	case "c":
		user := l.deps.User.Email
		l.deps.Progress.MarkLessonComplete(user, l.lang, l.lessonID)
		l.deps.Meta.TouchStreak(user)
		l.deps.Achievements.EnsureAndNotify(user)
		l.justDone = true
	case "n":
		// Step to the next lesson in place so esc still returns to the
		// lesson list, not a trail of read lessons.
		if next, ok := l.followingLesson(); ok {
			return l, func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: NewLesson(l.deps, l.lang, next)}
			}
		}
	}

	return l, nil
}

// followingLesson returns the ID of the lesson after this one in the
// track, if any.
func (l *LessonScreen) followingLesson() (string, bool) {
	lang, ok := l.deps.Catalog.Language(l.lang)
	if !ok {
		return "", false
	}
	for i, lesson := range lang.Lessons {
		if lesson.ID == l.lessonID && i+1 < len(lang.Lessons) {
			return lang.Lessons[i+1].ID, true
		}
	}
	return "", false
}

func (l *LessonScreen) View(width, height int) string {
	lesson, ok := l.deps.Catalog.Lesson(l.lang, l.lessonID)
	if !ok {
		return theme.Hint.Render("Lesson not found.")
	}

	user := l.deps.User.Email
	done := l.deps.Progress.HasCompletedLesson(user, l.lang, l.lessonID)

	var b strings.Builder
	b.WriteString(theme.Title.Render(lesson.Title) + "\n\n")
	b.WriteString(theme.Body.Render(wrap(lesson.Body, min(width-8, 76))) + "\n\n")

	switch {
	case l.justDone:
		b.WriteString(theme.Correct.Render("Marked complete!"))
	case done:
		b.WriteString(theme.Done.Render("✓ Completed"))
	default:
		b.WriteString(theme.Hint.Render("press c to mark complete"))
	}

	return centerBlock(b.String(), width, height)
}

func (l *LessonScreen) Title() string { return "Lesson" }

func (l *LessonScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "C", Description: "Complete"},
		{Key: "N", Description: "Next"},
		{Key: "Esc", Description: "Back"},
	}
}

// wrap soft-wraps text at width, preserving existing newlines so indented
// code samples keep their shape.
func wrap(s string, width int) string {
	if width < 20 {
		width = 20
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if len(line) <= width || strings.HasPrefix(line, " ") {
			out = append(out, line)
			continue
		}
		words := strings.Fields(line)
		cur := ""
		for _, w := range words {
			if cur == "" {
				cur = w
			} else if len(cur)+1+len(w) <= width {
				cur += " " + w
			} else {
				out = append(out, cur)
				cur = w
			}
		}
		if cur != "" {
			out = append(out, cur)
		}
	}
	return strings.Join(out, "\n")
}
