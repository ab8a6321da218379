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

// DashboardScreen is the landing screen: streak, next lesson, per-language
// completion, earned badges, and the navigation menu.
type DashboardScreen struct {
	deps Deps
	menu components.Menu
}

var _ screen.Screen = (*DashboardScreen)(nil)

// NewDashboard creates the dashboard for the signed-in user.
func NewDashboard(deps Deps) *DashboardScreen {
	items := []components.MenuItem{
		{Label: "COURSES", Hint: "lessons and quizzes", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: NewCourses(deps)}
			}
		}},
		{Label: "PRACTICE", Hint: "coding exercises", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: NewPractice(deps)}
			}
		}},
		{Label: "CHAT TUTOR", Hint: "ask anything", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: NewChat(deps)}
			}
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &DashboardScreen{
		deps: deps,
		menu: components.NewMenu(items),
	}
}

func (d *DashboardScreen) Init() tea.Cmd {
	return nil
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	d.menu, cmd = d.menu.Update(msg)
	return d, cmd
}

func (d *DashboardScreen) View(width, height int) string {
	user := d.deps.User.Email
	cw := contentWidth(width)
	compact := layout.IsCompact(width, height+8)

	var sections []string

	sections = append(sections, components.SectionCard("Today", d.renderToday(), cw))
	sections = append(sections, components.SectionCard("Progress", d.renderProgressBars(user, cw-4), cw))
	if !compact {
		sections = append(sections, components.SectionCard("Badges", d.renderBadges(user, cw-4), cw))
	}
	sections = append(sections, d.menu.View())

	content := strings.Join(sections, "\n")

	return centerBlock(content, width, height)
}

func (d *DashboardScreen) Title() string {
	return "Dashboard"
}

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (d *DashboardScreen) renderToday() string {
	user := d.deps.User.Email
	streak := d.deps.Meta.Streak(user)

	lines := []string{
		theme.Body.Render(fmt.Sprintf("Streak: %d day(s)", streak)),
	}

	for _, lang := range d.deps.Catalog.TrackedLanguages() {
		if lesson, ok := d.deps.Meta.NextLesson(user, lang); ok {
			title := langTitle(d.deps, lang)
			lines = append(lines, theme.Body.Render(
				fmt.Sprintf("Next in %s: %s", title, lesson.Title)))
			break
		}
	}

	if lang := firstTracked(d.deps); lang != "" {
		if attempt, ok := d.deps.Meta.LastQuiz(user, lang); ok {
			lines = append(lines, theme.Hint.Render(
				fmt.Sprintf("Last %s quiz: %d/%d", langTitle(d.deps, lang), attempt.Score, attempt.Total)))
		}
	}

	return strings.Join(lines, "\n")
}

func (d *DashboardScreen) renderProgressBars(user string, width int) string {
	var bars []string
	for _, lang := range d.deps.Catalog.TrackedLanguages() {
		pct := d.deps.Progress.CompletionPercent(user, lang, d.deps.Catalog.LessonCount(lang))
		label := fmt.Sprintf("%-8s", langTitle(d.deps, lang))
		bar := components.NewProgressBar(label, pct, true, width)
		bars = append(bars, bar.View())
	}
	return strings.Join(bars, "\n")
}

func (d *DashboardScreen) renderBadges(user string, width int) string {
	earned := make(map[string]bool)
	for _, r := range d.deps.Achievements.ListEarned(user) {
		earned[r.ID] = true
	}

	var badges []components.Badge
	for _, r := range d.deps.Achievements.Rules() {
		badges = append(badges, components.Badge{Name: r.Name, Earned: earned[r.ID]})
	}
	return components.RenderBadges(badges, width)
}

func firstTracked(deps Deps) string {
	langs := deps.Catalog.TrackedLanguages()
	if len(langs) == 0 {
		return ""
	}
	return langs[0]
}

func langTitle(deps Deps, lang string) string {
	if l, ok := deps.Catalog.Language(lang); ok {
		return l.Title
	}
	return lang
}
