package tui

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"codemate/internal/screen"
	"codemate/internal/ui/components"
	"codemate/internal/ui/layout"
	"codemate/internal/ui/theme"
)

// QuizScreen runs one language's quiz front to back and records the attempt
// when the last question is answered.
type QuizScreen struct {
	deps     Deps
	lang     string
	index    int
	score    int
	choice   components.MultiChoice
	finished bool
	recorded bool
}

var _ screen.Screen = (*QuizScreen)(nil)

// NewQuiz starts the quiz for a language.
func NewQuiz(deps Deps, lang string) *QuizScreen {
	q := &QuizScreen{deps: deps, lang: lang}
	q.loadQuestion()
	return q
}

func (q *QuizScreen) loadQuestion() {
	lang, ok := q.deps.Catalog.Language(q.lang)
	if !ok || q.index >= len(lang.Quiz) {
		q.finished = true
		return
	}
	question := lang.Quiz[q.index]
	q.choice = components.NewMultiChoice(
		fmt.Sprintf("Q%d/%d  %s", q.index+1, len(lang.Quiz), question.Question),
		question.Options,
		question.Answer,
	)
}

func (q *QuizScreen) Init() tea.Cmd { return nil }

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if q.finished {
		return q, nil
	}

	if q.choice.Submitted {
		if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
			q.advance()
		}
		return q, nil
	}

	wasSubmitted := q.choice.Submitted
	var cmd tea.Cmd
	q.choice, cmd = q.choice.Update(msg)
	if !wasSubmitted && q.choice.Submitted && q.choice.IsCorrect() {
		q.score++
	}
	return q, cmd
}

func (q *QuizScreen) advance() {
	q.index++
	q.loadQuestion()
	if q.finished && !q.recorded {
		lang, _ := q.deps.Catalog.Language(q.lang)
		user := q.deps.User.Email
		q.deps.Progress.RecordQuizAttempt(user, q.lang, q.score, len(lang.Quiz))
		q.deps.Meta.TouchStreak(user)
		q.deps.Achievements.EnsureAndNotify(user)
		q.recorded = true
	}
}

func (q *QuizScreen) View(width, height int) string {
	if q.finished {
		lang, _ := q.deps.Catalog.Language(q.lang)
		total := len(lang.Quiz)
		summary := theme.Title.Render("Quiz complete!") + "\n\n" +
			theme.Body.Render(fmt.Sprintf("Score: %d / %d", q.score, total))
		if total > 0 && q.score*10 >= total*8 {
			summary += "\n" + theme.Correct.Render("Great run!")
		}
		summary += "\n\n" + theme.Hint.Render("press esc to go back")
		return centerBlock(summary, width, height)
	}

	view := q.choice.View()
	if q.choice.Submitted {
		if q.choice.IsCorrect() {
			view += "\n" + theme.Correct.Render("Correct!")
		} else {
			view += "\n" + theme.Incorrect.Render("Not quite.")
		}
		view += "\n" + theme.Hint.Render("press enter to continue")
	}
	return centerBlock(view, width, height)
}

func (q *QuizScreen) Title() string { return "Quiz" }

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
		{Key: "Esc", Description: "Back"},
	}
}
