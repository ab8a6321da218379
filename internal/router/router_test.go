package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"codemate/internal/screen"
)

// stubScreen stands in for a real screen such as the dashboard or a
// lesson reader.
type stubScreen struct {
	title   string
	initRan bool
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	dashboard := &stubScreen{title: "Dashboard"}
	r := New(dashboard)

	courses := &stubScreen{title: "Courses"}
	r.Push(courses)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "Courses" {
		t.Errorf("expected active 'Courses', got %q", r.Active().Title())
	}
	if !courses.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	dashboard := &stubScreen{title: "Dashboard"}
	r := New(dashboard)

	courses := &stubScreen{title: "Courses"}
	r.Push(courses)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "Dashboard" {
		t.Errorf("expected active 'Dashboard', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	dashboard := &stubScreen{title: "Dashboard"}
	r := New(dashboard)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
	if r.Active().Title() != "Dashboard" {
		t.Errorf("dashboard must stay reachable, active is %q", r.Active().Title())
	}
}

func TestReplace(t *testing.T) {
	lesson1 := &stubScreen{title: "Lesson: Variables"}
	r := New(lesson1)

	lesson2 := &stubScreen{title: "Lesson: Loops"}
	r.Replace(lesson2)

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after replace, got %d", r.Depth())
	}
	if r.Active().Title() != "Lesson: Loops" {
		t.Errorf("expected active 'Lesson: Loops', got %q", r.Active().Title())
	}
	if !lesson2.initRan {
		t.Error("expected Init() to run on replaced screen")
	}
}

func TestReplaceScreenMsg(t *testing.T) {
	lesson1 := &stubScreen{title: "Lesson: Variables"}
	r := New(lesson1)

	lesson2 := &stubScreen{title: "Lesson: Loops"}
	r.Update(ReplaceScreenMsg{Screen: lesson2})

	if r.Active().Title() != "Lesson: Loops" {
		t.Errorf("expected active 'Lesson: Loops', got %q", r.Active().Title())
	}
	if !lesson2.initRan {
		t.Error("expected Init() to run via ReplaceScreenMsg")
	}
}

func TestReplacePreservesStackDepth(t *testing.T) {
	dashboard := &stubScreen{title: "Dashboard"}
	r := New(dashboard)

	lesson1 := &stubScreen{title: "Lesson: Variables"}
	r.Push(lesson1)

	lesson2 := &stubScreen{title: "Lesson: Loops"}
	r.Replace(lesson2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "Lesson: Loops" {
		t.Errorf("expected active 'Lesson: Loops', got %q", r.Active().Title())
	}
}

// TestDrillInAndBack walks the navigation path a student takes: dashboard
// into a course track, into a lesson, then esc twice back to the
// dashboard.
func TestDrillInAndBack(t *testing.T) {
	r := New(&stubScreen{title: "Dashboard"})

	r.Update(PushScreenMsg{Screen: &stubScreen{title: "Java"}})
	r.Update(PushScreenMsg{Screen: &stubScreen{title: "Lesson: Classes"}})

	if r.Depth() != 3 {
		t.Fatalf("expected depth 3, got %d", r.Depth())
	}
	if r.View(80, 24) != "Lesson: Classes" {
		t.Fatalf("expected lesson view, got %q", r.View(80, 24))
	}

	r.Update(PopScreenMsg{})
	if r.Active().Title() != "Java" {
		t.Fatalf("expected 'Java' after pop, got %q", r.Active().Title())
	}

	r.Update(PopScreenMsg{})
	if r.Active().Title() != "Dashboard" {
		t.Fatalf("expected 'Dashboard' after pop, got %q", r.Active().Title())
	}
}
