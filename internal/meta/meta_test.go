package meta

import (
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"codemate/internal/content"
	"codemate/internal/progress"
	"codemate/internal/storage"
)

const testUser = "u@example.com"

func newTestService(t *testing.T) (*Service, *progress.Store) {
	t.Helper()
	log := zaptest.NewLogger(t)
	backend, err := storage.NewFileBackend(t.TempDir(), log)
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	t.Cleanup(func() { backend.Close() })

	catalog, err := content.Load()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	codec := storage.NewCodec(backend, log)
	prog := progress.NewStore(codec, nil, log)
	return NewService(codec, catalog, prog, log), prog
}

func TestStreakAccumulates(t *testing.T) {
	svc, _ := newTestService(t)

	day := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }

	if got := svc.TouchStreak(testUser); got != 1 {
		t.Fatalf("first touch streak = %d, want 1", got)
	}

	// Same day, later hour: unchanged.
	svc.now = func() time.Time { return day.Add(8 * time.Hour) }
	if got := svc.TouchStreak(testUser); got != 1 {
		t.Fatalf("same-day streak = %d, want 1", got)
	}

	// Next two consecutive days.
	svc.now = func() time.Time { return day.AddDate(0, 0, 1) }
	if got := svc.TouchStreak(testUser); got != 2 {
		t.Fatalf("day 2 streak = %d, want 2", got)
	}
	svc.now = func() time.Time { return day.AddDate(0, 0, 2) }
	if got := svc.TouchStreak(testUser); got != 3 {
		t.Fatalf("day 3 streak = %d, want 3", got)
	}
}

func TestStreakResetsAfterGap(t *testing.T) {
	svc, _ := newTestService(t)

	day := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }
	svc.TouchStreak(testUser)
	svc.now = func() time.Time { return day.AddDate(0, 0, 1) }
	svc.TouchStreak(testUser)

	// Skip a day.
	svc.now = func() time.Time { return day.AddDate(0, 0, 3) }
	if got := svc.TouchStreak(testUser); got != 1 {
		t.Fatalf("streak after gap = %d, want 1", got)
	}
}

func TestStreakNormalizesCorruptedRecord(t *testing.T) {
	svc, _ := newTestService(t)

	day := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }

	// Stored record already marks activity today but carries a zero
	// streak, as a partially written document would.
	bad := record{Streak: 0, LastActive: svc.dateKey(0)}
	if err := svc.codec.WriteJSON(storage.MetaKey(testUser), bad); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	if got := svc.TouchStreak(testUser); got != 1 {
		t.Fatalf("touch streak = %d, want 1", got)
	}
	if got := svc.Streak(testUser); got != 1 {
		t.Fatalf("stored streak = %d after touch, want 1", got)
	}

	// The normalized record must keep counting from tomorrow.
	svc.now = func() time.Time { return day.AddDate(0, 0, 1) }
	if got := svc.TouchStreak(testUser); got != 2 {
		t.Fatalf("day 2 streak = %d, want 2", got)
	}
}

func TestStreakWithoutTouch(t *testing.T) {
	svc, _ := newTestService(t)
	if got := svc.Streak(testUser); got != 0 {
		t.Errorf("streak = %d for untouched user, want 0", got)
	}
}

func TestNextLesson(t *testing.T) {
	svc, prog := newTestService(t)

	next, ok := svc.NextLesson(testUser, "c")
	if !ok || next.ID != "c1" {
		t.Fatalf("next = %+v ok=%v, want c1", next, ok)
	}

	prog.MarkLessonComplete(testUser, "c", "c1")
	next, ok = svc.NextLesson(testUser, "c")
	if !ok || next.ID != "c2" {
		t.Fatalf("next = %+v ok=%v, want c2", next, ok)
	}

	prog.MarkLessonComplete(testUser, "c", "c2")
	prog.MarkLessonComplete(testUser, "c", "c3")
	if _, ok := svc.NextLesson(testUser, "c"); ok {
		t.Error("next lesson found in finished track")
	}

	if _, ok := svc.NextLesson(testUser, "cobol"); ok {
		t.Error("next lesson found in unknown track")
	}
}

func TestLastQuiz(t *testing.T) {
	svc, prog := newTestService(t)

	if _, ok := svc.LastQuiz(testUser, "java"); ok {
		t.Fatal("last quiz present with empty history")
	}

	prog.RecordQuizAttempt(testUser, "java", 1, 3)
	prog.RecordQuizAttempt(testUser, "java", 3, 3)

	last, ok := svc.LastQuiz(testUser, "java")
	if !ok || last.Score != 3 || last.Total != 3 {
		t.Errorf("last = %+v ok=%v, want 3/3", last, ok)
	}
}
