package progress

import (
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"codemate/internal/bus"
	"codemate/internal/storage"
)

const user = "u@example.com"

func newTestStore(t *testing.T) (*Store, *bus.Bus, *storage.Codec) {
	t.Helper()
	backend, err := storage.NewFileBackend(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	t.Cleanup(func() { backend.Close() })

	codec := storage.NewCodec(backend, zap.NewNop())
	b := bus.New(nil, zap.NewNop())
	t.Cleanup(func() { b.Close() })
	return NewStore(codec, b, zap.NewNop()), b, codec
}

func TestMarkLessonCompleteIsIdempotent(t *testing.T) {
	s, _, _ := newTestStore(t)

	s.MarkLessonComplete(user, "java", "j1")
	if got := s.CompletedLessonCount(user, "java"); got != 1 {
		t.Fatalf("count after first mark = %d", got)
	}

	s.MarkLessonComplete(user, "java", "j1")
	if got := s.CompletedLessonCount(user, "java"); got != 1 {
		t.Errorf("count after duplicate mark = %d, want 1", got)
	}
	if !s.HasCompletedLesson(user, "java", "j1") {
		t.Error("HasCompletedLesson = false after marking")
	}
}

func TestMarkLessonPublishesEvenWhenUnchanged(t *testing.T) {
	s, b, _ := newTestStore(t)

	events := 0
	b.Subscribe(bus.EventProgressUpdated, func(json.RawMessage) { events++ })

	s.MarkLessonComplete(user, "java", "j1")
	s.MarkLessonComplete(user, "java", "j1")

	if events != 2 {
		t.Errorf("expected publish-always (2 events), got %d", events)
	}
}

func TestProgressEventPayload(t *testing.T) {
	s, b, _ := newTestStore(t)

	var payloads []bus.ProgressPayload
	// Two subscribers stand in for two open views of the same account.
	for i := 0; i < 2; i++ {
		b.Subscribe(bus.EventProgressUpdated, func(raw json.RawMessage) {
			var p bus.ProgressPayload
			if err := json.Unmarshal(raw, &p); err != nil {
				t.Errorf("decode: %v", err)
			}
			payloads = append(payloads, p)
		})
	}

	s.MarkLessonComplete(user, "python", "p1")

	if len(payloads) != 2 {
		t.Fatalf("expected both subscribers notified once, got %d", len(payloads))
	}
	for _, p := range payloads {
		if p.User != user || p.Lang != "python" {
			t.Errorf("payload = %+v", p)
		}
	}
}

func TestRecordQuizAttemptAppends(t *testing.T) {
	s, _, _ := newTestStore(t)
	s.now = func() time.Time { return time.UnixMilli(1000) }

	s.RecordQuizAttempt(user, "python", 9, 10)
	s.now = func() time.Time { return time.UnixMilli(2000) }
	s.RecordQuizAttempt(user, "python", 5, 10)

	hist := s.QuizHistory(user, "python")
	if len(hist) != 2 {
		t.Fatalf("history length = %d", len(hist))
	}
	if hist[0].Score != 9 || hist[0].TS != 1000 {
		t.Errorf("first attempt = %+v", hist[0])
	}
	if hist[1].Score != 5 || hist[1].TS != 2000 {
		t.Errorf("second attempt = %+v", hist[1])
	}
}

func TestCompletionPercentBounds(t *testing.T) {
	s, _, _ := newTestStore(t)

	if got := s.CompletionPercent(user, "java", 0); got != 0 {
		t.Errorf("zero-total percent = %d, want 0", got)
	}
	if got := s.CompletionPercent(user, "java", 3); got != 0 {
		t.Errorf("no-progress percent = %d, want 0", got)
	}

	s.MarkLessonComplete(user, "java", "j1")
	if got := s.CompletionPercent(user, "java", 3); got != 33 {
		t.Errorf("1/3 percent = %d, want 33", got)
	}

	s.MarkLessonComplete(user, "java", "j2")
	s.MarkLessonComplete(user, "java", "j3")
	if got := s.CompletionPercent(user, "java", 3); got != 100 {
		t.Errorf("3/3 percent = %d, want 100", got)
	}

	// More completions than the advertised total still clamps at 100.
	s.MarkLessonComplete(user, "java", "j4")
	if got := s.CompletionPercent(user, "java", 3); got != 100 {
		t.Errorf("overfull percent = %d, want 100", got)
	}
}

func TestReadsDegradeOnCorruptStorage(t *testing.T) {
	s, _, codec := newTestStore(t)

	if err := codec.Backend().Set(storage.ProgressKey(user), "<<garbage>>"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if got := s.CompletedLessonCount(user, "java"); got != 0 {
		t.Errorf("count on corrupt record = %d, want 0", got)
	}
	if s.HasCompletedLesson(user, "java", "j1") {
		t.Error("HasCompletedLesson = true on corrupt record")
	}
	if got := s.CompletionPercent(user, "java", 3); got != 0 {
		t.Errorf("percent on corrupt record = %d, want 0", got)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	s, _, codec := newTestStore(t)

	s.MarkLessonComplete(user, "c", "c1")
	s.RecordQuizAttempt(user, "c", 7, 10)

	rec := storage.ReadJSON(codec, storage.ProgressKey(user), Record{})
	lp := rec.Languages["c"]
	if lp == nil {
		t.Fatal("language entry missing after write")
	}
	if len(lp.LessonsCompleted) != 1 || lp.LessonsCompleted[0] != "c1" {
		t.Errorf("lessons = %v", lp.LessonsCompleted)
	}
	if len(lp.QuizHistory) != 1 || lp.QuizHistory[0].Score != 7 || lp.QuizHistory[0].Total != 10 {
		t.Errorf("history = %+v", lp.QuizHistory)
	}
}
