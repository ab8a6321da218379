// Package progress owns per-user, per-language lesson completion and quiz
// history. Records are persisted as JSON through the storage codec under
// the user's progress key and every mutation is announced on the event bus.
package progress

import (
	"math"
	"time"

	"go.uber.org/zap"

	"codemate/internal/bus"
	"codemate/internal/storage"
)

// QuizAttempt is one submitted quiz, recorded as given. score <= total is
// the caller's responsibility; this layer stores what it is handed.
type QuizAttempt struct {
	Score int   `json:"score"`
	Total int   `json:"total"`
	TS    int64 `json:"ts"`
}

// LanguageProgress holds one language track's state for a user.
type LanguageProgress struct {
	LessonsCompleted []string      `json:"lessonsCompleted"`
	QuizHistory      []QuizAttempt `json:"quizHistory"`
}

// Record is the persisted progress document for one user.
type Record struct {
	Languages map[string]*LanguageProgress `json:"languages"`
}

// Store reads and mutates progress records. Mutations are read-modify-write
// on the whole record: two processes writing the same user concurrently race
// and the last writer wins. The bus broadcast exists to refresh stale views,
// not to prevent the lost update.
type Store struct {
	codec *storage.Codec
	bus   *bus.Bus
	log   *zap.Logger
	now   func() time.Time
}

// NewStore builds a Store. bus may be nil in tests that don't care about
// events; log may be nil.
func NewStore(codec *storage.Codec, b *bus.Bus, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{codec: codec, bus: b, log: log, now: time.Now}
}

// MarkLessonComplete records lessonId as completed for user/lang. The insert
// is idempotent; the progress-updated broadcast is published on every call,
// even a no-op one, because achievement re-checks key off attempted
// mutations rather than effective ones.
func (s *Store) MarkLessonComplete(user, lang, lessonID string) {
	rec := s.load(user)
	lp := ensureLang(rec, lang)

	if !contains(lp.LessonsCompleted, lessonID) {
		lp.LessonsCompleted = append(lp.LessonsCompleted, lessonID)
	}

	s.save(user, rec)
	s.publish(user, lang)
}

// HasCompletedLesson reports whether lessonId is in the completed set.
func (s *Store) HasCompletedLesson(user, lang, lessonID string) bool {
	rec := s.load(user)
	lp := ensureLang(rec, lang)
	return contains(lp.LessonsCompleted, lessonID)
}

// RecordQuizAttempt appends an attempt stamped with the current time.
// History is append-only and chronological; nothing is ever overwritten.
func (s *Store) RecordQuizAttempt(user, lang string, score, total int) {
	rec := s.load(user)
	lp := ensureLang(rec, lang)

	lp.QuizHistory = append(lp.QuizHistory, QuizAttempt{
		Score: score,
		Total: total,
		TS:    s.now().UnixMilli(),
	})

	s.save(user, rec)
	s.publish(user, lang)
}

// CompletedLessonCount returns the size of the completed set.
func (s *Store) CompletedLessonCount(user, lang string) int {
	rec := s.load(user)
	return len(ensureLang(rec, lang).LessonsCompleted)
}

// CompletionPercent returns round(100*done/total) clamped to [0,100].
// A zero lesson total yields 0: a track with no lessons is never "complete".
func (s *Store) CompletionPercent(user, lang string, totalLessons int) int {
	if totalLessons <= 0 {
		return 0
	}
	done := s.CompletedLessonCount(user, lang)
	pct := int(math.Round(float64(done) / float64(totalLessons) * 100))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

// QuizHistory returns the recorded attempts for user/lang, oldest first.
func (s *Store) QuizHistory(user, lang string) []QuizAttempt {
	rec := s.load(user)
	lp := ensureLang(rec, lang)
	out := make([]QuizAttempt, len(lp.QuizHistory))
	copy(out, lp.QuizHistory)
	return out
}

func (s *Store) load(user string) Record {
	rec := storage.ReadJSON(s.codec, storage.ProgressKey(user), Record{})
	if rec.Languages == nil {
		rec.Languages = make(map[string]*LanguageProgress)
	}
	return rec
}

// save persists fire-and-forget: storage is local and synchronous, and the
// failure mode for a lost write is a stale view, not an error.
func (s *Store) save(user string, rec Record) {
	if err := s.codec.WriteJSON(storage.ProgressKey(user), rec); err != nil {
		s.log.Warn("persist progress failed", zap.String("user", user), zap.Error(err))
	}
}

func (s *Store) publish(user, lang string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(bus.EventProgressUpdated, bus.ProgressPayload{User: user, Lang: lang})
}

func ensureLang(rec Record, lang string) *LanguageProgress {
	lp, ok := rec.Languages[lang]
	if !ok || lp == nil {
		lp = &LanguageProgress{LessonsCompleted: []string{}, QuizHistory: []QuizAttempt{}}
		rec.Languages[lang] = lp
	}
	if lp.LessonsCompleted == nil {
		lp.LessonsCompleted = []string{}
	}
	if lp.QuizHistory == nil {
		lp.QuizHistory = []QuizAttempt{}
	}
	return lp
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
