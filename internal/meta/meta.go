// Package meta holds per-user study metadata that is not progress itself:
// the daily streak and convenience lookups for dashboards.
package meta

import (
	"time"

	"go.uber.org/zap"

	"codemate/internal/content"
	"codemate/internal/progress"
	"codemate/internal/storage"
)

// record is the persisted meta document. LastActive is a UTC date key
// (2006-01-02) so streak math compares calendar days, not 24h windows.
type record struct {
	Streak     int    `json:"streak"`
	LastActive string `json:"lastActive"`
}

// Service computes streaks and dashboard lookups.
type Service struct {
	codec    *storage.Codec
	catalog  *content.Catalog
	progress *progress.Store
	log      *zap.Logger
	now      func() time.Time
}

func NewService(codec *storage.Codec, catalog *content.Catalog, prog *progress.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{codec: codec, catalog: catalog, progress: prog, log: log, now: time.Now}
}

// TouchStreak records activity today and returns the current streak.
// Consecutive-day activity increments the streak; a gap resets it to 1.
// Multiple touches on the same day are no-ops.
func (s *Service) TouchStreak(user string) int {
	rec := s.load(user)
	today := s.dateKey(0)

	if rec.LastActive == today {
		// A stored streak below 1 with activity today is a corrupted
		// record. Normalize and persist so later reads agree.
		if rec.Streak < 1 {
			rec.Streak = 1
			if err := s.codec.WriteJSON(storage.MetaKey(user), rec); err != nil {
				s.log.Warn("persist meta failed", zap.String("user", user), zap.Error(err))
			}
		}
		return rec.Streak
	}

	if rec.LastActive == s.dateKey(-1) {
		rec.Streak++
	} else {
		rec.Streak = 1
	}
	rec.LastActive = today

	if err := s.codec.WriteJSON(storage.MetaKey(user), rec); err != nil {
		s.log.Warn("persist meta failed", zap.String("user", user), zap.Error(err))
	}
	return rec.Streak
}

// Streak returns the stored streak without touching it.
func (s *Service) Streak(user string) int {
	return s.load(user).Streak
}

// NextLesson returns the first lesson in lang the user has not completed.
func (s *Service) NextLesson(user, lang string) (content.Lesson, bool) {
	track, ok := s.catalog.Language(lang)
	if !ok {
		return content.Lesson{}, false
	}
	for _, l := range track.Lessons {
		if !s.progress.HasCompletedLesson(user, lang, l.ID) {
			return l, true
		}
	}
	return content.Lesson{}, false
}

// LastQuiz returns the most recent quiz attempt for user/lang.
func (s *Service) LastQuiz(user, lang string) (progress.QuizAttempt, bool) {
	history := s.progress.QuizHistory(user, lang)
	if len(history) == 0 {
		return progress.QuizAttempt{}, false
	}
	return history[len(history)-1], true
}

func (s *Service) load(user string) record {
	return storage.ReadJSON(s.codec, storage.MetaKey(user), record{})
}

// dateKey returns the UTC calendar date offset whole days from now.
func (s *Service) dateKey(days int) string {
	return s.now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}
