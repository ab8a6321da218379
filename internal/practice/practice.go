// Package practice tracks which exercises a user has solved, per language.
package practice

import (
	"go.uber.org/zap"

	"codemate/internal/bus"
	"codemate/internal/storage"
)

// Tracker persists solved-exercise sets. Solving an exercise counts as
// study activity, so it rides the same progress-updated event as lessons
// and quizzes.
type Tracker struct {
	codec *storage.Codec
	bus   *bus.Bus
	log   *zap.Logger

	// ensure, when set, re-checks achievements after a mutation. Wired by
	// the composition root to avoid a package cycle with the engine.
	ensure func(user string)
}

// NewTracker builds a Tracker. bus and log may be nil.
func NewTracker(codec *storage.Codec, b *bus.Bus, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{codec: codec, bus: b, log: log}
}

// OnMutation registers the post-mutation hook.
func (t *Tracker) OnMutation(fn func(user string)) {
	t.ensure = fn
}

// MarkSolved records exercise id as solved for user/lang. Repeat calls are
// idempotent on the stored set but still broadcast, matching lesson marks.
func (t *Tracker) MarkSolved(user, lang, id string) {
	sets := t.load(user)
	if !contains(sets[lang], id) {
		sets[lang] = append(sets[lang], id)
	}
	if err := t.codec.WriteJSON(storage.PracticeKey(user), sets); err != nil {
		t.log.Warn("persist practice failed", zap.String("user", user), zap.Error(err))
	}
	if t.bus != nil {
		t.bus.Publish(bus.EventProgressUpdated, bus.ProgressPayload{User: user, Lang: lang})
	}
	if t.ensure != nil {
		t.ensure(user)
	}
}

// IsSolved reports whether the exercise is in the user's solved set.
func (t *Tracker) IsSolved(user, lang, id string) bool {
	return contains(t.load(user)[lang], id)
}

// Solved returns the solved exercise ids for user/lang in solve order.
func (t *Tracker) Solved(user, lang string) []string {
	ids := t.load(user)[lang]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// SolvedCount returns the size of the solved set.
func (t *Tracker) SolvedCount(user, lang string) int {
	return len(t.load(user)[lang])
}

func (t *Tracker) load(user string) map[string][]string {
	sets := storage.ReadJSON(t.codec, storage.PracticeKey(user), map[string][]string{})
	if sets == nil {
		sets = map[string][]string{}
	}
	return sets
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
