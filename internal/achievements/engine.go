// Package achievements computes and persists sticky achievements. An id
// is added to the user's earned set when its rule first passes and is
// never removed, even if progress is later wiped and the rule would fail.
package achievements

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"codemate/internal/bus"
	"codemate/internal/content"
	"codemate/internal/progress"
	"codemate/internal/storage"
)

type record struct {
	Earned []string `json:"earned"`
}

// Engine evaluates the rule catalog against live progress and keeps the
// earned set in storage under the user's achievements key.
type Engine struct {
	codec    *storage.Codec
	bus      *bus.Bus
	progress *progress.Store
	catalog  *content.Catalog
	rules    []Rule
	log      *zap.Logger
}

// NewEngine builds an Engine over the default rule catalog. bus may be nil
// when nothing listens for achievement events; log may be nil.
func NewEngine(codec *storage.Codec, b *bus.Bus, prog *progress.Store, catalog *content.Catalog, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		codec:    codec,
		bus:      b,
		progress: prog,
		catalog:  catalog,
		rules:    DefaultRules(),
		log:      log,
	}
}

// Rules returns the rule catalog in display order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Snapshot builds the point-in-time progress view the rules evaluate.
func (e *Engine) Snapshot(user string) Snapshot {
	tracked := e.catalog.TrackedLanguages()
	langs := make(map[string]LanguageStats, len(tracked))
	for _, lang := range tracked {
		stats := LanguageStats{
			Percent:   e.progress.CompletionPercent(user, lang, e.catalog.LessonCount(lang)),
			Completed: e.progress.CompletedLessonCount(user, lang),
		}
		for _, q := range e.progress.QuizHistory(user, lang) {
			if q.Total <= 0 {
				continue
			}
			if r := float64(q.Score) / float64(q.Total); r > stats.BestQuizRatio {
				stats.BestQuizRatio = r
			}
		}
		langs[lang] = stats
	}
	return Snapshot{Tracked: tracked, Languages: langs}
}

// Evaluate runs every rule against the current snapshot, merges newly
// satisfied ids into the persisted earned set, and returns the earned rules
// in catalog order.
func (e *Engine) Evaluate(user string) []Rule {
	earned := e.earnedSet(user)

	snap := e.Snapshot(user)
	for _, r := range e.rules {
		if r.Test(snap) {
			earned[r.ID] = struct{}{}
		}
	}

	ids := make([]string, 0, len(earned))
	for id := range earned {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if err := e.codec.WriteJSON(storage.AchievementsKey(user), record{Earned: ids}); err != nil {
		e.log.Warn("persist achievements failed", zap.String("user", user), zap.Error(err))
	}

	return e.filter(earned)
}

// ListEarned returns the persisted earned rules in catalog order without
// re-evaluating anything.
func (e *Engine) ListEarned(user string) []Rule {
	return e.filter(e.earnedSet(user))
}

// EnsureAndNotify re-evaluates and broadcasts achievements-updated when the
// earned set actually changed. Callers invoke it after every progress
// mutation; most calls are no-ops.
func (e *Engine) EnsureAndNotify(user string) {
	before := fingerprint(e.ListEarned(user))
	after := fingerprint(e.Evaluate(user))
	if before == after {
		return
	}
	e.log.Info("achievements updated", zap.String("user", user))
	if e.bus != nil {
		e.bus.Publish(bus.EventAchievementsUpdated, bus.AchievementsPayload{User: user})
	}
}

func (e *Engine) earnedSet(user string) map[string]struct{} {
	rec := storage.ReadJSON(e.codec, storage.AchievementsKey(user), record{})
	set := make(map[string]struct{}, len(rec.Earned))
	for _, id := range rec.Earned {
		set[id] = struct{}{}
	}
	return set
}

func (e *Engine) filter(earned map[string]struct{}) []Rule {
	var out []Rule
	for _, r := range e.rules {
		if _, ok := earned[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}

func fingerprint(rules []Rule) string {
	ids := make([]string, len(rules))
	for i, r := range rules {
		ids[i] = r.ID
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}
