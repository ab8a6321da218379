package achievements

// LanguageStats is one track's progress as seen by the rule tests.
type LanguageStats struct {
	Percent       int
	Completed     int
	BestQuizRatio float64
}

// Snapshot is a point-in-time view of a user's progress across the tracked
// languages. Rules are pure functions over a Snapshot, so evaluation never
// touches storage and tests can hand-build scenarios.
type Snapshot struct {
	Tracked   []string
	Languages map[string]LanguageStats
}

func (s Snapshot) stats(lang string) LanguageStats {
	return s.Languages[lang]
}

// Percent returns the completion percentage for lang, 0 for unknown tracks.
func (s Snapshot) Percent(lang string) int {
	return s.stats(lang).Percent
}

// TotalCompleted sums completed lessons across all tracked languages.
func (s Snapshot) TotalCompleted() int {
	n := 0
	for _, lang := range s.Tracked {
		n += s.stats(lang).Completed
	}
	return n
}

// AnyQuizAtLeast reports whether any tracked language has a quiz attempt
// scoring at or above ratio.
func (s Snapshot) AnyQuizAtLeast(ratio float64) bool {
	for _, lang := range s.Tracked {
		if s.stats(lang).BestQuizRatio >= ratio {
			return true
		}
	}
	return false
}

// Rule is one achievement definition. Test decides whether the snapshot
// satisfies it; stickiness is the engine's job, not the rule's.
type Rule struct {
	ID          string
	Name        string
	Description string
	Test        func(Snapshot) bool
}

// DefaultRules returns the built-in achievement catalog in display order.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          "first-lesson",
			Name:        "First Steps",
			Description: "Complete your first lesson",
			Test:        func(s Snapshot) bool { return s.TotalCompleted() >= 1 },
		},
		{
			ID:          "java-50",
			Name:        "Java Novice",
			Description: "Reach 50% in Java",
			Test:        func(s Snapshot) bool { return s.Percent("java") >= 50 },
		},
		{
			ID:          "c-50",
			Name:        "C Novice",
			Description: "Reach 50% in C",
			Test:        func(s Snapshot) bool { return s.Percent("c") >= 50 },
		},
		{
			ID:          "py-50",
			Name:        "Python Novice",
			Description: "Reach 50% in Python",
			Test:        func(s Snapshot) bool { return s.Percent("python") >= 50 },
		},
		{
			ID:          "any-100",
			Name:        "Completionist",
			Description: "Finish any course 100%",
			Test: func(s Snapshot) bool {
				for _, lang := range s.Tracked {
					if s.Percent(lang) == 100 {
						return true
					}
				}
				return false
			},
		},
		{
			ID:          "quiz-80",
			Name:        "Quiz Whiz",
			Description: "Score 80%+ on any quiz",
			Test:        func(s Snapshot) bool { return s.AnyQuizAtLeast(0.8) },
		},
		{
			ID:          "polyglot",
			Name:        "Polyglot",
			Description: "Make progress in all three languages",
			Test: func(s Snapshot) bool {
				if len(s.Tracked) == 0 {
					return false
				}
				for _, lang := range s.Tracked {
					if s.Percent(lang) <= 0 {
						return false
					}
				}
				return true
			},
		},
	}
}
