// Package content embeds the course and practice catalogs. The catalog is
// static data compiled into the binary; it is validated against a JSON
// Schema at load so a bad edit fails fast instead of corrupting rendering
// or the completion math downstream.
package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

var (
	//go:embed courses.json
	coursesRaw []byte

	//go:embed practice.json
	practiceRaw []byte
)

// Lesson is an atomic content unit within a language track.
type Lesson struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// QuizQuestion is one multiple-choice question. Answer indexes Options.
type QuizQuestion struct {
	Question string   `json:"q"`
	Options  []string `json:"options"`
	Answer   int      `json:"a"`
}

// Language is one course track. Tracked languages participate in the
// polyglot-style achievement rules; extended tracks do not.
type Language struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
	Tracked  bool           `json:"tracked"`
	Lessons  []Lesson       `json:"lessons"`
	Quiz     []QuizQuestion `json:"quiz"`
}

// PracticeItem is one exercise in the practice browser.
type PracticeItem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
	Prompt     string `json:"prompt"`
	Answer     string `json:"answer"`
}

// Catalog is the loaded, validated content set.
type Catalog struct {
	languages map[string]Language
	order     []string
	practice  map[string][]PracticeItem
}

type coursesDoc struct {
	Languages []Language `json:"languages"`
}

// Load parses and validates the embedded catalogs.
func Load() (*Catalog, error) {
	if err := validateCatalog(coursesRaw, practiceRaw); err != nil {
		return nil, err
	}

	var doc coursesDoc
	if err := json.Unmarshal(coursesRaw, &doc); err != nil {
		return nil, fmt.Errorf("parse courses: %w", err)
	}

	var practice map[string][]PracticeItem
	if err := json.Unmarshal(practiceRaw, &practice); err != nil {
		return nil, fmt.Errorf("parse practice: %w", err)
	}

	c := &Catalog{
		languages: make(map[string]Language, len(doc.Languages)),
		practice:  practice,
	}
	for _, lang := range doc.Languages {
		if _, dup := c.languages[lang.ID]; dup {
			return nil, fmt.Errorf("duplicate language id %q", lang.ID)
		}
		c.languages[lang.ID] = lang
		c.order = append(c.order, lang.ID)
	}
	return c, nil
}

// Language returns the track for id.
func (c *Catalog) Language(id string) (Language, bool) {
	lang, ok := c.languages[id]
	return lang, ok
}

// LanguageIDs returns all track ids in catalog order.
func (c *Catalog) LanguageIDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// TrackedLanguages returns the ids participating in achievement rules,
// in catalog order.
func (c *Catalog) TrackedLanguages() []string {
	var out []string
	for _, id := range c.order {
		if c.languages[id].Tracked {
			out = append(out, id)
		}
	}
	return out
}

// LessonCount returns the number of lessons in lang, 0 for unknown tracks.
func (c *Catalog) LessonCount(lang string) int {
	return len(c.languages[lang].Lessons)
}

// Lesson looks up one lesson by track and id.
func (c *Catalog) Lesson(lang, id string) (Lesson, bool) {
	for _, l := range c.languages[lang].Lessons {
		if l.ID == id {
			return l, true
		}
	}
	return Lesson{}, false
}

// Practice returns the exercises for lang, optionally filtered by
// difficulty ("" means all).
func (c *Catalog) Practice(lang, difficulty string) []PracticeItem {
	var out []PracticeItem
	for _, item := range c.practice[lang] {
		if difficulty == "" || item.Difficulty == difficulty {
			out = append(out, item)
		}
	}
	return out
}
