// Package chat is the tutor. Questions are answered by an LLM when a
// provider is configured, and by the built-in pattern table otherwise, so
// the tutor always says something.
package chat

import (
	"context"
	"regexp"
	"strings"
)

// Greeting opens every new conversation.
const Greeting = `Hi! I'm CodeMate. Ask me something like: "Java for loop example" or "Python list methods".`

// Turn is one prior exchange in the conversation.
type Turn struct {
	Role string // "user" or "assistant"
	Text string
}

// Reply is a tutor answer. Code, when present, is a runnable snippet in
// CodeLang for the UI to render separately from the prose.
type Reply struct {
	Text     string `json:"text"`
	Code     string `json:"code,omitempty"`
	CodeLang string `json:"codeLang,omitempty"`
}

// Responder produces tutor replies.
type Responder interface {
	Reply(ctx context.Context, history []Turn, question string) (Reply, error)
}

// pattern is one entry in the rule table: every expression must match the
// lowercased question for the canned reply to fire.
type pattern struct {
	all   []*regexp.Regexp
	reply Reply
}

// RuleResponder answers from a fixed pattern table. It never errors, which
// makes it the fallback when no LLM is available.
type RuleResponder struct {
	patterns []pattern
	fallback Reply
}

// NewRuleResponder builds the responder over the built-in table.
func NewRuleResponder() *RuleResponder {
	mk := func(exprs ...string) []*regexp.Regexp {
		out := make([]*regexp.Regexp, len(exprs))
		for i, e := range exprs {
			out[i] = regexp.MustCompile(e)
		}
		return out
	}

	return &RuleResponder{
		patterns: []pattern{
			{
				all: mk(`java`, `for`),
				reply: Reply{
					Text:     "Here's a Java for-loop example. Tip: use i++ to increment and a stop condition like i < 5.",
					Code:     "for (int i = 0; i < 5; i++) {\n  System.out.println(i);\n}",
					CodeLang: "java",
				},
			},
			{
				all: mk(`python`, `list`),
				reply: Reply{
					Text:     "Lists in Python are dynamic arrays.",
					Code:     "nums = [1,2,3]\nnums.append(4)\nprint(nums)  # [1,2,3,4]",
					CodeLang: "python",
				},
			},
			{
				all: mk(`c\b`, `(pointer|\*)`),
				reply: Reply{
					Text:     "Pointers reference memory addresses in C.",
					Code:     "#include <stdio.h>\nint x = 5; int *p = &x; printf(\"%d\\n\", *p);",
					CodeLang: "c",
				},
			},
			{
				all: mk(`array`, `java`),
				reply: Reply{
					Text:     "Fixed-size arrays in Java:",
					Code:     "int[] a = {1,2,3};\nSystem.out.println(a[0]);",
					CodeLang: "java",
				},
			},
			{
				all: mk(`string`, `c\b`),
				reply: Reply{
					Text:     "C strings are char arrays terminated by \\0.",
					Code:     "char s[6] = \"hello\";\nprintf(\"%s\\n\", s);",
					CodeLang: "c",
				},
			},
		},
		fallback: Reply{
			Text: "I couldn't find an exact match, but here are tips to get a better answer:\n" +
				"  - Mention the language (Java / C / Python)\n" +
				"  - Describe the topic (e.g., loops, arrays, functions)\n" +
				"  - Include an error message if you have one",
		},
	}
}

// Reply matches the question against the table, first hit wins. History is
// ignored; the rule table is stateless.
func (r *RuleResponder) Reply(_ context.Context, _ []Turn, question string) (Reply, error) {
	q := strings.ToLower(question)
	for _, p := range r.patterns {
		if matchesAll(p.all, q) {
			return p.reply, nil
		}
	}
	return r.fallback, nil
}

func matchesAll(exprs []*regexp.Regexp, s string) bool {
	for _, re := range exprs {
		if !re.MatchString(s) {
			return false
		}
	}
	return true
}
