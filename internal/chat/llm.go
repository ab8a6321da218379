package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"codemate/internal/llm"
)

const tutorSystemPrompt = `You are CodeMate, a friendly programming tutor for beginners learning Java, C, Python, JavaScript, and TypeScript.
Answer the student's question concisely. When a code example helps, put it in the code field and name its language in codeLang.
Never invent APIs. If the question is ambiguous, ask one clarifying question in the text field.`

// tutorReplySchema constrains the LLM to the Reply shape.
var tutorReplySchema = &llm.Schema{
	Name:        "tutor-reply",
	Description: "A tutoring answer with optional code example",
	Definition: map[string]any{
		"type":                 "object",
		"required":             []any{"text"},
		"additionalProperties": false,
		"properties": map[string]any{
			"text":     map[string]any{"type": "string", "description": "The prose answer"},
			"code":     map[string]any{"type": "string", "description": "Optional runnable code example"},
			"codeLang": map[string]any{"type": "string", "description": "Language of the code example, lowercase"},
		},
	},
}

// LLMResponder answers through an llm.Provider with structured output.
// When the provider fails it degrades to the rule table instead of
// surfacing an error into the conversation.
type LLMResponder struct {
	provider llm.Provider
	fallback *RuleResponder
	log      *zap.Logger

	maxTokens   int
	temperature float64
}

// NewLLMResponder builds a responder over provider. log may be nil.
func NewLLMResponder(provider llm.Provider, log *zap.Logger) *LLMResponder {
	if log == nil {
		log = zap.NewNop()
	}
	return &LLMResponder{
		provider:    provider,
		fallback:    NewRuleResponder(),
		log:         log,
		maxTokens:   1024,
		temperature: 0.3,
	}
}

func (r *LLMResponder) Reply(ctx context.Context, history []Turn, question string) (Reply, error) {
	req := llm.Request{
		System:      tutorSystemPrompt,
		Messages:    buildMessages(history, question),
		Schema:      tutorReplySchema,
		MaxTokens:   r.maxTokens,
		Temperature: r.temperature,
	}

	resp, err := r.provider.Generate(llm.WithPurpose(ctx, "tutor-chat"), req)
	if err != nil {
		r.log.Warn("tutor llm failed, using rule table", zap.Error(err))
		return r.fallback.Reply(ctx, history, question)
	}

	var reply Reply
	if err := json.Unmarshal(resp.Content, &reply); err != nil {
		return Reply{}, fmt.Errorf("decode tutor reply: %w", err)
	}
	return reply, nil
}

func buildMessages(history []Turn, question string) []llm.Message {
	msgs := make([]llm.Message, 0, len(history)+1)
	for _, t := range history {
		role := llm.RoleUser
		if t.Role == "assistant" {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: t.Text})
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: question})
}

// NewResponder picks the best available responder: a configured provider
// when cfg validates, the rule table otherwise.
func NewResponder(ctx context.Context, cfg llm.Config, log *zap.Logger) Responder {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		log.Info("no llm provider configured, tutor uses rule table", zap.Error(err))
		return NewRuleResponder()
	}
	provider, err := llm.NewProvider(ctx, cfg, log)
	if err != nil {
		log.Warn("llm provider init failed, tutor uses rule table", zap.Error(err))
		return NewRuleResponder()
	}
	return NewLLMResponder(provider, log)
}
