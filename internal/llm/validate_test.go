package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

// replySchema mirrors the tutor reply shape: explanation text with an
// optional code sample tagged with its language.
func replySchema() *Schema {
	return &Schema{
		Name:        "reply-check",
		Description: "Tutor reply with optional code sample",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text":     map[string]any{"type": "string"},
				"code":     map[string]any{"type": "string"},
				"codeLang": map[string]any{"type": "string", "enum": []any{"go", "python", "javascript"}},
			},
			"required": []any{"text"},
		},
	}
}

func TestValidateResponse_ValidReply(t *testing.T) {
	raw := json.RawMessage(`{"text":"A for loop repeats its body.","code":"for i := 0; i < 3; i++ {}","codeLang":"go"}`)
	if err := validateResponse(replySchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_ValidWithoutOptionalCode(t *testing.T) {
	raw := json.RawMessage(`{"text":"Recursion is a function calling itself."}`)
	if err := validateResponse(replySchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_MissingRequired(t *testing.T) {
	raw := json.RawMessage(`{"code":"x := 1"}`)
	err := validateResponse(replySchema(), raw)
	if err == nil {
		t.Fatal("expected error for missing required field")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateResponse_WrongType(t *testing.T) {
	raw := json.RawMessage(`{"text":42}`)
	err := validateResponse(replySchema(), raw)
	if err == nil {
		t.Fatal("expected error for wrong type")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateResponse_InvalidEnum(t *testing.T) {
	raw := json.RawMessage(`{"text":"Pointers hold addresses.","code":"int *p;","codeLang":"c"}`)
	err := validateResponse(replySchema(), raw)
	if err == nil {
		t.Fatal("expected error for enum value outside the tracked languages")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateResponse_MalformedJSON(t *testing.T) {
	raw := json.RawMessage(`A loop is... actually let me show you`)
	err := validateResponse(replySchema(), raw)
	if err == nil {
		t.Fatal("expected error for non-JSON reply")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateResponse_EmptyResponse(t *testing.T) {
	raw := json.RawMessage(``)
	if err := validateResponse(replySchema(), raw); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	raw := json.RawMessage(`{"anything":"goes"}`)
	if err := validateResponse(nil, raw); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_NestedObjects(t *testing.T) {
	schema := &Schema{
		Name:        "lesson-recap",
		Description: "Lesson recap with follow-up hints",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"lesson": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{"type": "string"},
					},
					"required": []any{"title"},
				},
				"hints": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"lesson", "hints"},
		},
	}

	valid := json.RawMessage(`{"lesson":{"title":"Slices"},"hints":["try append","mind the capacity"]}`)
	if err := validateResponse(schema, valid); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	invalid := json.RawMessage(`{"lesson":{"title":"Slices"},"hints":[1,2]}`)
	if err := validateResponse(schema, invalid); err == nil {
		t.Fatal("expected error for wrong array item type")
	}
}
