package storage

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type record struct {
	Items []string `json:"items"`
	Count int      `json:"count"`
}

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	backend, err := NewFileBackend(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	t.Cleanup(func() { backend.Close() })
	return NewCodec(backend, zap.NewNop())
}

func TestReadJSONRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	want := record{Items: []string{"a", "b"}, Count: 2}
	if err := c.WriteJSON("codemate_progress_u@example.com", want); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	got := ReadJSON(c, "codemate_progress_u@example.com", record{})
	if got.Count != want.Count || len(got.Items) != 2 || got.Items[0] != "a" {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestReadJSONMissingKeyReturnsDefault(t *testing.T) {
	c := newTestCodec(t)

	def := record{Items: []string{}, Count: -1}
	got := ReadJSON(c, "codemate_progress_nobody", def)
	if got.Count != -1 {
		t.Errorf("expected default for missing key, got %+v", got)
	}
}

func TestReadJSONCorruptValueReturnsDefaultAndLogs(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	backend, err := NewFileBackend(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	defer backend.Close()
	c := NewCodec(backend, zap.New(core))

	if err := backend.Set("codemate_progress_u", "{not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got := ReadJSON(c, "codemate_progress_u", record{Count: 7})
	if got.Count != 7 {
		t.Errorf("expected default for corrupt value, got %+v", got)
	}
	if logs.FilterMessage("corrupt record, using default").Len() != 1 {
		t.Errorf("expected one corruption warning, got %d entries", logs.Len())
	}
}

func TestReadJSONTypeMismatchReturnsDefault(t *testing.T) {
	c := newTestCodec(t)

	if err := c.backend.Set("codemate_meta_u", `"just a string"`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got := ReadJSON(c, "codemate_meta_u", record{Count: 3})
	if got.Count != 3 {
		t.Errorf("expected default on type mismatch, got %+v", got)
	}
}

func TestWriteDoesNotClobberOtherKeys(t *testing.T) {
	c := newTestCodec(t)

	if err := c.WriteJSON("codemate_progress_a", record{Count: 1}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if err := c.WriteJSON("codemate_progress_b", record{Count: 2}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	a := ReadJSON(c, "codemate_progress_a", record{})
	if a.Count != 1 {
		t.Errorf("unrelated key changed: %+v", a)
	}
}
