package bus

import (
	"encoding/json"
	"testing"

	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPublishDeliversToAllSubscribersOnce(t *testing.T) {
	b := New(nil, zap.NewNop())
	defer b.Close()

	var first, second []ProgressPayload
	b.Subscribe(EventProgressUpdated, func(raw json.RawMessage) {
		var p ProgressPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		first = append(first, p)
	})
	b.Subscribe(EventProgressUpdated, func(raw json.RawMessage) {
		var p ProgressPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		second = append(second, p)
	})

	b.Publish(EventProgressUpdated, ProgressPayload{User: "u@example.com", Lang: "java"})

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected exactly one delivery each, got %d and %d", len(first), len(second))
	}
	if first[0] != second[0] {
		t.Errorf("subscribers saw different payloads: %+v vs %+v", first[0], second[0])
	}
	if first[0].User != "u@example.com" || first[0].Lang != "java" {
		t.Errorf("unexpected payload: %+v", first[0])
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New(nil, zap.NewNop())
	defer b.Close()

	calls := 0
	unsub := b.Subscribe("custom-event", func(json.RawMessage) { calls++ })

	b.Publish("custom-event", nil)
	unsub()
	b.Publish("custom-event", nil)

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestHandlerPanicIsIsolatedAndLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	b := New(nil, zap.New(core))
	defer b.Close()

	reached := false
	b.Subscribe("boom", func(json.RawMessage) { panic("handler bug") })
	b.Subscribe("boom", func(json.RawMessage) { reached = true })

	b.Publish("boom", nil)

	if !reached {
		t.Error("panic in one handler blocked delivery to the next")
	}
	if logs.FilterMessage("event handler panicked").Len() != 1 {
		t.Errorf("expected one panic log entry, got %d", logs.Len())
	}
}

func TestPublishNeverPanicsOnUnencodablePayload(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	b := New(nil, zap.New(core))
	defer b.Close()

	var got json.RawMessage
	b.Subscribe("weird", func(raw json.RawMessage) { got = raw })

	b.Publish("weird", make(chan int)) // not JSON-serializable

	if string(got) != "null" {
		t.Errorf("expected null payload, got %q", got)
	}
	if logs.FilterMessage("unencodable event payload").Len() != 1 {
		t.Error("expected a logged encoding warning")
	}
}

func TestHandlersRunInRegistrationOrder(t *testing.T) {
	b := New(nil, zap.NewNop())
	defer b.Close()

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		b.Subscribe("seq", func(json.RawMessage) { order = append(order, i) })
	}

	b.Publish("seq", nil)

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("delivery order = %v", order)
	}
}
