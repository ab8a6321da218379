// Package bus is the cross-process publish/subscribe channel. A publish is
// delivered synchronously to every subscriber in the publishing process and,
// best effort, to every other codemate process on the same data directory.
package bus

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event names emitted by the core stores. Collaborators may publish their
// own names on the same bus.
const (
	EventProgressUpdated     = "progress-updated"
	EventAchievementsUpdated = "achievements-updated"
)

// ProgressPayload accompanies progress-updated.
type ProgressPayload struct {
	User string `json:"user"`
	Lang string `json:"lang"`
}

// AchievementsPayload accompanies achievements-updated.
type AchievementsPayload struct {
	User string `json:"user"`
}

// Envelope is the wire form of one broadcast. Origin identifies the sending
// process so a process never re-delivers its own out-of-process broadcast;
// TS disambiguates rapid repeated writes to the slot key.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	TS      int64           `json:"ts"`
	Origin  string          `json:"origin"`
}

// Handler receives the JSON-encoded payload of an event.
type Handler func(payload json.RawMessage)

type subscription struct {
	id int
	fn Handler
}

// Bus fans events out to local subscribers and a Transport. The zero value
// is not usable; construct with New.
type Bus struct {
	mu       sync.Mutex
	nextID   int
	handlers map[string][]subscription

	transport Transport
	origin    string
	log       *zap.Logger
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a Bus on the given transport. transport may be nil, in which
// case delivery is local-only (the degraded mode when no cross-process
// channel is available).
func New(transport Transport, log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Bus{
		handlers:  make(map[string][]subscription),
		transport: transport,
		origin:    uuid.NewString(),
		log:       log,
		done:      make(chan struct{}),
	}
	if transport != nil {
		go b.receiveLoop()
	}
	return b
}

// Subscribe registers handler for event and returns a function that removes
// the registration. Handlers for the same event run in registration order.
func (b *Bus) Subscribe(event string, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[event] = append(b.handlers[event], subscription{id: id, fn: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.handlers[event]
		for i, s := range subs {
			if s.id == id {
				b.handlers[event] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers event to local subscribers synchronously and broadcasts
// it to other processes best effort. It never fails: payloads that cannot
// be encoded, transport errors, and handler panics are logged and absorbed.
func (b *Bus) Publish(event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		b.log.Warn("unencodable event payload", zap.String("event", event), zap.Error(err))
		raw = json.RawMessage("null")
	}

	env := Envelope{
		Event:   event,
		Payload: raw,
		TS:      time.Now().UnixMilli(),
		Origin:  b.origin,
	}

	b.dispatch(env)

	if b.transport != nil {
		if err := b.transport.Send(env); err != nil {
			b.log.Warn("broadcast failed", zap.String("event", event), zap.Error(err))
		}
	}
}

// Close stops the receive loop and shuts down the transport.
func (b *Bus) Close() error {
	var err error
	b.closeOnce.Do(func() {
		close(b.done)
		if b.transport != nil {
			err = b.transport.Close()
		}
	})
	return err
}

func (b *Bus) receiveLoop() {
	for {
		select {
		case <-b.done:
			return
		case env, ok := <-b.transport.Receive():
			if !ok {
				return
			}
			if env.Origin == b.origin || env.Event == "" {
				continue
			}
			b.dispatch(env)
		}
	}
}

func (b *Bus) dispatch(env Envelope) {
	b.mu.Lock()
	subs := make([]subscription, len(b.handlers[env.Event]))
	copy(subs, b.handlers[env.Event])
	b.mu.Unlock()

	for _, s := range subs {
		b.invoke(env.Event, s.fn, env.Payload)
	}
}

// invoke runs one handler best effort: a panic is isolated and logged,
// and delivery to the remaining handlers continues.
func (b *Bus) invoke(event string, fn Handler, payload json.RawMessage) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked",
				zap.String("event", event),
				zap.Any("panic", r),
			)
		}
	}()
	fn(payload)
}
