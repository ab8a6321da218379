package bus

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"codemate/internal/storage"
)

// errNoWatch is returned when the storage backend cannot report changes.
var errNoWatch = errors.New("storage backend does not support change notification")

// slotTransport is the fallback cross-process channel. Every publish
// overwrites a single shared slot key through the Storage Codec; other
// processes observe the change via the backend's watch. Only the latest
// broadcast survives, so receipt means "something changed", never a queue.
//
// The backend watch fires for the writer's own process too, so the reader
// drops envelopes stamped with an origin it has already sent (the Bus also
// filters by origin as a second line).
type slotTransport struct {
	codec *storage.Codec
	log   *zap.Logger
	recv  chan Envelope
	stop  func()
	once  sync.Once

	mu       sync.Mutex
	sentBy   map[string]struct{} // origins written by this process
	lastTS   int64
	lastFrom string
}

func newSlotTransport(codec *storage.Codec, log *zap.Logger) (*slotTransport, error) {
	w, ok := codec.Backend().(storage.Watcher)
	if !ok {
		return nil, errNoWatch
	}

	ch, cancel, err := w.Watch(storage.BusSlotKey)
	if err != nil {
		return nil, err
	}

	t := &slotTransport{
		codec:  codec,
		log:    log,
		recv:   make(chan Envelope, 16),
		stop:   cancel,
		sentBy: make(map[string]struct{}),
	}
	go t.watchLoop(ch)
	return t, nil
}

func (t *slotTransport) Send(env Envelope) error {
	t.mu.Lock()
	t.sentBy[env.Origin] = struct{}{}
	t.mu.Unlock()
	return t.codec.WriteJSON(storage.BusSlotKey, env)
}

func (t *slotTransport) Receive() <-chan Envelope { return t.recv }

func (t *slotTransport) Close() error {
	t.once.Do(t.stop)
	return nil
}

func (t *slotTransport) watchLoop(ch <-chan struct{}) {
	for range ch {
		env := storage.ReadJSON(t.codec, storage.BusSlotKey, Envelope{})
		if env.Event == "" {
			continue
		}

		t.mu.Lock()
		_, own := t.sentBy[env.Origin]
		dup := env.TS == t.lastTS && env.Origin == t.lastFrom
		if !own && !dup {
			t.lastTS, t.lastFrom = env.TS, env.Origin
		}
		t.mu.Unlock()

		if own || dup {
			continue
		}
		select {
		case t.recv <- env:
		default:
			t.log.Debug("slot receiver full, dropping broadcast",
				zap.String("event", env.Event))
		}
	}
}
