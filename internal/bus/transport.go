package bus

import (
	"path/filepath"

	"go.uber.org/zap"

	"codemate/internal/storage"
)

// Transport carries envelopes between processes. Implementations are best
// effort: no acknowledgment, no retry, no cross-process ordering guarantee.
type Transport interface {
	// Send broadcasts env to other processes. It must not deliver env back
	// through Receive on the same transport instance.
	Send(env Envelope) error

	// Receive yields envelopes broadcast by other processes. No further
	// envelopes are delivered after Close.
	Receive() <-chan Envelope

	Close() error
}

// Connect probes the available transports in preference order: the Unix
// socket hub first, then the storage slot watch when the backend supports
// change notification. It returns nil when neither works; the Bus then runs
// local-only, which is the documented degraded mode.
func Connect(dir string, codec *storage.Codec, log *zap.Logger) Transport {
	if log == nil {
		log = zap.NewNop()
	}

	sock, err := openSocketTransport(filepath.Join(dir, "bus.sock"), log)
	if err == nil {
		return sock
	}
	log.Warn("socket transport unavailable, trying storage watch", zap.Error(err))

	slot, err := newSlotTransport(codec, log)
	if err == nil {
		return slot
	}
	log.Warn("no cross-process transport available, events stay local", zap.Error(err))
	return nil
}
