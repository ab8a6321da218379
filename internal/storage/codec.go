package storage

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Codec reads and writes JSON-shaped records on a Backend. Reads never fail
// outward: a missing key, a corrupt value, or a backend error all yield the
// caller's default, with the problem logged. This mirrors the contract the
// browser build had around localStorage + JSON.parse.
type Codec struct {
	backend Backend
	log     *zap.Logger
}

// NewCodec wraps backend. A nil logger is replaced with a no-op logger.
func NewCodec(backend Backend, log *zap.Logger) *Codec {
	if log == nil {
		log = zap.NewNop()
	}
	return &Codec{backend: backend, log: log}
}

// Backend exposes the underlying store (used by the bus slot transport).
func (c *Codec) Backend() Backend { return c.backend }

// ReadJSON returns the decoded value at key, or def when the key is missing,
// unreadable, or not valid JSON for T. Decoding goes through a fresh value so
// a corrupt record can never leave a partially-filled result behind.
func ReadJSON[T any](c *Codec, key string, def T) T {
	raw, ok, err := c.backend.Get(key)
	if err != nil {
		c.log.Warn("storage read failed", zap.String("key", key), zap.Error(err))
		return def
	}
	if !ok {
		return def
	}

	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		c.log.Warn("corrupt record, using default", zap.String("key", key), zap.Error(err))
		return def
	}
	return out
}

// WriteJSON serializes v and persists it under key synchronously.
func (c *Codec) WriteJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.backend.Set(key, string(data)); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

// Delete removes key from the backend.
func (c *Codec) Delete(key string) error {
	return c.backend.Delete(key)
}
