package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileBackend stores one file per key under <dir>/keys. Writes go through a
// temp file and rename so a concurrent reader never sees a torn value.
// It is the default backend and the only one that supports Watch.
type FileBackend struct {
	dir string
	log *zap.Logger
}

// NewFileBackend creates the key directory and returns a FileBackend.
func NewFileBackend(dir string, log *zap.Logger) (*FileBackend, error) {
	keyDir := filepath.Join(dir, "keys")
	if err := os.MkdirAll(keyDir, 0o755); err != nil {
		return nil, fmt.Errorf("create key dir: %w", err)
	}
	return &FileBackend{dir: dir, log: log}, nil
}

func (b *FileBackend) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

func (b *FileBackend) Set(key, value string) error {
	path := b.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func (b *FileBackend) Delete(key string) error {
	err := os.Remove(b.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (b *FileBackend) Keys(prefix string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(b.dir, "keys"))
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		key := strings.TrimSuffix(name, ".json")
		if strings.HasPrefix(key, sanitizeKey(prefix)) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (b *FileBackend) Close() error { return nil }

// Watch reports writes to key made by any process, including renames from
// the atomic write path. The returned channel coalesces rapid changes.
func (b *FileBackend) Watch(key string) (<-chan struct{}, func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Join(b.dir, "keys")); err != nil {
		w.Close()
		return nil, nil, fmt.Errorf("watch key dir: %w", err)
	}

	target := filepath.Base(b.path(key))
	ch := make(chan struct{}, 1)
	done := make(chan struct{})

	go func() {
		defer close(ch)
		for {
			select {
			case <-done:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				select {
				case ch <- struct{}{}:
				default: // already pending
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				b.log.Warn("file watch error", zap.String("key", key), zap.Error(err))
			}
		}
	}()

	var cancel = func() {
		close(done)
		w.Close()
	}
	return ch, cancel, nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, "keys", sanitizeKey(key)+".json")
}

// sanitizeKey maps a storage key to a safe file name. Keys embed user
// identifiers (emails), so anything outside a conservative set is replaced.
func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_' || r == '@':
			return r
		default:
			return '_'
		}
	}, key)
}
