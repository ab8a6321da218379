package storage

// Backend is a persistent per-key string store. Values are JSON documents
// produced by the Codec; the backend itself treats them as opaque strings.
type Backend interface {
	// Get returns the stored value for key. The boolean reports whether the
	// key exists; a missing key is not an error.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value. A failed
	// Set must leave other keys untouched.
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is a no-op.
	Delete(key string) error

	// Keys returns all stored keys with the given prefix.
	Keys(prefix string) ([]string, error)

	Close() error
}

// Watcher is implemented by backends that can report external changes to a
// key (writes made by another process). The file backend supports this; the
// SQLite backend does not.
type Watcher interface {
	// Watch returns a channel that receives a tick whenever the key is
	// written by anyone, plus a cancel function releasing the watch.
	// Notifications coalesce: a tick means "changed at least once".
	Watch(key string) (<-chan struct{}, func(), error)
}

// Keys for the persisted records, namespaced per user and per concern the
// same way the browser build namespaced its localStorage entries.
const (
	UsersKey       = "codemate_users_v1"
	CurrentUserKey = "codemate_current_user_v1"
	BusSlotKey     = "codemate_bus_ping_v1"
)

func ProgressKey(user string) string     { return "codemate_progress_" + user }
func AchievementsKey(user string) string { return "codemate_achievements_" + user }
func PracticeKey(user string) string     { return "codemate_practice_" + user }
func MetaKey(user string) string         { return "codemate_meta_" + user }
