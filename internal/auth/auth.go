// Package auth is local, single-machine account management. Passwords are
// stored as SHA-256 hex digests in the shared user table. This is a
// convenience gate for a learning tool, not a security boundary: anyone
// with access to the data directory can read the table.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"

	"codemate/internal/progress"
	"codemate/internal/storage"
)

var (
	ErrMissingFields = errors.New("all fields are required")
	ErrEmailTaken    = errors.New("an account with this email already exists")
	ErrNoAccount     = errors.New("no account found for this email")
	ErrBadPassword   = errors.New("incorrect password")
	ErrNotLoggedIn   = errors.New("not logged in")
)

// User is one stored account.
type User struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Pass      string `json:"pass"`
	CreatedAt int64  `json:"createdAt"`
}

// Session identifies the logged-in user.
type Session struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Service manages the user table and the current-session marker.
type Service struct {
	codec *storage.Codec
	log   *zap.Logger
	now   func() time.Time
}

func NewService(codec *storage.Codec, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{codec: codec, log: log, now: time.Now}
}

// Signup registers a new account. The email is the account key and must be
// unused.
func (s *Service) Signup(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return ErrMissingFields
	}
	users := s.loadUsers()
	if _, exists := users[email]; exists {
		return ErrEmailTaken
	}
	users[email] = User{
		Name:      name,
		Email:     email,
		Pass:      hashPassword(password),
		CreatedAt: s.now().UnixMilli(),
	}
	if err := s.codec.WriteJSON(storage.UsersKey, users); err != nil {
		return err
	}
	s.log.Info("account created", zap.String("email", email))
	return nil
}

// Login verifies credentials, marks the session current, and seeds an empty
// progress record for first-time logins.
func (s *Service) Login(email, password string) (Session, error) {
	users := s.loadUsers()
	u, ok := users[email]
	if !ok {
		return Session{}, ErrNoAccount
	}
	if hashPassword(password) != u.Pass {
		return Session{}, ErrBadPassword
	}

	sess := Session{Email: u.Email, Name: u.Name}
	if err := s.codec.WriteJSON(storage.CurrentUserKey, sess); err != nil {
		return Session{}, err
	}

	if _, found, err := s.codec.Backend().Get(storage.ProgressKey(email)); err == nil && !found {
		if err := s.codec.WriteJSON(storage.ProgressKey(email), progress.Record{
			Languages: map[string]*progress.LanguageProgress{},
		}); err != nil {
			s.log.Warn("seed progress record failed", zap.String("email", email), zap.Error(err))
		}
	}

	s.log.Info("logged in", zap.String("email", email))
	return sess, nil
}

// Logout clears the current-session marker. Logging out while logged out
// is a no-op.
func (s *Service) Logout() error {
	return s.codec.Delete(storage.CurrentUserKey)
}

// CurrentUser returns the active session, if any.
func (s *Service) CurrentUser() (Session, bool) {
	sess := storage.ReadJSON(s.codec, storage.CurrentUserKey, Session{})
	if sess.Email == "" {
		return Session{}, false
	}
	return sess, true
}

// RequireUser is CurrentUser for callers that cannot proceed anonymously.
func (s *Service) RequireUser() (Session, error) {
	sess, ok := s.CurrentUser()
	if !ok {
		return Session{}, ErrNotLoggedIn
	}
	return sess, nil
}

func (s *Service) loadUsers() map[string]User {
	return storage.ReadJSON(s.codec, storage.UsersKey, map[string]User{})
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
