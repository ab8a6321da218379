package auth

import (
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"codemate/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	log := zaptest.NewLogger(t)
	backend, err := storage.NewFileBackend(t.TempDir(), log)
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	t.Cleanup(func() { backend.Close() })
	return NewService(storage.NewCodec(backend, log), log)
}

func TestSignupAndLogin(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Signup("Ada", "ada@example.com", "hunter2"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	sess, err := svc.Login("ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Name != "Ada" || sess.Email != "ada@example.com" {
		t.Errorf("session = %+v", sess)
	}

	got, ok := svc.CurrentUser()
	if !ok || got != sess {
		t.Errorf("current user = %+v, ok=%v", got, ok)
	}
}

func TestSignupValidation(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Signup("", "a@b.c", "pw"); !errors.Is(err, ErrMissingFields) {
		t.Errorf("empty name: %v", err)
	}

	if err := svc.Signup("Ada", "ada@example.com", "pw"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := svc.Signup("Ada Again", "ada@example.com", "pw2"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email: %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Login("ghost@example.com", "pw"); !errors.Is(err, ErrNoAccount) {
		t.Errorf("unknown account: %v", err)
	}

	if err := svc.Signup("Ada", "ada@example.com", "right"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.Login("ada@example.com", "wrong"); !errors.Is(err, ErrBadPassword) {
		t.Errorf("wrong password: %v", err)
	}
	if _, ok := svc.CurrentUser(); ok {
		t.Error("failed login left a session behind")
	}
}

func TestLoginSeedsProgressOnce(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Signup("Ada", "ada@example.com", "pw"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.Login("ada@example.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	key := storage.ProgressKey("ada@example.com")
	if _, found, _ := svc.codec.Backend().Get(key); !found {
		t.Fatal("progress record not seeded on first login")
	}

	// A later login must not reset an existing record.
	if err := svc.codec.WriteJSON(key, map[string]any{
		"languages": map[string]any{"java": map[string]any{"lessonsCompleted": []string{"j1"}}},
	}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := svc.Login("ada@example.com", "pw"); err != nil {
		t.Fatalf("relogin: %v", err)
	}
	val, _, _ := svc.codec.Backend().Get(key)
	if val == `{"languages":{}}` {
		t.Error("relogin overwrote existing progress")
	}
}

func TestLogout(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Logout(); err != nil {
		t.Fatalf("logout while logged out: %v", err)
	}

	if err := svc.Signup("Ada", "ada@example.com", "pw"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.Login("ada@example.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := svc.CurrentUser(); ok {
		t.Error("session survived logout")
	}
	if _, err := svc.RequireUser(); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("RequireUser after logout: %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	// Digest of "hello", as produced by any standard sha256 tool.
	const want = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got := hashPassword("hello"); got != want {
		t.Errorf("hashPassword = %s, want %s", got, want)
	}
}
