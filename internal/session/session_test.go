package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"venuebook/internal/session"
	"venuebook/internal/store"
)

func TestSaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "session.json")

	if _, err := session.Load(path); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession before login, got %v", err)
	}

	saved, err := session.Save(path, &store.User{ID: 7, Username: "alice"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected session id")
	}

	loaded, err := session.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ID != saved.ID || loaded.UserID != 7 || loaded.Username != "alice" || loaded.IsAdmin {
		t.Fatalf("unexpected session: %+v", loaded)
	}
	if user := loaded.User(); user.ID != 7 || user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}

	again, err := session.Save(path, &store.User{ID: 1, Username: "admin", IsAdmin: true})
	if err != nil {
		t.Fatalf("Save again: %v", err)
	}
	if again.ID == saved.ID {
		t.Fatal("expected a fresh session id per login")
	}

	existed, err := session.Clear(path)
	if err != nil || !existed {
		t.Fatalf("Clear = %v, %v", existed, err)
	}
	existed, err = session.Clear(path)
	if err != nil || existed {
		t.Fatalf("second Clear = %v, %v", existed, err)
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := session.Load(path); err == nil || errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestAcquireLockIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "venuebook.lock")

	first, err := session.AcquireLock(context.Background(), path)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	if _, err := session.AcquireLock(ctx, path); !errors.Is(err, session.ErrLocked) {
		t.Fatalf("expected ErrLocked while held, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	second, err := session.AcquireLock(context.Background(), path)
	if err != nil {
		t.Fatalf("AcquireLock after release: %v", err)
	}
	if err := second.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	var none *session.Lock
	if err := none.Release(); err != nil {
		t.Fatalf("nil Release: %v", err)
	}
}
