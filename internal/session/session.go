// Package session remembers the logged-in CLI user between invocations and
// serializes mutating commands across processes.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"venuebook/internal/store"
)

// ErrNoSession reports that nobody is logged in.
var ErrNoSession = errors.New("not logged in (run `venuebook login`)")

// Session is the persisted login state.
type Session struct {
	ID         string    `json:"session_id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	IsAdmin    bool      `json:"is_admin"`
	LoggedInAt time.Time `json:"logged_in_at"`
}

// User returns the session identity as a store user.
func (s *Session) User() *store.User {
	return &store.User{ID: s.UserID, Username: s.Username, IsAdmin: s.IsAdmin}
}

// Save records user as logged in at path, replacing any previous session.
func Save(path string, user *store.User) (*Session, error) {
	if user == nil {
		return nil, errors.New("save session: user is required")
	}
	sess := &Session{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Username:   user.Username,
		IsAdmin:    user.IsAdmin,
		LoggedInAt: time.Now().UTC().Truncate(time.Second),
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".session-*.json")
	if err != nil {
		return nil, fmt.Errorf("create session file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("install session: %w", err)
	}
	return sess, nil
}

// Load reads the session at path.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", path, err)
	}
	if sess.UserID == 0 {
		return nil, ErrNoSession
	}
	return &sess, nil
}

// Clear removes the session. It reports whether one existed.
func Clear(path string) (bool, error) {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("remove session: %w", err)
	}
	return true, nil
}
