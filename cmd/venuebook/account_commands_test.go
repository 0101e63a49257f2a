package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"venuebook/internal/session"
	"venuebook/internal/store"
	"venuebook/internal/testsupport"
)

func TestRegisterLoginWhoami(t *testing.T) {
	env := setupCLITestEnv(t)

	out := env.mustRun(t, "register", "alice", "--password", "secret")
	requireContains(t, out, "Registered alice")

	out = env.mustRun(t, "login", "alice", "--password", "secret")
	requireContains(t, out, "Logged in as alice (user)")

	out = env.mustRun(t, "whoami")
	requireContains(t, out, "alice")
	requireContains(t, out, "Admin:    no")
	requireContains(t, out, "0 total")

	out = env.mustRun(t, "logout")
	requireContains(t, out, "Logged out")
	out = env.mustRun(t, "logout")
	requireContains(t, out, "Not logged in")
}

func TestLoginReadsPasswordFromStdin(t *testing.T) {
	env := setupCLITestEnv(t)
	env.mustRun(t, "register", "bob", "--password", "hunter2")

	out, _, err := runCLIWithInput(t, []string{"login", "bob"}, env.configPath, strings.NewReader("hunter2\n"))
	if err != nil {
		t.Fatalf("login via stdin: %v", err)
	}
	requireContains(t, out, "Logged in as bob")
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := setupCLITestEnv(t)
	env.mustRun(t, "register", "carol", "--password", "right")

	err := env.runErr(t, "login", "carol", "--password", "wrong")
	if !errors.Is(err, store.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if got := describeError(err); got != "invalid username or password" {
		t.Fatalf("describeError = %q", got)
	}
}

func TestDuplicateRegistrationFails(t *testing.T) {
	env := setupCLITestEnv(t)
	env.mustRun(t, "register", "dave", "--password", "pw")
	err := env.runErr(t, "register", "dave", "--password", "other")
	if !errors.Is(err, store.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestCommandsRequireLogin(t *testing.T) {
	env := setupCLITestEnv(t)
	for _, args := range [][]string{
		{"whoami"},
		{"venue", "list"},
		{"bookings"},
		{"stats"},
	} {
		err := env.runErr(t, args...)
		if !errors.Is(err, session.ErrNoSession) {
			t.Fatalf("%v: expected ErrNoSession, got %v", args, err)
		}
	}
}

func TestStaleSessionIsCleared(t *testing.T) {
	env := setupCLITestEnv(t)
	env.registerAndLogin(t, "erin")

	st := testsupport.MustOpenStore(t, env.cfg)
	erin, err := st.FindUserByName(context.Background(), "erin")
	if err != nil {
		t.Fatalf("FindUserByName: %v", err)
	}
	if _, err := st.DeleteUser(context.Background(), erin.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	err = env.runErr(t, "whoami")
	if !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if _, err := os.Stat(env.cfg.SessionPath()); !os.IsNotExist(err) {
		t.Fatalf("expected session file to be removed, got %v", err)
	}
}
