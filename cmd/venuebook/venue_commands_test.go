package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"venuebook/internal/booking"
	"venuebook/internal/testsupport"
)

func TestVenueLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)
	env.loginAdmin(t)

	image := filepath.Join(env.baseDir, "photo.png")
	testsupport.WriteImage(t, image, 256)

	out := env.mustRun(t, "venue", "add", "Main Hall", "--capacity", "120", "--image", image)
	requireContains(t, out, "Added venue Main Hall")
	stored := filepath.Join(env.cfg.Paths.AssetsDir, "main_hall.png")
	requireContains(t, out, stored)

	var venues []venueJSON
	if err := json.Unmarshal([]byte(env.mustRun(t, "venue", "list", "--json")), &venues); err != nil {
		t.Fatalf("decode venues: %v", err)
	}
	if len(venues) != 1 || venues[0].Capacity != 120 || venues[0].Location != "Location not specified" {
		t.Fatalf("unexpected venues: %+v", venues)
	}

	out = env.mustRun(t, "venue", "show", "Main Hall")
	requireContains(t, out, "Capacity: 120")

	env.runErr(t, "venue", "delete", "Main Hall")
	out = env.mustRun(t, "venue", "delete", "1", "--yes")
	requireContains(t, out, "Deleted venue Main Hall")
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Fatalf("expected venue image removed, got %v", err)
	}
	requireContains(t, env.mustRun(t, "venue", "list"), "No venues")
}

func TestVenueAddRequiresAdmin(t *testing.T) {
	env := setupCLITestEnv(t)
	env.registerAndLogin(t, "alice")
	err := env.runErr(t, "venue", "add", "Main Hall")
	if !errors.Is(err, booking.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUsersListAndDelete(t *testing.T) {
	env := setupCLITestEnv(t)
	env.registerAndLogin(t, "alice")
	env.loginAdmin(t)

	var users []userJSON
	if err := json.Unmarshal([]byte(env.mustRun(t, "users", "list", "--json")), &users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(users) != 1 || users[0].Username != "alice" {
		t.Fatalf("expected only alice, got %+v", users)
	}
	requireContains(t, env.mustRun(t, "users", "list", "--all"), "admin")

	if err := env.runErr(t, "users", "delete", "admin", "--yes"); !errors.Is(err, booking.ErrForbidden) {
		t.Fatalf("self delete: expected ErrForbidden, got %v", err)
	}
	out := env.mustRun(t, "users", "delete", "alice", "--yes")
	requireContains(t, out, "Deleted user alice")
	requireContains(t, env.mustRun(t, "users", "list"), "No users")
}
