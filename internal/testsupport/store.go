package testsupport

import (
	"context"
	"testing"
	"time"

	"venuebook/internal/config"
	"venuebook/internal/store"
	"venuebook/internal/timerange"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

// MustRegister creates a non-admin user.
func MustRegister(t testing.TB, st *store.Store, username string) *store.User {
	t.Helper()

	user, err := st.Register(context.Background(), username, username+"-pw")
	if err != nil {
		t.Fatalf("Register(%q): %v", username, err)
	}
	return user
}

// MustAdmin authenticates the seed administrator of a NewConfig store.
func MustAdmin(t testing.TB, st *store.Store) *store.User {
	t.Helper()

	admin, err := st.Authenticate(context.Background(), "admin", TestAdminPassword)
	if err != nil {
		t.Fatalf("authenticate admin: %v", err)
	}
	return admin
}

// MustAddVenue creates a venue without an image.
func MustAddVenue(t testing.TB, st *store.Store, name string, capacity int) *store.Venue {
	t.Helper()

	venue, err := st.AddVenue(context.Background(), name, "", capacity)
	if err != nil {
		t.Fatalf("AddVenue(%q): %v", name, err)
	}
	return venue
}

// Range builds a range from "YYYY-MM-DD HH:MM" values in UTC.
func Range(t testing.TB, start, end string) timerange.Range {
	t.Helper()

	from, err := timerange.ParseLocal(start, time.UTC)
	if err != nil {
		t.Fatalf("parse %q: %v", start, err)
	}
	to, err := timerange.ParseLocal(end, time.UTC)
	if err != nil {
		t.Fatalf("parse %q: %v", end, err)
	}
	r, err := timerange.New(from, to)
	if err != nil {
		t.Fatalf("range %q-%q: %v", start, end, err)
	}
	return r
}

// MustBook creates a pending booking through the store.
func MustBook(t testing.TB, st *store.Store, userID, venueID int64, r timerange.Range) *store.BookingView {
	t.Helper()

	view, err := st.CreateBooking(context.Background(), store.NewBooking{
		UserID:    userID,
		VenueID:   venueID,
		Range:     r,
		Purpose:   "Meeting",
		EventName: "Standup",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	return view
}
