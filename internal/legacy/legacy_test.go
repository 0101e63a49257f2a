package legacy_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"venuebook/internal/assets"
	"venuebook/internal/legacy"
	"venuebook/internal/logging"
	"venuebook/internal/store"
	"venuebook/internal/testsupport"
)

const legacySchema = `
CREATE TABLE users (
    user_id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password TEXT NOT NULL,
    is_admin INTEGER DEFAULT 0
);
CREATE TABLE venues (
    venue_id INTEGER PRIMARY KEY AUTOINCREMENT,
    venue_name TEXT UNIQUE NOT NULL,
    location TEXT DEFAULT '',
    capacity INTEGER DEFAULT 0,
    image TEXT DEFAULT ''
);
CREATE TABLE bookings (
    booking_id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER,
    venue_id INTEGER,
    booking_date TEXT,
    time_range TEXT,
    purpose TEXT,
    event_name TEXT,
    is_approved INTEGER DEFAULT 0
);`

func writeLegacyDB(t *testing.T) string {
	t.Helper()

	appDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(appDir, "db"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	testsupport.WriteImage(t, filepath.Join(appDir, "images", "hall.png"), 128)

	path := filepath.Join(appDir, "db", "venue_booking.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open legacy db: %v", err)
	}
	defer db.Close()

	statements := []string{
		legacySchema,
		`INSERT INTO users (username, password, is_admin) VALUES ('admin', 'admin', 1)`,
		`INSERT INTO users (username, password) VALUES ('alice', 'pw1')`,
		`INSERT INTO users (username, password) VALUES ('ghost', '')`,
		`INSERT INTO venues (venue_name, capacity, image) VALUES ('Main Hall', 100, 'images/hall.png')`,
		`INSERT INTO venues (venue_name, capacity, image) VALUES ('Annex', 10, 'images/missing.png')`,
		`INSERT INTO bookings (user_id, venue_id, booking_date, time_range, purpose, event_name, is_approved)
			VALUES (2, 1, '2025-01-10', '2025-01-10 09:00 - 2025-01-10 11:00', 'Meeting', 'Standup', 1)`,
		`INSERT INTO bookings (user_id, venue_id, booking_date, time_range, purpose, event_name, is_approved)
			VALUES (2, 2, '2025-01-11', '2025-01-11 09:00 - 2025-01-11 10:00', 'Talk', 'Demo', -1)`,
		`INSERT INTO bookings (user_id, venue_id, booking_date, time_range, purpose, event_name, is_approved)
			VALUES (2, 1, '2025-01-12', '2025-01-12 09:00 - 2025-01-12 10:00', 'Sync', 'Weekly', 0)`,
		`INSERT INTO bookings (user_id, venue_id, booking_date, time_range, purpose, event_name)
			VALUES (2, 1, '2025-01-13', 'tomorrow morning', 'Bad', 'Range')`,
		`INSERT INTO bookings (user_id, venue_id, booking_date, time_range, purpose, event_name)
			VALUES (2, 99, '2025-01-14', '2025-01-14 09:00 - 2025-01-14 10:00', 'Orphan', 'Venue')`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	return path
}

func TestImportLegacyDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAdmin("admin", "new-admin-pw"))
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	path := writeLegacyDB(t)

	importer := legacy.NewImporter(st, assets.New(cfg.Paths.AssetsDir), logging.NewNop())
	report, err := importer.Import(ctx, path, legacy.Options{Location: time.UTC})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	if report.Users != 1 || report.ExistingUsers != 1 {
		t.Fatalf("unexpected user counts: %+v", report)
	}
	if report.Venues != 2 || report.Bookings != 3 || report.ExistingBookings != 0 {
		t.Fatalf("unexpected venue/booking counts: %+v", report)
	}
	// ghost (empty password), missing image, bad range, orphan venue.
	if len(report.Skipped) != 4 {
		t.Fatalf("expected 4 skipped entries, got %q", report.Skipped)
	}
	joined := strings.Join(report.Skipped, "\n")
	for _, want := range []string{"ghost", "missing.png", "tomorrow morning", "unknown venue 99"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected skip mentioning %q, got %q", want, report.Skipped)
		}
	}

	if _, err := st.Authenticate(ctx, "admin", "new-admin-pw"); err != nil {
		t.Fatalf("existing admin must keep its password: %v", err)
	}
	alice, err := st.Authenticate(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("imported user should authenticate with the old password: %v", err)
	}

	hall, err := st.FindVenueByName(ctx, "Main Hall")
	if err != nil {
		t.Fatalf("FindVenueByName: %v", err)
	}
	if filepath.Dir(hall.Image) != cfg.Paths.AssetsDir {
		t.Fatalf("expected image copied into assets, got %q", hall.Image)
	}
	annex, err := st.FindVenueByName(ctx, "Annex")
	if err != nil {
		t.Fatalf("FindVenueByName: %v", err)
	}
	if annex.Image != "images/missing.png" {
		t.Fatalf("expected missing image path kept, got %q", annex.Image)
	}

	bookings, err := st.ListBookingsForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListBookingsForUser: %v", err)
	}
	if len(bookings) != 3 {
		t.Fatalf("expected 3 bookings, got %+v", bookings)
	}
	wantStatus := []store.Status{store.StatusApproved, store.StatusDenied, store.StatusPending}
	for i, view := range bookings {
		if view.Status != wantStatus[i] {
			t.Fatalf("booking %d status = %s, want %s", i, view.Status, wantStatus[i])
		}
	}
	first := bookings[0]
	wantStart := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	if !first.Range.Start.Equal(wantStart) || first.Range.Duration() != 2*time.Hour {
		t.Fatalf("unexpected imported range %v", first.Range)
	}
}

func TestImportTwiceAddsNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAdmin("admin", "new-admin-pw"))
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	path := writeLegacyDB(t)
	importer := legacy.NewImporter(st, assets.New(cfg.Paths.AssetsDir), logging.NewNop())

	if _, err := importer.Import(ctx, path, legacy.Options{Location: time.UTC}); err != nil {
		t.Fatalf("first Import: %v", err)
	}
	before, err := st.ListBookings(ctx)
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}

	report, err := importer.Import(ctx, path, legacy.Options{Location: time.UTC})
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if report.Users != 0 || report.Venues != 0 || report.Bookings != 0 {
		t.Fatalf("second import should add nothing: %+v", report)
	}
	if report.ExistingUsers != 2 || report.ExistingVenues != 2 || report.ExistingBookings != 3 {
		t.Fatalf("unexpected existing counts: %+v", report)
	}

	after, err := st.ListBookings(ctx)
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if len(after) != len(before) || len(after) != 3 {
		t.Fatalf("booking count changed: before %d, after %d", len(before), len(after))
	}
	for i := range after {
		if after[i].ID != before[i].ID || after[i].Status != before[i].Status {
			t.Fatalf("booking %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestImportFailureLeavesNothingBehind(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	path := writeLegacyDB(t)

	// Reject the last convertible booking so the failure happens after users,
	// venues and earlier bookings were already written.
	db, err := sql.Open("sqlite", cfg.DatabasePath())
	if err != nil {
		t.Fatalf("open store db: %v", err)
	}
	if _, err := db.Exec(`CREATE TRIGGER reject_weekly BEFORE INSERT ON bookings
		WHEN NEW.event_name = 'Weekly' BEGIN SELECT RAISE(ABORT, 'rejected'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}
	_ = db.Close()

	importer := legacy.NewImporter(st, assets.New(cfg.Paths.AssetsDir), logging.NewNop())
	report, err := importer.Import(ctx, path, legacy.Options{Location: time.UTC})
	if err == nil {
		t.Fatal("expected import to fail")
	}
	if !errors.Is(err, store.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if report.Users != 0 || report.Bookings != 0 || len(report.Skipped) != 0 {
		t.Fatalf("failed import should report nothing: %+v", report)
	}

	if _, err := st.FindUserByName(ctx, "alice"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected alice rolled back, got %v", err)
	}
	venues, err := st.ListVenues(ctx)
	if err != nil {
		t.Fatalf("ListVenues: %v", err)
	}
	if len(venues) != 0 {
		t.Fatalf("expected no venues, got %+v", venues)
	}
	bookings, err := st.ListBookings(ctx)
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if len(bookings) != 0 {
		t.Fatalf("expected no bookings, got %+v", bookings)
	}
	entries, err := os.ReadDir(cfg.Paths.AssetsDir)
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("read assets dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("copied images should be removed, found %d", len(entries))
	}
}

func TestImportMissingFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	importer := legacy.NewImporter(st, nil, logging.NewNop())

	missing := filepath.Join(t.TempDir(), "db", "venue_booking.db")
	if _, err := importer.Import(context.Background(), missing, legacy.Options{}); err == nil {
		t.Fatal("expected error for missing legacy database")
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Fatalf("import must not create the legacy file, stat err = %v", err)
	}
}
