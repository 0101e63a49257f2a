// Package legacy imports data from the original desktop application's
// venue_booking.db into the current schema.
//
// Plaintext passwords are hashed on the way in, time_range text is parsed
// into structured windows, and is_approved becomes the signed status code.
// Users and venues already present (matched by name) are reused, so the seed
// admin is never duplicated. Bookings match on owner, venue, window and event
// name, so a repeated import adds nothing. Rows that cannot be converted are
// reported, not fatal.
package legacy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"venuebook/internal/logging"
	"venuebook/internal/store"
	"venuebook/internal/timerange"
)

// Images copies legacy venue pictures into the managed library.
type Images interface {
	Import(venueName, source string) (string, error)
	Remove(path string) (bool, error)
}

// Options tunes an import.
type Options struct {
	// Location interprets legacy wall-clock times. Defaults to time.Local.
	Location *time.Location
	// BaseDir resolves relative image paths. Defaults to the directory above
	// the legacy db/ folder, matching the original working directory.
	BaseDir string
}

// Report summarizes an import.
type Report struct {
	Users            int
	ExistingUsers    int
	Venues           int
	ExistingVenues   int
	Bookings         int
	ExistingBookings int
	Skipped          []string
}

// Importer copies legacy rows into a store.
type Importer struct {
	store  *store.Store
	images Images
	logger *slog.Logger
}

// NewImporter returns an Importer. images may be nil to keep image paths as-is.
func NewImporter(st *store.Store, images Images, logger *slog.Logger) *Importer {
	return &Importer{store: st, images: images, logger: logging.NewComponentLogger(logger, "legacy")}
}

type legacyUser struct {
	id       int64
	name     string
	password string
	isAdmin  bool
}

type legacyVenue struct {
	id       int64
	name     string
	capacity int
	image    string
}

type legacyBooking struct {
	id        int64
	userID    sql.NullInt64
	venueID   sql.NullInt64
	timeRange string
	purpose   string
	eventName string
	status    int
}

// snapshot holds every legacy row, read before any write happens.
type snapshot struct {
	users    []legacyUser
	venues   []legacyVenue
	bookings []legacyBooking
}

// legacyState is rebuilt for every transaction attempt.
type legacyState struct {
	opts    Options
	report  *Report
	userIDs map[int64]int64
	venues  map[int64]int64
	copied  []string
}

// Import reads the legacy database at path and writes its rows in a single
// transaction: either everything convertible lands or nothing does. Running
// it again over the same file adds nothing.
func (im *Importer) Import(ctx context.Context, path string, opts Options) (Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Report{}, fmt.Errorf("legacy database: %w", err)
	}
	if info.IsDir() {
		return Report{}, fmt.Errorf("legacy database %q is a directory", path)
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(filepath.Dir(path))
	}

	snap, err := readSnapshot(ctx, path)
	if err != nil {
		return Report{}, err
	}

	var state *legacyState
	err = im.store.WithImportTx(ctx, func(ctx context.Context, itx *store.ImportTx) error {
		if state != nil {
			im.discardImages(state.copied)
		}
		state = &legacyState{
			opts:    opts,
			report:  &Report{},
			userIDs: make(map[int64]int64),
			venues:  make(map[int64]int64),
		}
		if err := im.importUsers(ctx, itx, snap.users, state); err != nil {
			return err
		}
		if err := im.importVenues(ctx, itx, snap.venues, state); err != nil {
			return err
		}
		return im.importBookings(ctx, itx, snap.bookings, state)
	})
	if err != nil {
		if state != nil {
			im.discardImages(state.copied)
		}
		return Report{}, err
	}

	report := *state.report
	im.logger.Info("legacy import finished", logging.Args(
		logging.String("path", path),
		logging.Int("users", report.Users),
		logging.Int("venues", report.Venues),
		logging.Int("bookings", report.Bookings),
		logging.Int("existing_bookings", report.ExistingBookings),
		logging.Int("skipped", len(report.Skipped)),
	)...)
	return report, nil
}

// discardImages removes library copies made by an attempt that did not commit.
func (im *Importer) discardImages(paths []string) {
	for _, path := range paths {
		if _, err := im.images.Remove(path); err != nil {
			im.logger.Warn("legacy image cleanup failed", logging.Args(
				logging.String("path", path),
				logging.Error(err),
			)...)
		}
	}
}

func (r *Report) skip(format string, args ...any) {
	r.Skipped = append(r.Skipped, fmt.Sprintf(format, args...))
}

func readSnapshot(ctx context.Context, path string) (*snapshot, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=query_only(1)")
	if err != nil {
		return nil, fmt.Errorf("open legacy database: %w", err)
	}
	defer db.Close()

	snap := &snapshot{}
	if snap.users, err = readUsers(ctx, db); err != nil {
		return nil, err
	}
	if snap.venues, err = readVenues(ctx, db); err != nil {
		return nil, err
	}
	if snap.bookings, err = readBookings(ctx, db); err != nil {
		return nil, err
	}
	return snap, nil
}

func readUsers(ctx context.Context, db *sql.DB) ([]legacyUser, error) {
	rows, err := db.QueryContext(ctx, `SELECT user_id, username, COALESCE(password, ''), COALESCE(is_admin, 0) FROM users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("read legacy users: %w", err)
	}
	defer rows.Close()

	var users []legacyUser
	for rows.Next() {
		var (
			u       legacyUser
			isAdmin int
		)
		if err := rows.Scan(&u.id, &u.name, &u.password, &isAdmin); err != nil {
			return nil, fmt.Errorf("scan legacy user: %w", err)
		}
		u.isAdmin = isAdmin != 0
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read legacy users: %w", err)
	}
	return users, nil
}

func readVenues(ctx context.Context, db *sql.DB) ([]legacyVenue, error) {
	rows, err := db.QueryContext(ctx, `SELECT venue_id, venue_name, COALESCE(capacity, 0), COALESCE(image, '') FROM venues ORDER BY venue_id`)
	if err != nil {
		return nil, fmt.Errorf("read legacy venues: %w", err)
	}
	defer rows.Close()

	var venues []legacyVenue
	for rows.Next() {
		var v legacyVenue
		if err := rows.Scan(&v.id, &v.name, &v.capacity, &v.image); err != nil {
			return nil, fmt.Errorf("scan legacy venue: %w", err)
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read legacy venues: %w", err)
	}
	return venues, nil
}

func readBookings(ctx context.Context, db *sql.DB) ([]legacyBooking, error) {
	rows, err := db.QueryContext(ctx, `SELECT booking_id, user_id, venue_id, COALESCE(time_range, ''),
		COALESCE(purpose, ''), COALESCE(event_name, ''), COALESCE(is_approved, 0)
		FROM bookings ORDER BY booking_id`)
	if err != nil {
		return nil, fmt.Errorf("read legacy bookings: %w", err)
	}
	defer rows.Close()

	var bookings []legacyBooking
	for rows.Next() {
		var b legacyBooking
		if err := rows.Scan(&b.id, &b.userID, &b.venueID, &b.timeRange, &b.purpose, &b.eventName, &b.status); err != nil {
			return nil, fmt.Errorf("scan legacy booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read legacy bookings: %w", err)
	}
	return bookings, nil
}

func (im *Importer) importUsers(ctx context.Context, itx *store.ImportTx, users []legacyUser, state *legacyState) error {
	for _, u := range users {
		existing, err := itx.FindUserByName(ctx, u.name)
		switch {
		case err == nil:
			state.userIDs[u.id] = existing.ID
			state.report.ExistingUsers++
			continue
		case !errors.Is(err, store.ErrNotFound):
			return err
		}
		created, err := itx.CreateUser(ctx, u.name, u.password, u.isAdmin)
		if errors.Is(err, store.ErrInvalidInput) {
			state.report.skip("user %d (%q): %v", u.id, u.name, err)
			continue
		}
		if err != nil {
			return err
		}
		state.userIDs[u.id] = created.ID
		state.report.Users++
	}
	return nil
}

func (im *Importer) importVenues(ctx context.Context, itx *store.ImportTx, venues []legacyVenue, state *legacyState) error {
	for _, v := range venues {
		existing, err := itx.FindVenueByName(ctx, v.name)
		switch {
		case err == nil:
			state.venues[v.id] = existing.ID
			state.report.ExistingVenues++
			continue
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		created, err := itx.AddVenue(ctx, v.name, im.resolveImage(v.name, v.image, state), v.capacity)
		if errors.Is(err, store.ErrInvalidInput) {
			state.report.skip("venue %d (%q): %v", v.id, v.name, err)
			continue
		}
		if err != nil {
			return err
		}
		state.venues[v.id] = created.ID
		state.report.Venues++
	}
	return nil
}

// resolveImage copies a legacy image into the library when it can be found and
// falls back to the original path otherwise.
func (im *Importer) resolveImage(venueName, image string, state *legacyState) string {
	if image == "" || im.images == nil {
		return image
	}
	source := image
	if !filepath.IsAbs(source) {
		source = filepath.Join(state.opts.BaseDir, source)
	}
	if _, err := os.Stat(source); err != nil {
		state.report.skip("image for venue %q: %v (path kept)", venueName, err)
		return image
	}
	stored, err := im.images.Import(venueName, source)
	if err != nil {
		state.report.skip("image for venue %q: %v (path kept)", venueName, err)
		return image
	}
	state.copied = append(state.copied, stored)
	return stored
}

func (im *Importer) importBookings(ctx context.Context, itx *store.ImportTx, bookings []legacyBooking, state *legacyState) error {
	for _, b := range bookings {
		userID, okUser := state.userIDs[b.userID.Int64]
		venueID, okVenue := state.venues[b.venueID.Int64]
		if !b.userID.Valid || !okUser {
			state.report.skip("booking %d: unknown user %d", b.id, b.userID.Int64)
			continue
		}
		if !b.venueID.Valid || !okVenue {
			state.report.skip("booking %d: unknown venue %d", b.id, b.venueID.Int64)
			continue
		}
		status := store.Status(b.status)
		if !status.Valid() {
			state.report.skip("booking %d: status %d", b.id, b.status)
			continue
		}
		r, err := timerange.ParseLegacy(b.timeRange, state.opts.Location)
		if err != nil {
			state.report.skip("booking %d: %v", b.id, err)
			continue
		}

		_, created, err := itx.ImportBooking(ctx, store.NewBooking{
			UserID:    userID,
			VenueID:   venueID,
			Range:     r,
			Purpose:   b.purpose,
			EventName: b.eventName,
		}, status)
		if err != nil {
			return fmt.Errorf("import booking %d: %w", b.id, err)
		}
		if created {
			state.report.Bookings++
		} else {
			state.report.ExistingBookings++
		}
	}
	return nil
}
