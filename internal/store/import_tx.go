package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"venuebook/internal/timerange"
)

// ImportTx exposes the lookups and inserts a bulk import needs, bound to a
// single transaction.
type ImportTx struct {
	s  *Store
	tx *sql.Tx
}

// WithImportTx runs fn in one transaction. Nothing fn writes is visible unless
// it returns nil. fn runs again from the start when SQLite reports the
// database busy, so it must not carry state between attempts.
func (s *Store) WithImportTx(ctx context.Context, fn func(ctx context.Context, itx *ImportTx) error) error {
	ctx = ensureContext(ctx)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return fn(ctx, &ImportTx{s: s, tx: tx})
	})
}

// FindUserByName fetches a user by exact username.
func (it *ImportTx) FindUserByName(ctx context.Context, username string) (*User, error) {
	return findUserByName(ctx, it.tx, username)
}

// CreateUser creates an account with the given admin flag.
func (it *ImportTx) CreateUser(ctx context.Context, username, password string, isAdmin bool) (*User, error) {
	return it.s.createUser(ctx, it.tx.ExecContext, username, password, isAdmin)
}

// FindVenueByName fetches a venue by exact name.
func (it *ImportTx) FindVenueByName(ctx context.Context, name string) (*Venue, error) {
	return findVenueByName(ctx, it.tx, name)
}

// AddVenue creates a venue with the default location placeholder.
func (it *ImportTx) AddVenue(ctx context.Context, name, imagePath string, capacity int) (*Venue, error) {
	return it.s.addVenue(ctx, it.tx.ExecContext, name, imagePath, capacity)
}

// ImportBooking inserts a booking with its final status. A booking with the
// same owner, venue, window and event name is treated as already imported:
// its id is returned with created false and nothing is written.
func (it *ImportTx) ImportBooking(ctx context.Context, nb NewBooking, status Status) (int64, bool, error) {
	if err := validateBookingRange(nb.Range); err != nil {
		return 0, false, err
	}
	if !status.Valid() {
		return 0, false, fmt.Errorf("status %d: %w", int(status), ErrInvalidStatus)
	}

	startsAt := timerange.FormatStorage(nb.Range.Start)
	endsAt := timerange.FormatStorage(nb.Range.End)

	var id int64
	err := it.tx.QueryRowContext(ctx,
		`SELECT booking_id FROM bookings
		WHERE user_id = ? AND venue_id = ? AND starts_at = ? AND ends_at = ? AND event_name = ?
		ORDER BY booking_id LIMIT 1`,
		nb.UserID, nb.VenueID, startsAt, endsAt, nb.EventName,
	).Scan(&id)
	switch {
	case err == nil:
		return id, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, false, fmt.Errorf("find imported booking: %w", err)
	}

	now := it.s.timestamp()
	res, err := it.tx.ExecContext(ctx,
		`INSERT INTO bookings (
			user_id, venue_id, booking_date, starts_at, ends_at, purpose, event_name, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nb.UserID,
		nb.VenueID,
		nb.Range.Date(),
		startsAt,
		endsAt,
		nb.Purpose,
		nb.EventName,
		int(status),
		now,
		now,
	)
	if err != nil {
		return 0, false, storageError("import booking", err)
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, false, storageError("import booking", err)
	}
	return id, true, nil
}
