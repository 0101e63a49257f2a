package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"venuebook/internal/timerange"
)

// CreateBooking inserts a pending booking and returns it joined with its venue.
// Constraint failures, including unknown users or venues, surface as ErrStorage.
func (s *Store) CreateBooking(ctx context.Context, nb NewBooking) (*BookingView, error) {
	ctx = ensureContext(ctx)
	if err := validateBookingRange(nb.Range); err != nil {
		return nil, err
	}

	now := s.timestamp()
	res, err := s.execWithRetry(ctx,
		`INSERT INTO bookings (
			user_id, venue_id, booking_date, starts_at, ends_at, purpose, event_name, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nb.UserID,
		nb.VenueID,
		nb.Range.Date(),
		timerange.FormatStorage(nb.Range.Start),
		timerange.FormatStorage(nb.Range.End),
		nb.Purpose,
		nb.EventName,
		int(StatusPending),
		now,
		now,
	)
	if err != nil {
		return nil, storageError("create booking", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, storageError("create booking", err)
	}
	return s.GetBooking(ctx, id)
}

func validateBookingRange(r timerange.Range) error {
	if r.Start.IsZero() || r.End.IsZero() {
		return invalidInput("booking time range is required")
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, timerange.ErrEndBeforeStart)
	}
	return nil
}

// GetBooking fetches one booking with its venue and owner fields.
func (s *Store) GetBooking(ctx context.Context, id int64) (*BookingView, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT "+bookingViewColumns+" "+bookingViewFrom+" WHERE b.booking_id = ?", id)
	view, err := scanBookingView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("booking", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return view, nil
}

// ListBookings returns every booking in id order.
func (s *Store) ListBookings(ctx context.Context) ([]BookingView, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT "+bookingViewColumns+" "+bookingViewFrom+" ORDER BY b.booking_id")
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return collectBookingViews(rows)
}

// ListBookingsForUser returns the bookings owned by userID in id order.
func (s *Store) ListBookingsForUser(ctx context.Context, userID int64) ([]BookingView, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT "+bookingViewColumns+" "+bookingViewFrom+" WHERE b.user_id = ? ORDER BY b.booking_id", userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings for user: %w", err)
	}
	return collectBookingViews(rows)
}

// ListBookingsByStatus returns bookings in the given status in id order.
func (s *Store) ListBookingsByStatus(ctx context.Context, status Status) ([]BookingView, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("list bookings: %d: %w", int(status), ErrInvalidStatus)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT "+bookingViewColumns+" "+bookingViewFrom+" WHERE b.status = ? ORDER BY b.booking_id", int(status))
	if err != nil {
		return nil, fmt.Errorf("list bookings by status: %w", err)
	}
	return collectBookingViews(rows)
}

// SetBookingStatus overwrites the status of a booking regardless of its
// current value. Transition rules are enforced by callers.
func (s *Store) SetBookingStatus(ctx context.Context, id int64, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("booking %d: %d: %w", id, int(status), ErrInvalidStatus)
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE booking_id = ?`,
		int(status), s.timestamp(), id,
	)
	if err != nil {
		return storageError("set booking status", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageError("set booking status", err)
	}
	if affected == 0 {
		return notFound("booking", id)
	}
	return nil
}

// DeleteBooking hard-deletes a booking.
func (s *Store) DeleteBooking(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM bookings WHERE booking_id = ?`, id)
	if err != nil {
		return storageError("delete booking", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageError("delete booking", err)
	}
	if affected == 0 {
		return notFound("booking", id)
	}
	return nil
}

// FindOverlapping returns bookings for venueID whose window intersects r as a
// half-open interval and whose status is one of statuses. A non-zero
// excludeID skips that booking.
func (s *Store) FindOverlapping(ctx context.Context, venueID int64, r timerange.Range, statuses []Status, excludeID int64) ([]BookingView, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	for _, status := range statuses {
		if !status.Valid() {
			return nil, fmt.Errorf("find overlapping: %d: %w", int(status), ErrInvalidStatus)
		}
	}

	query := "SELECT " + bookingViewColumns + " " + bookingViewFrom + `
		WHERE b.venue_id = ?
		AND b.starts_at < ?
		AND b.ends_at > ?
		AND b.booking_id != ?
		AND b.status IN (` + makePlaceholders(len(statuses)) + `)
		ORDER BY b.booking_id`
	args := []any{venueID, timerange.FormatStorage(r.End), timerange.FormatStorage(r.Start), excludeID}
	args = append(args, statusArgs(statuses)...)

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("find overlapping bookings: %w", err)
	}
	return collectBookingViews(rows)
}
