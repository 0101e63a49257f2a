package store

import (
	"context"
	"fmt"
)

// CountBookings counts bookings for a venue in the given status.
func (s *Store) CountBookings(ctx context.Context, venueID int64, status Status) (int, error) {
	return s.count(ctx, "SELECT COUNT(1) FROM bookings WHERE venue_id = ? AND status = ?", venueID, int(status))
}

// CountBookingsForUser counts every booking owned by userID.
func (s *Store) CountBookingsForUser(ctx context.Context, userID int64) (int, error) {
	return s.count(ctx, "SELECT COUNT(1) FROM bookings WHERE user_id = ?", userID)
}

// CountBookingsForUserByStatus counts bookings owned by userID in status.
func (s *Store) CountBookingsForUserByStatus(ctx context.Context, userID int64, status Status) (int, error) {
	return s.count(ctx, "SELECT COUNT(1) FROM bookings WHERE user_id = ? AND status = ?", userID, int(status))
}

func (s *Store) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ensureContext(ctx), query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

// Stats returns a count of bookings grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status, count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[Status(status)] = count
	}
	return stats, rows.Err()
}

// VenueStats returns pending and approved counts for every venue.
func (s *Store) VenueStats(ctx context.Context) ([]VenueStat, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `
		SELECT v.venue_id, v.venue_name, v.location, v.capacity, v.image, v.created_at,
			COALESCE(SUM(CASE WHEN b.status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN b.status = ? THEN 1 ELSE 0 END), 0)
		FROM venues v
		LEFT JOIN bookings b ON b.venue_id = v.venue_id
		GROUP BY v.venue_id
		ORDER BY v.venue_id`,
		int(StatusPending), int(StatusApproved),
	)
	if err != nil {
		return nil, fmt.Errorf("venue stats: %w", err)
	}
	defer rows.Close()

	var stats []VenueStat
	for rows.Next() {
		var stat VenueStat
		venue, err := scanVenue(scanFunc(func(dest ...any) error {
			return rows.Scan(append(dest, &stat.Pending, &stat.Approved)...)
		}))
		if err != nil {
			return nil, err
		}
		stat.Venue = *venue
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

// UserStats returns per-status booking totals for every user.
func (s *Store) UserStats(ctx context.Context, excludeAdmins bool) ([]UserStat, error) {
	query := `
		SELECT u.user_id, u.username, u.is_admin, u.created_at,
			COUNT(b.booking_id),
			COALESCE(SUM(CASE WHEN b.status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN b.status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN b.status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN b.status = ? THEN 1 ELSE 0 END), 0)
		FROM users u
		LEFT JOIN bookings b ON b.user_id = u.user_id`
	if excludeAdmins {
		query += " WHERE u.is_admin = 0"
	}
	query += " GROUP BY u.user_id ORDER BY u.user_id"

	rows, err := s.db.QueryContext(ensureContext(ctx), query,
		int(StatusPending), int(StatusApproved), int(StatusDenied), int(StatusCanceled))
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	defer rows.Close()

	var stats []UserStat
	for rows.Next() {
		var stat UserStat
		user, err := scanUser(scanFunc(func(dest ...any) error {
			return rows.Scan(append(dest, &stat.Total, &stat.Pending, &stat.Approved, &stat.Denied, &stat.Canceled)...)
		}))
		if err != nil {
			return nil, err
		}
		stat.User = *user
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

// scanFunc adapts a closure to rowScanner so aggregate queries can reuse the
// entity scanners for their leading columns.
type scanFunc func(dest ...any) error

func (f scanFunc) Scan(dest ...any) error { return f(dest...) }
