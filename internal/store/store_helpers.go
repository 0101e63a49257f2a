package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"venuebook/internal/timerange"
)

// timeResolution is the precision of persisted timestamps.
const timeResolution = time.Second

type rowScanner interface {
	Scan(dest ...any) error
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// execFunc runs a write statement, either through the pool with busy retry
// or on an open transaction.
type execFunc func(ctx context.Context, query string, args ...any) (sql.Result, error)

const userColumns = "user_id, username, is_admin, created_at"

const venueColumns = "venue_id, venue_name, location, capacity, image, created_at"

const bookingViewColumns = `b.booking_id, b.user_id, b.venue_id, b.booking_date, b.starts_at, b.ends_at,
	b.purpose, b.event_name, b.status, b.created_at, b.updated_at,
	v.venue_name, v.image, COALESCE(u.username, '')`

const bookingViewFrom = `FROM bookings b
	INNER JOIN venues v ON v.venue_id = b.venue_id
	LEFT JOIN users u ON u.user_id = b.user_id`

func scanUser(scanner rowScanner) (*User, error) {
	var (
		user       User
		isAdmin    int
		createdRaw sql.NullString
	)
	if err := scanner.Scan(&user.ID, &user.Username, &isAdmin, &createdRaw); err != nil {
		return nil, err
	}
	user.IsAdmin = isAdmin != 0
	user.CreatedAt = parseTimestamp(createdRaw)
	return &user, nil
}

func scanVenue(scanner rowScanner) (*Venue, error) {
	var (
		venue      Venue
		location   sql.NullString
		image      sql.NullString
		createdRaw sql.NullString
	)
	if err := scanner.Scan(&venue.ID, &venue.Name, &location, &venue.Capacity, &image, &createdRaw); err != nil {
		return nil, err
	}
	venue.Location = location.String
	venue.Image = image.String
	venue.CreatedAt = parseTimestamp(createdRaw)
	return &venue, nil
}

func scanBookingView(scanner rowScanner) (*BookingView, error) {
	var (
		view       BookingView
		startsRaw  string
		endsRaw    string
		status     int
		createdRaw sql.NullString
		updatedRaw sql.NullString
		venueImage sql.NullString
	)
	if err := scanner.Scan(
		&view.ID,
		&view.UserID,
		&view.VenueID,
		&view.Date,
		&startsRaw,
		&endsRaw,
		&view.Purpose,
		&view.EventName,
		&status,
		&createdRaw,
		&updatedRaw,
		&view.VenueName,
		&venueImage,
		&view.Username,
	); err != nil {
		return nil, err
	}
	start, err := timerange.ParseStorage(startsRaw)
	if err != nil {
		return nil, fmt.Errorf("booking %d starts_at: %w", view.ID, err)
	}
	end, err := timerange.ParseStorage(endsRaw)
	if err != nil {
		return nil, fmt.Errorf("booking %d ends_at: %w", view.ID, err)
	}
	view.Range = timerange.Range{Start: start, End: end}
	view.Status = Status(status)
	view.VenueImage = venueImage.String
	view.CreatedAt = parseTimestamp(createdRaw)
	view.UpdatedAt = parseTimestamp(updatedRaw)
	return &view, nil
}

func collectBookingViews(rows *sql.Rows) ([]BookingView, error) {
	defer rows.Close()
	var views []BookingView
	for rows.Next() {
		view, err := scanBookingView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, rows.Err()
}

func parseTimestamp(raw sql.NullString) time.Time {
	if !raw.Valid {
		return time.Time{}
	}
	t, err := timerange.ParseStorage(raw.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (s *Store) timestamp() string {
	return timerange.FormatStorage(s.now())
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func makePlaceholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func statusArgs(statuses []Status) []any {
	args := make([]any, len(statuses))
	for i, status := range statuses {
		args[i] = int(status)
	}
	return args
}
