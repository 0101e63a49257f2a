package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// AddVenue creates a venue with the default location placeholder. Capacity is
// stored as given.
func (s *Store) AddVenue(ctx context.Context, name, imagePath string, capacity int) (*Venue, error) {
	return s.addVenue(ensureContext(ctx), s.execWithRetry, name, imagePath, capacity)
}

func (s *Store) addVenue(ctx context.Context, exec execFunc, name, imagePath string, capacity int) (*Venue, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalidInput("venue name is required")
	}

	created := s.now()
	res, err := exec(ctx,
		`INSERT INTO venues (venue_name, location, capacity, image, created_at) VALUES (?, ?, ?, ?, ?)`,
		name, DefaultLocation, capacity, imagePath, s.timestamp(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("add venue %q: %w", name, ErrDuplicateVenueName)
		}
		return nil, storageError("add venue", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, storageError("add venue", err)
	}
	return &Venue{
		ID:        id,
		Name:      name,
		Location:  DefaultLocation,
		Capacity:  capacity,
		Image:     imagePath,
		CreatedAt: created.UTC().Truncate(timeResolution),
	}, nil
}

// ListVenues returns every venue in insertion order.
func (s *Store) ListVenues(ctx context.Context) ([]Venue, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), "SELECT "+venueColumns+" FROM venues ORDER BY venue_id")
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	var venues []Venue
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, *venue)
	}
	return venues, rows.Err()
}

// GetVenue fetches a venue by id.
func (s *Store) GetVenue(ctx context.Context, id int64) (*Venue, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), "SELECT "+venueColumns+" FROM venues WHERE venue_id = ?", id)
	venue, err := scanVenue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("venue", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}
	return venue, nil
}

// FindVenueByName fetches a venue by exact name.
func (s *Store) FindVenueByName(ctx context.Context, name string) (*Venue, error) {
	return findVenueByName(ensureContext(ctx), s.db, name)
}

func findVenueByName(ctx context.Context, q queryer, name string) (*Venue, error) {
	row := q.QueryRowContext(ctx, "SELECT "+venueColumns+" FROM venues WHERE venue_name = ?", name)
	venue, err := scanVenue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("venue %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find venue: %w", err)
	}
	return venue, nil
}

// DeleteVenue removes the venue and every booking referencing it atomically.
// It returns the number of bookings removed.
func (s *Store) DeleteVenue(ctx context.Context, id int64) (int64, error) {
	ctx = ensureContext(ctx)
	var removed int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM bookings WHERE venue_id = ?", id)
		if err != nil {
			return storageError("delete venue bookings", err)
		}
		if removed, err = res.RowsAffected(); err != nil {
			return storageError("delete venue bookings", err)
		}

		res, err = tx.ExecContext(ctx, "DELETE FROM venues WHERE venue_id = ?", id)
		if err != nil {
			return storageError("delete venue", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return storageError("delete venue", err)
		}
		if affected == 0 {
			return notFound("venue", id)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
