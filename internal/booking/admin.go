package booking

import (
	"context"
	"fmt"
	"strings"

	"venuebook/internal/logging"
	"venuebook/internal/store"
)

// AddVenue creates a venue. A non-empty imageSource is copied into the image
// library first and removed again when the insert fails.
func (s *Service) AddVenue(ctx context.Context, actor *store.User, name, imageSource string, capacity int) (*store.Venue, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("venue name is required: %w", store.ErrInvalidInput)
	}

	var imagePath string
	if imageSource = strings.TrimSpace(imageSource); imageSource != "" {
		if s.images == nil {
			return nil, fmt.Errorf("image library not configured: %w", store.ErrInvalidInput)
		}
		stored, err := s.images.Import(name, imageSource)
		if err != nil {
			return nil, fmt.Errorf("import venue image: %w", err)
		}
		imagePath = stored
	}

	venue, err := s.store.AddVenue(ctx, name, imagePath, capacity)
	if err != nil {
		if imagePath != "" {
			if _, removeErr := s.images.Remove(imagePath); removeErr != nil {
				logging.WarnEvent(s.logger, "orphaned venue image", "image_cleanup_failed",
					logging.String("path", imagePath), logging.Error(removeErr))
			}
		}
		return nil, err
	}
	s.logger.Info("venue added", logging.Args(
		logging.VenueID(venue.ID),
		logging.String("name", venue.Name),
		logging.Int("capacity", venue.Capacity),
	)...)
	return venue, nil
}

// DeleteVenue removes the venue image, then the venue and its bookings.
// It returns the number of bookings removed.
func (s *Service) DeleteVenue(ctx context.Context, actor *store.User, venueID int64) (int64, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}
	venue, err := s.store.GetVenue(ctx, venueID)
	if err != nil {
		return 0, err
	}
	if venue.Image != "" && s.images != nil {
		if _, err := s.images.Remove(venue.Image); err != nil {
			return 0, fmt.Errorf("delete venue %d: %w", venueID, err)
		}
	}
	removed, err := s.store.DeleteVenue(ctx, venueID)
	if err != nil {
		return 0, err
	}
	s.logger.Info("venue deleted", logging.Args(
		logging.VenueID(venueID),
		logging.String("name", venue.Name),
		logging.Int64("bookings_removed", removed),
	)...)
	return removed, nil
}

// Venues lists every venue. Any logged-in user may browse them.
func (s *Service) Venues(ctx context.Context, actor *store.User) ([]store.Venue, error) {
	if actor == nil {
		return nil, ErrNotLoggedIn
	}
	return s.store.ListVenues(ctx)
}

// Venue returns one venue.
func (s *Service) Venue(ctx context.Context, actor *store.User, venueID int64) (*store.Venue, error) {
	if actor == nil {
		return nil, ErrNotLoggedIn
	}
	return s.store.GetVenue(ctx, venueID)
}

// Users lists accounts, optionally without administrators.
func (s *Service) Users(ctx context.Context, actor *store.User, excludeAdmins bool) ([]store.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx, excludeAdmins)
}

// DeleteUser removes a regular account with its bookings.
func (s *Service) DeleteUser(ctx context.Context, actor *store.User, userID int64) (int64, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}
	if userID == actor.ID {
		return 0, fmt.Errorf("cannot delete the current account: %w", ErrForbidden)
	}
	removed, err := s.store.DeleteUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.logger.Info("user deleted", logging.Args(
		logging.UserID(userID),
		logging.Int64("bookings_removed", removed),
	)...)
	return removed, nil
}

// VenueStats returns pending and approved counts per venue.
func (s *Service) VenueStats(ctx context.Context, actor *store.User) ([]store.VenueStat, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.store.VenueStats(ctx)
}

// UserStats returns booking totals for every regular user.
func (s *Service) UserStats(ctx context.Context, actor *store.User) ([]store.UserStat, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.store.UserStats(ctx, true)
}
