package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"venuebook/internal/config"
	"venuebook/internal/logging"
	"venuebook/internal/store"
	"venuebook/internal/timerange"
)

// Store is the persistence surface the service needs.
type Store interface {
	Register(ctx context.Context, username, password string) (*store.User, error)
	Authenticate(ctx context.Context, username, password string) (*store.User, error)
	GetUser(ctx context.Context, id int64) (*store.User, error)
	ListUsers(ctx context.Context, excludeAdmins bool) ([]store.User, error)
	DeleteUser(ctx context.Context, id int64) (int64, error)
	AddVenue(ctx context.Context, name, imagePath string, capacity int) (*store.Venue, error)
	ListVenues(ctx context.Context) ([]store.Venue, error)
	GetVenue(ctx context.Context, id int64) (*store.Venue, error)
	DeleteVenue(ctx context.Context, id int64) (int64, error)
	CreateBooking(ctx context.Context, nb store.NewBooking) (*store.BookingView, error)
	GetBooking(ctx context.Context, id int64) (*store.BookingView, error)
	ListBookings(ctx context.Context) ([]store.BookingView, error)
	ListBookingsForUser(ctx context.Context, userID int64) ([]store.BookingView, error)
	ListBookingsByStatus(ctx context.Context, status store.Status) ([]store.BookingView, error)
	SetBookingStatus(ctx context.Context, id int64, status store.Status) error
	DeleteBooking(ctx context.Context, id int64) error
	FindOverlapping(ctx context.Context, venueID int64, r timerange.Range, statuses []store.Status, excludeID int64) ([]store.BookingView, error)
	CountBookingsForUser(ctx context.Context, userID int64) (int, error)
	CountBookingsForUserByStatus(ctx context.Context, userID int64, status store.Status) (int, error)
	VenueStats(ctx context.Context) ([]store.VenueStat, error)
	UserStats(ctx context.Context, excludeAdmins bool) ([]store.UserStat, error)
}

// Images stores and removes venue pictures.
type Images interface {
	Import(venueName, source string) (string, error)
	Remove(path string) (bool, error)
}

// Policy selects the configurable lifecycle behavior.
type Policy struct {
	RejectOverlaps     bool
	CancelKeepsHistory bool
}

// PolicyFromConfig reads the booking section of cfg.
func PolicyFromConfig(cfg *config.Config) Policy {
	if cfg == nil {
		return Policy{}
	}
	return Policy{
		RejectOverlaps:     cfg.RejectsOverlaps(),
		CancelKeepsHistory: cfg.CancelKeepsHistory(),
	}
}

// Service coordinates booking workflows for one store.
type Service struct {
	store  Store
	images Images
	policy Policy
	logger *slog.Logger
}

// NewService wires a Service. images may be nil when venue pictures are not
// managed.
func NewService(st Store, images Images, policy Policy, logger *slog.Logger) *Service {
	return &Service{
		store:  st,
		images: images,
		policy: policy,
		logger: logging.NewComponentLogger(logger, "booking"),
	}
}

// Policy returns the active lifecycle policy.
func (s *Service) Policy() Policy {
	return s.policy
}

// Request describes a booking request from a user.
type Request struct {
	VenueID   int64
	Range     timerange.Range
	Purpose   string
	EventName string
}

// Summary totals one user's bookings by status.
type Summary struct {
	Total    int
	Pending  int
	Approved int
	Denied   int
	Canceled int
}

var activeStatuses = []store.Status{store.StatusPending, store.StatusApproved}

// Register creates a regular account.
func (s *Service) Register(ctx context.Context, username, password string) (*store.User, error) {
	user, err := s.store.Register(ctx, username, password)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", logging.Args(logging.UserID(user.ID), logging.String("username", user.Username))...)
	return user, nil
}

// Login authenticates a username and password.
func (s *Service) Login(ctx context.Context, username, password string) (*store.User, error) {
	user, err := s.store.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			logging.WarnEvent(s.logger, "login rejected", "auth_failed", logging.String("username", username))
		}
		return nil, err
	}
	s.logger.Info("user logged in", logging.Args(logging.UserID(user.ID), logging.Bool("admin", user.IsAdmin))...)
	return user, nil
}

// Book requests a venue for the actor. The booking starts pending.
func (s *Service) Book(ctx context.Context, actor *store.User, req Request) (*store.BookingView, error) {
	if actor == nil {
		return nil, ErrNotLoggedIn
	}
	purpose := strings.TrimSpace(req.Purpose)
	eventName := strings.TrimSpace(req.EventName)
	if purpose == "" || eventName == "" {
		return nil, fmt.Errorf("purpose and event name are required: %w", store.ErrInvalidInput)
	}
	if req.Range.Start.IsZero() || req.Range.End.IsZero() {
		return nil, fmt.Errorf("start and end are required: %w", store.ErrInvalidInput)
	}
	if req.Range.End.Before(req.Range.Start) {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidInput, timerange.ErrEndBeforeStart)
	}
	if _, err := s.store.GetVenue(ctx, req.VenueID); err != nil {
		return nil, err
	}

	if s.policy.RejectOverlaps {
		if err := s.checkOverlap(ctx, req.VenueID, req.Range, activeStatuses, 0); err != nil {
			return nil, err
		}
	}

	view, err := s.store.CreateBooking(ctx, store.NewBooking{
		UserID:    actor.ID,
		VenueID:   req.VenueID,
		Range:     req.Range,
		Purpose:   purpose,
		EventName: eventName,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("booking requested", logging.Args(
		logging.BookingID(view.ID),
		logging.UserID(actor.ID),
		logging.VenueID(view.VenueID),
		logging.String("window", view.Range.String()),
	)...)
	return view, nil
}

// Approve moves a pending booking to approved.
func (s *Service) Approve(ctx context.Context, actor *store.User, bookingID int64) (*store.BookingView, error) {
	return s.decide(ctx, actor, bookingID, ActionApprove)
}

// Deny moves a pending booking to denied.
func (s *Service) Deny(ctx context.Context, actor *store.User, bookingID int64) (*store.BookingView, error) {
	return s.decide(ctx, actor, bookingID, ActionDeny)
}

func (s *Service) decide(ctx context.Context, actor *store.User, bookingID int64, action Action) (*store.BookingView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	view, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	next, err := Next(view.Status, action)
	if err != nil {
		return nil, err
	}
	if action == ActionApprove && s.policy.RejectOverlaps {
		if err := s.checkOverlap(ctx, view.VenueID, view.Range, []store.Status{store.StatusApproved}, view.ID); err != nil {
			return nil, err
		}
	}
	if err := s.store.SetBookingStatus(ctx, view.ID, next); err != nil {
		return nil, err
	}
	view.Status = next
	s.logger.Info("booking "+next.String(), logging.Args(
		logging.BookingID(view.ID),
		logging.UserID(actor.ID),
		logging.String("status", next.String()),
	)...)
	return view, nil
}

// Cancel withdraws the actor's own pending booking. Depending on the cancel
// mode the row is deleted or kept as canceled. The returned view carries the
// final status.
func (s *Service) Cancel(ctx context.Context, actor *store.User, bookingID int64) (*store.BookingView, error) {
	if actor == nil {
		return nil, ErrNotLoggedIn
	}
	view, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if view.UserID != actor.ID {
		return nil, fmt.Errorf("booking %d belongs to another user: %w", bookingID, ErrForbidden)
	}
	next, err := Next(view.Status, ActionCancel)
	if err != nil {
		return nil, err
	}

	if s.policy.CancelKeepsHistory {
		if err := s.store.SetBookingStatus(ctx, view.ID, next); err != nil {
			return nil, err
		}
		view.Status = next
	} else if err := s.store.DeleteBooking(ctx, view.ID); err != nil {
		return nil, err
	}
	s.logger.Info("booking canceled", logging.Args(
		logging.BookingID(view.ID),
		logging.UserID(actor.ID),
		logging.Bool("kept", s.policy.CancelKeepsHistory),
	)...)
	return view, nil
}

// DeleteBooking removes a booking in any state.
func (s *Service) DeleteBooking(ctx context.Context, actor *store.User, bookingID int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.store.DeleteBooking(ctx, bookingID); err != nil {
		return err
	}
	s.logger.Info("booking deleted", logging.Args(logging.BookingID(bookingID), logging.UserID(actor.ID))...)
	return nil
}

// Booking returns one booking visible to the actor: its owner or an admin.
func (s *Service) Booking(ctx context.Context, actor *store.User, bookingID int64) (*store.BookingView, error) {
	if actor == nil {
		return nil, ErrNotLoggedIn
	}
	view, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && view.UserID != actor.ID {
		return nil, fmt.Errorf("booking %d belongs to another user: %w", bookingID, ErrForbidden)
	}
	return view, nil
}

// MyBookings lists the actor's own bookings.
func (s *Service) MyBookings(ctx context.Context, actor *store.User) ([]store.BookingView, error) {
	if actor == nil {
		return nil, ErrNotLoggedIn
	}
	return s.store.ListBookingsForUser(ctx, actor.ID)
}

// Bookings lists every booking, or only those in status when it is non-nil.
func (s *Service) Bookings(ctx context.Context, actor *store.User, status *store.Status) ([]store.BookingView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if status != nil {
		return s.store.ListBookingsByStatus(ctx, *status)
	}
	return s.store.ListBookings(ctx)
}

// UserSummary totals the actor's bookings by status.
func (s *Service) UserSummary(ctx context.Context, actor *store.User) (Summary, error) {
	if actor == nil {
		return Summary{}, ErrNotLoggedIn
	}
	var (
		summary Summary
		err     error
	)
	if summary.Total, err = s.store.CountBookingsForUser(ctx, actor.ID); err != nil {
		return Summary{}, err
	}
	targets := []struct {
		status store.Status
		dest   *int
	}{
		{store.StatusPending, &summary.Pending},
		{store.StatusApproved, &summary.Approved},
		{store.StatusDenied, &summary.Denied},
		{store.StatusCanceled, &summary.Canceled},
	}
	for _, target := range targets {
		if *target.dest, err = s.store.CountBookingsForUserByStatus(ctx, actor.ID, target.status); err != nil {
			return Summary{}, err
		}
	}
	return summary, nil
}

func (s *Service) checkOverlap(ctx context.Context, venueID int64, r timerange.Range, statuses []store.Status, excludeID int64) error {
	conflicts, err := s.store.FindOverlapping(ctx, venueID, r, statuses, excludeID)
	if err != nil {
		return err
	}
	if len(conflicts) == 0 {
		return nil
	}
	first := conflicts[0]
	logging.WarnEvent(s.logger, "overlapping booking rejected", "booking_overlap",
		logging.VenueID(venueID),
		logging.BookingID(first.ID),
		logging.Int("conflicts", len(conflicts)),
	)
	return fmt.Errorf("%s conflicts with booking %d (%s, %s): %w",
		r.String(), first.ID, first.Range.String(), first.Status, ErrOverlap)
}

func requireAdmin(actor *store.User) error {
	if actor == nil {
		return ErrNotLoggedIn
	}
	if !actor.IsAdmin {
		return fmt.Errorf("administrator required: %w", ErrForbidden)
	}
	return nil
}
