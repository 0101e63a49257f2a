package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"venuebook/internal/timerange"
)

// Status is the signed booking status code persisted in bookings.status.
type Status int

const (
	StatusCanceled Status = -2
	StatusDenied   Status = -1
	StatusPending  Status = 0
	StatusApproved Status = 1
)

var allStatuses = []Status{StatusPending, StatusApproved, StatusDenied, StatusCanceled}

// AllStatuses lists the status domain in display order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// Valid reports whether s belongs to the status domain.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDenied, StatusCanceled:
		return true
	}
	return false
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusDenied:
		return "denied"
	case StatusCanceled:
		return "canceled"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}

// ParseStatus accepts a status name ("approved") or its numeric code ("1").
func ParseStatus(value string) (Status, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, status := range allStatuses {
		if value == status.String() {
			return status, nil
		}
	}
	if value == "cancelled" {
		return StatusCanceled, nil
	}
	if n, err := strconv.Atoi(value); err == nil && Status(n).Valid() {
		return Status(n), nil
	}
	return 0, fmt.Errorf("%q: %w", value, ErrInvalidStatus)
}

// User is an account. The password hash never leaves the store.
type User struct {
	ID        int64
	Username  string
	IsAdmin   bool
	CreatedAt time.Time
}

// DefaultLocation is stored for venues created without a location.
const DefaultLocation = "Location not specified"

// Venue is a bookable space.
type Venue struct {
	ID        int64
	Name      string
	Location  string
	Capacity  int
	Image     string
	CreatedAt time.Time
}

// Booking is a reservation request for a venue.
type Booking struct {
	ID        int64
	UserID    int64
	VenueID   int64
	Date      string
	Range     timerange.Range
	Purpose   string
	EventName string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingView is a booking joined with the display fields of its venue and owner.
type BookingView struct {
	Booking
	VenueName  string
	VenueImage string
	Username   string
}

// NewBooking carries the fields supplied when requesting a booking.
type NewBooking struct {
	UserID    int64
	VenueID   int64
	Range     timerange.Range
	Purpose   string
	EventName string
}

// VenueStat summarizes bookings for one venue.
type VenueStat struct {
	Venue
	Pending  int
	Approved int
}

// UserStat summarizes bookings for one user.
type UserStat struct {
	User
	Total    int
	Pending  int
	Approved int
	Denied   int
	Canceled int
}

// DatabaseHealth captures diagnostic information about the database file.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	Migrations       []string
	MissingTables    []string
	MissingColumns   []string
	IntegrityCheck   bool
	Users            int
	Venues           int
	Bookings         int
	Error            string
}
