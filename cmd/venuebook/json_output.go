package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"venuebook/internal/store"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type userJSON struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

type venueJSON struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Capacity  int       `json:"capacity"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

type bookingJSON struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	VenueID    int64     `json:"venue_id"`
	VenueName  string    `json:"venue_name"`
	VenueImage string    `json:"venue_image,omitempty"`
	Date       string    `json:"booking_date"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	TimeRange  string    `json:"time_range"`
	Purpose    string    `json:"purpose"`
	EventName  string    `json:"event_name"`
	Status     string    `json:"status"`
	StatusCode int       `json:"status_code"`
}

func toUserJSON(u store.User) userJSON {
	return userJSON{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin, CreatedAt: u.CreatedAt}
}

func toVenueJSON(v store.Venue) venueJSON {
	return venueJSON{
		ID:        v.ID,
		Name:      v.Name,
		Location:  v.Location,
		Capacity:  v.Capacity,
		Image:     v.Image,
		CreatedAt: v.CreatedAt,
	}
}

func toBookingJSON(b store.BookingView) bookingJSON {
	return bookingJSON{
		ID:         b.ID,
		UserID:     b.UserID,
		Username:   b.Username,
		VenueID:    b.VenueID,
		VenueName:  b.VenueName,
		VenueImage: b.VenueImage,
		Date:       b.Date,
		StartsAt:   b.Range.Start,
		EndsAt:     b.Range.End,
		TimeRange:  b.Range.String(),
		Purpose:    b.Purpose,
		EventName:  b.EventName,
		Status:     b.Status.String(),
		StatusCode: int(b.Status),
	}
}
