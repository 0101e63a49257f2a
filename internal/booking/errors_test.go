package booking_test

import (
	"fmt"
	"testing"

	"venuebook/internal/booking"
	"venuebook/internal/store"
)

func TestErrorKinds(t *testing.T) {
	cases := map[error]string{
		booking.ErrForbidden:         booking.KindForbidden,
		booking.ErrInvalidTransition: booking.KindTransition,
		booking.ErrOverlap:           booking.KindConflict,
		booking.ErrNotLoggedIn:       booking.KindNotLoggedIn,
	}
	for err, want := range cases {
		wrapped := fmt.Errorf("op: %w", err)
		if got := store.Kind(wrapped); got != want {
			t.Fatalf("Kind(%v) = %q, want %q", err, got, want)
		}
	}
}
