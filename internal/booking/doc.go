// Package booking implements the venue booking workflow on top of the store:
// account registration and login, venue administration, booking requests,
// and the admin approval lifecycle.
//
// Every operation takes the acting user explicitly. Admin-only operations
// return ErrForbidden for regular users, and status changes go through the
// transition table in lifecycle.go so a denied booking can never be approved
// later. Two configurable policies change the original behavior:
//
//   - overlap policy "reject" refuses a booking or approval whose window
//     intersects another active booking at the same venue;
//   - cancel mode "status" keeps canceled bookings as history instead of
//     deleting them.
package booking
