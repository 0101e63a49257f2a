package main

import (
	"errors"

	"venuebook/internal/booking"
	"venuebook/internal/store"
)

// describeError turns classified errors into messages for the terminal.
func describeError(err error) string {
	var classifier store.ErrorClassifier
	if !errors.As(err, &classifier) {
		return err.Error()
	}
	switch classifier.ErrorKind() {
	case store.KindCredentials:
		return "invalid username or password"
	case store.KindStorage:
		return "database error: " + err.Error()
	case booking.KindForbidden:
		return err.Error() + " (log in with an account that has access)"
	case booking.KindNotLoggedIn:
		return err.Error() + " (run `venuebook login`)"
	default:
		return err.Error()
	}
}
