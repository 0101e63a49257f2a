// Package logging assembles structured slog loggers and formatting helpers used
// across venuebook.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes small attribute helpers so store, service, and CLI code
// tag log lines with the same keys (component, user_id, venue_id, booking_id,
// session_id). The package also provides a no-op logger for tests and wiring
// code that cannot fail.
package logging
