// Package store persists users, venues, and bookings in SQLite and exposes the
// data-access API the booking service and CLI are built on.
//
// The Store owns a connection pool opened once per process. Every operation
// takes a context and runs either as a single statement or inside one
// transaction (venue and user deletion cascade to bookings atomically).
// Schema files under migrations/ use "create if absent" semantics, so existing
// data survives restarts; the seed administrator is ensured on every Open.
//
// Booking status codes follow the original application's signed integers
// (0 pending, 1 approved, -1 denied, -2 canceled). SetBookingStatus is an
// unconditional overwrite; transition rules live in the booking package.
package store
