// Package timerange models the start/end window of a booking.
//
// Ranges are half-open: a booking ending at 10:00 does not overlap one
// starting at 10:00. Storage uses fixed-width UTC timestamps so that string
// comparison in SQL orders the same way as time comparison. The legacy
// display form "2025-01-10 09:00 - 2025-01-10 11:00" is produced and parsed
// only at the edges.
package timerange

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar date format used for booking_date.
	DateLayout = "2006-01-02"
	// MinuteLayout is the local date-and-time format accepted from users.
	MinuteLayout = "2006-01-02 15:04"
	// StorageLayout is the fixed-width UTC timestamp persisted in SQLite.
	StorageLayout = "2006-01-02T15:04:05Z"

	legacySeparator = " - "
)

// ErrEndBeforeStart reports an inverted range.
var ErrEndBeforeStart = errors.New("end is before start")

// Range is a booking window.
type Range struct {
	Start time.Time
	End   time.Time
}

// New validates and builds a Range.
func New(start, end time.Time) (Range, error) {
	if start.IsZero() || end.IsZero() {
		return Range{}, errors.New("start and end are required")
	}
	if end.Before(start) {
		return Range{}, fmt.Errorf("%w: %s > %s", ErrEndBeforeStart, start.Format(MinuteLayout), end.Format(MinuteLayout))
	}
	return Range{Start: start, End: end}, nil
}

// Overlaps reports whether r and other intersect as half-open intervals.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Duration returns the length of the range.
func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Date returns the local start date, the value stored as booking_date.
func (r Range) Date() string {
	return r.Start.In(time.Local).Format(DateLayout)
}

// String renders the legacy display form in local time.
func (r Range) String() string {
	return r.Start.In(time.Local).Format(MinuteLayout) + legacySeparator + r.End.In(time.Local).Format(MinuteLayout)
}

// ParseLocal accepts "YYYY-MM-DD HH:MM" or "YYYY-MM-DD" (midnight) in loc.
func ParseLocal(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	value = strings.Join(strings.Fields(value), " ")
	if value == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range []string{MinuteLayout, DateLayout} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q (want YYYY-MM-DD HH:MM)", value)
}

// ParseLegacy decodes the original application's time_range text.
func ParseLegacy(value string, loc *time.Location) (Range, error) {
	startRaw, endRaw, ok := strings.Cut(strings.TrimSpace(value), legacySeparator)
	if !ok {
		return Range{}, fmt.Errorf("invalid time range %q: missing %q separator", value, strings.TrimSpace(legacySeparator))
	}
	start, err := ParseLocal(startRaw, loc)
	if err != nil {
		return Range{}, fmt.Errorf("time range start: %w", err)
	}
	end, err := ParseLocal(endRaw, loc)
	if err != nil {
		return Range{}, fmt.Errorf("time range end: %w", err)
	}
	return New(start, end)
}

// FormatStorage renders t in the persisted layout.
func FormatStorage(t time.Time) string {
	return t.UTC().Format(StorageLayout)
}

// ParseStorage decodes a persisted timestamp.
func ParseStorage(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(StorageLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}
