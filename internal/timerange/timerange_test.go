package timerange_test

import (
	"errors"
	"testing"
	"time"

	"venuebook/internal/timerange"
)

func mustRange(t *testing.T, start, end string) timerange.Range {
	t.Helper()
	s, err := timerange.ParseLocal(start, time.UTC)
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	e, err := timerange.ParseLocal(end, time.UTC)
	if err != nil {
		t.Fatalf("parse end: %v", err)
	}
	r, err := timerange.New(s, e)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestOverlaps(t *testing.T) {
	base := mustRange(t, "2025-01-10 09:00", "2025-01-10 11:00")
	cases := []struct {
		name  string
		other timerange.Range
		want  bool
	}{
		{"identical", mustRange(t, "2025-01-10 09:00", "2025-01-10 11:00"), true},
		{"inside", mustRange(t, "2025-01-10 09:30", "2025-01-10 10:00"), true},
		{"straddles start", mustRange(t, "2025-01-10 08:00", "2025-01-10 09:15"), true},
		{"spans days", mustRange(t, "2025-01-09 08:00", "2025-01-12 00:00"), true},
		{"touches end", mustRange(t, "2025-01-10 11:00", "2025-01-10 12:00"), false},
		{"touches start", mustRange(t, "2025-01-10 08:00", "2025-01-10 09:00"), false},
		{"other day", mustRange(t, "2025-01-11 09:00", "2025-01-11 11:00"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			if got := tc.other.Overlaps(base); got != tc.want {
				t.Fatalf("Overlaps is not symmetric")
			}
		})
	}
}

func TestNewRejectsInvertedRange(t *testing.T) {
	start := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	if _, err := timerange.New(start, end); !errors.Is(err, timerange.ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}
	if _, err := timerange.New(start, start); err != nil {
		t.Fatalf("zero-length range should be accepted: %v", err)
	}
}

func TestLegacyRoundTrip(t *testing.T) {
	const legacy = "2025-01-10 09:00 - 2025-01-11 17:45"
	r, err := timerange.ParseLegacy(legacy, time.Local)
	if err != nil {
		t.Fatalf("ParseLegacy: %v", err)
	}
	if r.String() != legacy {
		t.Fatalf("String() = %q, want %q", r.String(), legacy)
	}
	if r.Date() != "2025-01-10" {
		t.Fatalf("Date() = %q", r.Date())
	}
	if r.Duration() != 32*time.Hour+45*time.Minute {
		t.Fatalf("unexpected duration %s", r.Duration())
	}
}

func TestParseLegacyErrors(t *testing.T) {
	for _, value := range []string{
		"",
		"2025-01-10 09:00",
		"2025-01-10 09:00 - tomorrow",
		"2025-01-11 09:00 - 2025-01-10 09:00",
	} {
		if _, err := timerange.ParseLegacy(value, time.UTC); err == nil {
			t.Fatalf("expected error for %q", value)
		}
	}
}

func TestParseLocalDateOnly(t *testing.T) {
	got, err := timerange.ParseLocal(" 2025-01-10 ", time.UTC)
	if err != nil {
		t.Fatalf("ParseLocal: %v", err)
	}
	if !got.Equal(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time %s", got)
	}
}

func TestStorageLayoutIsSortable(t *testing.T) {
	early := time.Date(2025, 1, 10, 9, 0, 0, 0, time.FixedZone("X", 3*3600))
	late := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	a, b := timerange.FormatStorage(early), timerange.FormatStorage(late)
	if !(a < b) {
		t.Fatalf("expected %q < %q", a, b)
	}
	parsed, err := timerange.ParseStorage(a)
	if err != nil {
		t.Fatalf("ParseStorage: %v", err)
	}
	if !parsed.Equal(early) {
		t.Fatalf("round trip mismatch: %s vs %s", parsed, early)
	}
}
