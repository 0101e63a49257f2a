package store_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"venuebook/internal/auth"
	"venuebook/internal/store"
	"venuebook/internal/testsupport"
)

func newMockStore(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return store.New(db, auth.NewHasher(4)), mock
}

func TestDeleteVenueRollsBackOnFailure(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bookings WHERE venue_id = ?")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM venues WHERE venue_id = ?")).
		WithArgs(int64(5)).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	_, err := st.DeleteVenue(context.Background(), 5)
	if !errors.Is(err, store.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if store.Kind(err) != store.KindStorage {
		t.Fatalf("unexpected kind %q", store.Kind(err))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteVenueMissingRowRollsBack(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bookings WHERE venue_id = ?")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM venues WHERE venue_id = ?")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if _, err := st.DeleteVenue(context.Background(), 9); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegisterMapsUniqueViolation(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"))

	_, err := st.Register(context.Background(), "alice", "pw1")
	if !errors.Is(err, store.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingWrapsDriverError(t *testing.T) {
	st, mock := newMockStore(t)
	driverErr := errors.New("constraint failed: FOREIGN KEY constraint failed (787)")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).WillReturnError(driverErr)

	_, err := st.CreateBooking(context.Background(), store.NewBooking{
		UserID:    1,
		VenueID:   2,
		Range:     testsupport.Range(t, "2025-01-10 09:00", "2025-01-10 11:00"),
		Purpose:   "Meeting",
		EventName: "Standup",
	})
	if !errors.Is(err, store.ErrStorage) || !errors.Is(err, driverErr) {
		t.Fatalf("expected ErrStorage wrapping the driver error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSetBookingStatusNoRows(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := st.SetBookingStatus(context.Background(), 12, store.StatusApproved); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
