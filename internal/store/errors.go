package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorClassifier allows errors to declare their classification so callers can
// map failures to user-facing messages without string matching.
type ErrorClassifier interface {
	ErrorKind() string
}

// Error kinds reported through ErrorClassifier.
const (
	KindDuplicate   = "duplicate"
	KindNotFound    = "not_found"
	KindStorage     = "storage"
	KindCredentials = "credentials"
	KindValidation  = "validation"
)

type kindError struct {
	kind   string
	msg    string
	parent error
}

func (e *kindError) Error() string     { return e.msg }
func (e *kindError) ErrorKind() string { return e.kind }
func (e *kindError) Unwrap() error     { return e.parent }

var (
	// ErrDuplicateKey signals a unique constraint collision.
	ErrDuplicateKey error = &kindError{kind: KindDuplicate, msg: "duplicate key"}
	// ErrDuplicateUsername signals the username is already taken.
	ErrDuplicateUsername error = &kindError{kind: KindDuplicate, msg: "username already exists", parent: ErrDuplicateKey}
	// ErrDuplicateVenueName signals the venue name is already taken.
	ErrDuplicateVenueName error = &kindError{kind: KindDuplicate, msg: "venue already exists", parent: ErrDuplicateKey}
	// ErrNotFound signals a lookup miss.
	ErrNotFound error = &kindError{kind: KindNotFound, msg: "not found"}
	// ErrStorage wraps low-level failures on insert, update, or delete.
	ErrStorage error = &kindError{kind: KindStorage, msg: "storage failure"}
	// ErrInvalidCredentials indicates a login failure.
	ErrInvalidCredentials error = &kindError{kind: KindCredentials, msg: "invalid username or password"}
	// ErrInvalidInput reports a request rejected before reaching SQL.
	ErrInvalidInput error = &kindError{kind: KindValidation, msg: "invalid input"}
	// ErrInvalidStatus reports a status code outside the booking status domain.
	ErrInvalidStatus error = &kindError{kind: KindValidation, msg: "invalid booking status", parent: ErrInvalidInput}
)

// Kind returns the classification of err, or "internal" when it has none.
func Kind(err error) string {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	return "internal"
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

func notFound(what string, id int64) error {
	return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
}

func invalidInput(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInvalidInput)
}

const sqliteConstraintUnique = 2067

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteConstraintUnique {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
