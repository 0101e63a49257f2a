package booking

type kindError struct {
	kind string
	msg  string
}

func (e *kindError) Error() string     { return e.msg }
func (e *kindError) ErrorKind() string { return e.kind }

// Error kinds reported through store.ErrorClassifier, alongside store.Kind*.
const (
	KindForbidden   = "forbidden"
	KindTransition  = "transition"
	KindConflict    = "conflict"
	KindNotLoggedIn = "not_logged_in"
)

var (
	// ErrForbidden reports an actor without the right to perform the action.
	ErrForbidden error = &kindError{kind: KindForbidden, msg: "not permitted"}
	// ErrInvalidTransition reports a status change the lifecycle does not allow.
	ErrInvalidTransition error = &kindError{kind: KindTransition, msg: "invalid status transition"}
	// ErrOverlap reports a window that intersects another active booking.
	ErrOverlap error = &kindError{kind: KindConflict, msg: "booking overlaps an existing booking"}
	// ErrNotLoggedIn reports an operation attempted without an actor.
	ErrNotLoggedIn error = &kindError{kind: KindNotLoggedIn, msg: "not logged in"}
)
