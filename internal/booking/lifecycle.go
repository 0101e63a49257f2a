package booking

import (
	"fmt"

	"venuebook/internal/store"
)

// Action is a requested change to a booking's status.
type Action string

const (
	ActionApprove Action = "approve"
	ActionDeny    Action = "deny"
	ActionCancel  Action = "cancel"
)

// transitions lists the status each action leads to from each state. Only
// pending bookings move; deletion is handled outside the table because it is
// allowed from every state.
var transitions = map[store.Status]map[Action]store.Status{
	store.StatusPending: {
		ActionApprove: store.StatusApproved,
		ActionDeny:    store.StatusDenied,
		ActionCancel:  store.StatusCanceled,
	},
}

// Next returns the status reached by applying action in state from.
func Next(from store.Status, action Action) (store.Status, error) {
	if to, ok := transitions[from][action]; ok {
		return to, nil
	}
	return from, fmt.Errorf("%s a %s booking: %w", action, from, ErrInvalidTransition)
}
