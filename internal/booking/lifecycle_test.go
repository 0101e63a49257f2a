package booking

import (
	"errors"
	"testing"

	"venuebook/internal/store"
)

func TestNext(t *testing.T) {
	cases := []struct {
		from    store.Status
		action  Action
		want    store.Status
		allowed bool
	}{
		{store.StatusPending, ActionApprove, store.StatusApproved, true},
		{store.StatusPending, ActionDeny, store.StatusDenied, true},
		{store.StatusPending, ActionCancel, store.StatusCanceled, true},
		{store.StatusApproved, ActionDeny, store.StatusApproved, false},
		{store.StatusApproved, ActionCancel, store.StatusApproved, false},
		{store.StatusDenied, ActionApprove, store.StatusDenied, false},
		{store.StatusCanceled, ActionApprove, store.StatusCanceled, false},
		{store.StatusCanceled, ActionCancel, store.StatusCanceled, false},
	}
	for _, tc := range cases {
		got, err := Next(tc.from, tc.action)
		if tc.allowed {
			if err != nil {
				t.Fatalf("%s from %s: unexpected error %v", tc.action, tc.from, err)
			}
		} else if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s from %s: expected ErrInvalidTransition, got %v", tc.action, tc.from, err)
		}
		if got != tc.want {
			t.Fatalf("%s from %s = %s, want %s", tc.action, tc.from, got, tc.want)
		}
	}
}
