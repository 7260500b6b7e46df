package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownItem is returned for ids that are not in the local list.
	ErrUnknownItem = errors.New("item is not loaded")
	// ErrPending is returned when the item already has an action in flight.
	ErrPending = errors.New("an action for this item is still pending")
)

// ActionError is a failed transition request. Status is zero when the
// request never got a response.
type ActionError struct {
	Status  int
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ActionError) Unwrap() error { return e.Err }
