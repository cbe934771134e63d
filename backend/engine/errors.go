package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyCompleted is returned when a task already has a
	// completion recorded for the requested day. Callers treat it as a
	// no-op conflict, not a failure.
	ErrAlreadyCompleted = errors.New("task already completed today")

	// ErrNotFound is returned when a task or user does not exist or
	// does not belong to the caller.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports a rejected input before any state mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
