package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRejected     = errors.New("request rejected")
)

// APIError carries the status and server supplied reason of a failed call.
type APIError struct {
	Status int
	Reason string
	kind   error
}

func (e *APIError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s (status %d)", e.kind, e.Status)
	}
	return fmt.Sprintf("%s (status %d): %s", e.kind, e.Status, e.Reason)
}

func (e *APIError) Unwrap() error { return e.kind }
