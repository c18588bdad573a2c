// Package errors provides the error taxonomy for the CardMaker client.
//
// Usage:
//
//	// In the client - classify backend responses
//	if resp.StatusCode == http.StatusNotFound {
//	    return errors.ErrNotFound
//	}
//
//	// In callers - check with errors.Is / errors.As
//	if errors.Is(err, errors.ErrNotFound) {
//	    // "not found" is a distinct outcome, not a failure
//	}
//
//	var statusErr *errors.StatusError
//	if errors.As(err, &statusErr) {
//	    fmt.Println("backend answered", statusErr.Status)
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// New returns a new error with the given text.
func New(text string) error {
	return errors.New(text)
}

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound reports a 404 on a single-resource read. Callers treat
	// it as "absent", distinct from every other failure.
	ErrNotFound = errors.New("resource not found")

	// ErrNoSession reports an operation that needs an authenticated
	// session while none is active.
	ErrNoSession = errors.New("no active session")
)

// StatusError reports a non-2xx backend response. It carries the numeric
// status so callers can branch on it.
type StatusError struct {
	Method string
	Path   string
	Status int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Status)
}

// Is reports whether target matches this error. Matches any *StatusError
// with the same status, so sentinels like &StatusError{Status: 500} work
// with errors.Is.
func (e *StatusError) Is(target error) bool {
	var t *StatusError
	if errors.As(target, &t) {
		return e.Status == t.Status
	}
	return false
}

// StatusOf extracts the HTTP status carried by err, if any.
func StatusOf(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status, true
	}
	return 0, false
}
