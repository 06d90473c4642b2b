package entities

import (
	"errors"
	"fmt"
)

// Sentinel errors for local precondition failures. All of these are detected
// before any network call is attempted.
var (
	// ErrUnauthorized means no session token is present.
	ErrUnauthorized = errors.New("unauthorized: no session token")

	// ErrBusy means a chat request is already in flight for the active thread.
	ErrBusy = errors.New("a chat request is already in flight")

	// ErrNotFound means the selected document is not in the known list.
	ErrNotFound = errors.New("document not found")

	// ErrNoActiveSession means no document is selected for chat.
	ErrNoActiveSession = errors.New("no document selected")
)

// AuthError reports a failed credential exchange with the identity provider.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "auth failed: " + e.Message
}

// ValidationError reports locally rejected input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// BackendError reports a non-2xx backend response, carrying the
// server-supplied detail message when one was given.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// NetworkError reports a transport-level failure before any response arrived.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
