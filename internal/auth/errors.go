package auth

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by login and Quick Connect flows. Callers
// classify with errors.Is so the UI can distinguish "check your password"
// from "check your connection".
var (
	// ErrInvalidCredentials indicates the server rejected the user (401 on
	// login, finalize, or a Quick Connect poll)
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrQuickConnectDisabled indicates Quick Connect is not enabled on the
	// server (401 on initiate)
	ErrQuickConnectDisabled = errors.New("quick connect is disabled on the server")
	// ErrQuickConnectExpired indicates the client-side budget for an attempt
	// ran out before the code was authorized
	ErrQuickConnectExpired = errors.New("quick connect code expired")
	// ErrCancelled indicates the caller aborted a Quick Connect attempt.
	// A terminal state rather than a failure; no credentials are written.
	ErrCancelled = errors.New("quick connect cancelled")
	// ErrAttemptInProgress indicates a login or Quick Connect initiate while
	// another credential-writing attempt is still live
	ErrAttemptInProgress = errors.New("an authentication attempt is already in progress")
	// ErrNoHost indicates no server is bound
	ErrNoHost = errors.New("no server selected")
	// ErrNotFound indicates a secret storage key is absent
	ErrNotFound = errors.New("not found")
)

// ServerError is a non-2xx response other than the 401s mapped to sentinel
// errors above.
type ServerError struct {
	Status int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned status %d", e.Status)
}

// TransportError is a network-level failure with no server response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
