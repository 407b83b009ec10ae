package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRefreshToken means nothing is persisted; the user must log in.
	ErrNoRefreshToken = errors.New("no refresh token")
	// ErrRefreshFailed means the refresh exchange failed and the session was cleared.
	ErrRefreshFailed = errors.New("refresh exchange failed")
	// ErrUnauthenticated wraps the EnsureSession failure that gated a call.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrSessionChanged is returned to a refresh that finished after a login
	// or logout replaced the session it started from.
	ErrSessionChanged = errors.New("session changed during refresh")
	// ErrMalformedResponse is used when a 2xx body lacks a required field.
	ErrMalformedResponse = errors.New("malformed response")
)

// CallError describes a failed HTTP call. Status is 0 for transport failures.
// Message is the human-readable text picked by ExtractErrorMessage.
type CallError struct {
	Method   string
	Endpoint string
	Status   int
	Message  string
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.Endpoint, e.Message)
}

func (e *CallError) Unwrap() error { return e.Err }
