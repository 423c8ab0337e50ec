package gateway

import (
	"errors"
	"fmt"
)

// ErrReauthenticate is returned when the backend rejects the stored token.
// The gateway has already cleared the session; callers send the user back
// to the auth entry point and never retry.
var ErrReauthenticate = errors.New("session expired, please log in again")

// ErrNoRecommendations marks a recommendation query that completed but
// matched nothing. It is a distinct outcome, not a failure.
var ErrNoRecommendations = errors.New("no recommendations found for the given nutritional values")

// ValidationError reports input rejected on the client before any request
// is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ServerError carries a structured error message returned by the backend
// with a non-2xx status. The message is surfaced verbatim.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// NetworkError wraps a transport-level failure behind the generic
// connectivity message shown to the user.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("unable to connect to the server: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
