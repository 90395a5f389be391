package apperrors

import "errors"

// Failure taxonomy shared by the gateway and every screen. View code matches
// these sentinels with errors.Is and never inspects raw transport errors.
var (
	// ErrUnauthorized terminates the session and forces re-login.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoData marks an empty result set; screens render it as an empty
	// state, not an error banner.
	ErrNoData = errors.New("no data available")

	// ErrValidation carries a server-rejected input; the wrapped detail is
	// surfaced to the user verbatim.
	ErrValidation = errors.New("validation rejected")

	// ErrServerUnavailable covers 5xx, network failures and timeouts.
	ErrServerUnavailable = errors.New("server unavailable")

	// ErrNoSession means no authenticated session is stored.
	ErrNoSession = errors.New("no active session")

	// ErrInvalidInput marks a local pre-network validation failure.
	ErrInvalidInput = errors.New("invalid input")
)
