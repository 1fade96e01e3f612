// Package errors provides common domain error types for the quantum CLI.
//
// This package defines sentinel errors for conditions the remote meeting
// intelligence API reports, so callers can use errors.Is() checks instead of
// matching on message strings.
//
// Usage:
//
//	import qerrors "github.com/quantum-ai/quantum-cli/pkg/errors"
//
//	// Return a domain error
//	return nil, qerrors.ErrNotFound
//
//	// Check for domain errors
//	if qerrors.IsNotFound(err) {
//	    // handle not found case
//	}
package errors

import "errors"

// Domain errors - common sentinel errors for domain conditions.
var (
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the request lacks a valid session token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation indicates invalid input or validation failure.
	ErrValidation = errors.New("validation error")

	// ErrNotProcessed indicates the meeting has not been processed yet,
	// so no summary, action items, or emotion data exist for it.
	ErrNotProcessed = errors.New("meeting not processed")

	// ErrNoSession indicates no session token is available; the user
	// must log in first.
	ErrNoSession = errors.New("no session; run 'quantum auth login'")

	// ErrUnavailable indicates the remote API could not be reached.
	ErrUnavailable = errors.New("service unavailable")
)

// IsNotFound reports whether any error in err's chain is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized reports whether any error in err's chain is ErrUnauthorized.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsValidation reports whether any error in err's chain is ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotProcessed reports whether any error in err's chain is ErrNotProcessed.
func IsNotProcessed(err error) bool {
	return errors.Is(err, ErrNotProcessed)
}

// IsNoSession reports whether any error in err's chain is ErrNoSession.
func IsNoSession(err error) bool {
	return errors.Is(err, ErrNoSession)
}

// IsUnavailable reports whether any error in err's chain is ErrUnavailable.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
