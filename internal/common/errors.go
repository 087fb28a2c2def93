// Package common holds the sentinel errors shared by the client and the
// server. Match them with errors.Is; most are wrapped with context.
package common

import "errors"

// Storage and service errors. The gRPC layer maps each to a status code.
var (
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorValidation    = errors.New("validation error")
)

// Authentication.
var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// ErrNoSession means no user is logged in on this client.
	ErrNoSession = errors.New("no session found")
)

// Deck/session synchronization failures. Workflow and Debouncer code wraps
// the underlying cause with one of these.
var (
	// ErrGenerationFailure: the generation call failed or returned
	// malformed data.
	ErrGenerationFailure = errors.New("generation failure")

	// ErrPersistenceFailure: a remote store call failed while committing
	// a deck and its flashcards.
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrDuplicateThread: a thread lookup missed but the create call found
	// an existing thread with the same creator and name.
	ErrDuplicateThread = errors.New("duplicate thread")

	// ErrStaleWriteSuppressed: a transcript entry was not written because
	// its timestamp is not later than the latest persisted message.
	ErrStaleWriteSuppressed = errors.New("stale write suppressed")

	// ErrInvalidUserInput covers empty deck names, unreadable files and
	// similar input that is answered with a re-prompt.
	ErrInvalidUserInput = errors.New("invalid user input")
)
