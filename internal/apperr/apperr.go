// Package apperr defines the closed set of error kinds surfaced to API
// callers. Services return these typed errors with user-safe messages;
// transport handlers map kinds to HTTP status codes at the boundary.
// Infrastructure faults are never wrapped in an apperr; they are logged
// with full detail and reported as a generic failure.
package apperr

import "errors"

// Kind classifies a user-facing failure.
type Kind int

const (
	// Unauthenticated covers bad credentials, locked accounts, pending
	// invitations at login, and expired/invalid/reused tokens.
	Unauthenticated Kind = iota + 1
	// InvalidRequest covers malformed input and invalid state transitions
	// such as accepting an expired invitation twice.
	InvalidRequest
	// Forbidden covers role, tenant and schema boundary violations.
	Forbidden
	// Conflict covers duplicate emails, slugs and tenants.
	Conflict
	// NotFound covers missing entities.
	NotFound
)

// Error is a typed, user-safe error. Message is intended to be returned to
// the caller verbatim and must never contain internal detail.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// KindOf extracts the Kind from err. The second return is false when err is
// not an apperr (i.e. an infrastructure fault).
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err is an apperr of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
