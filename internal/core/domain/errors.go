package domain

import "errors"

var (
	// ErrNotFound is returned by durable stores for a missing or expired key.
	ErrNotFound = errors.New("not found")

	// ErrSessionExpired is returned to callers after the backend answered 401
	// and the session was torn down.
	ErrSessionExpired = errors.New("session expired")

	ErrMalformedIdentity  = errors.New("malformed identity")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidAppointment = errors.New("invalid appointment")
)
