// Package common defines shared constants and sentinel errors used across
// the profile client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Transport-level errors.
	ErrUnavailable = errors.New("server unavailable")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrTokenExpired = errors.New("token expired")

	// Session errors.
	ErrNoSession      = errors.New("no session")
	ErrSessionInvalid = errors.New("session invalid")

	// Store errors.
	ErrNotFound = errors.New("not found")
)
