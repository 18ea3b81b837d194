// Package common defines shared constants and sentinel errors used across
// the application layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Credential errors.
	ErrorInvalidCredential = errors.New("invalid credential")
	ErrorCorruptCredential = errors.New("corrupt credential")

	// Auth errors (invalid, malformed or expired token).
	ErrorInvalidToken = errors.New("invalid token")
	ErrorUnauthorized = errors.New("unauthorized")

	// Request validation.
	ErrorInvalidArgument = errors.New("invalid argument")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")
)
