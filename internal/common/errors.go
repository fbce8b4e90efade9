// Package common defines shared constants and sentinel errors used across
// filesify packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrUsage marks errors caused by invalid input from the caller
	// (bad model path, bad restriction list, bad arguments). The CLI maps
	// it to a usage exit code.
	ErrUsage = errors.New("usage error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
