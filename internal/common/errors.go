// Package common defines shared constants and sentinel errors used across
// the FoodBridge client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrNotFound = errors.New("not found")

	// Session lifecycle errors.
	ErrNoSession      = errors.New("no active session")
	ErrSessionExpired = errors.New("session expired")

	// Validation errors.
	ErrValidation = errors.New("validation failed")
)
