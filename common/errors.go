// Package common defines the sentinel errors shared across the authentication
// core. Callers should use errors.Is to match these values; the hosting
// service maps each one to a user-facing status and message at its boundary.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict")

	// Input errors.
	ErrValidation = errors.New("validation error")

	// Credential errors. ErrInvalidCredentials deliberately covers both an
	// unknown identifier and a wrong secret so that callers cannot probe
	// which identifiers exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Account state errors.
	ErrAccountNotVerified = errors.New("account not verified")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")

	// One-time code errors.
	ErrCodeExpired  = errors.New("verification code expired")
	ErrCodeMismatch = errors.New("invalid verification code")

	// Email delivery errors.
	ErrDeliveryFailed = errors.New("email delivery failed")

	// Session token errors.
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")

	// Catch-all. Never carries internal detail to the caller.
	ErrInternal = errors.New("internal error")
)
